// Copyright (c) TeamFlow Authors.
// Licensed under the MIT License.

/*
Package types provides the shared type definitions for the TeamFlow
orchestration core.

types is the lowest-level public package. It depends on no internal package
and supplies the common contracts used by team, persistence, api and the
internal packages, so that no import cycles can form.

# Core types

  - Error / ErrorKind       — structured error taxonomy surfaced to callers
  - Agent / AgentStatus     — role-labeled worker record scoped to a team
  - Task / TaskState        — unit of work with dependencies and a lifecycle
  - Message                 — append-only team communication record
  - ContextSnapshot         — idempotent bookkeeping view of a team

# Identifiers

NewTeamID, NewAgentID, NewTaskID and NewMessageID generate prefixed,
collision-resistant identifiers backed by UUIDv4. Identifiers are never
reused.
*/
package types
