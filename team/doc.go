// Package team implements the orchestration core: a registry of teams,
// each owning an agent roster, a dependency-ordered task table, and an
// append-only message log.
//
// Tasks move through pending -> ready -> running -> completed/failed,
// with failed tasks resumable. Readiness is driven purely by dependency
// completion; the dependency graph is kept acyclic at assignment time.
// External work happens behind the Executor interface and is never
// performed while a team lock is held.
package team
