package team

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/BaSui01/teamflow/types"
)

// IntegrateOption configures a result integration.
type IntegrateOption func(*integrateOptions)

type integrateOptions struct {
	allowPartial bool
}

// WithAllowPartial lets integration proceed over the completed subset
// of tasks even while others are still pending, running, or failed. At
// least one completed task is still required.
func WithAllowPartial() IntegrateOption {
	return func(o *integrateOptions) {
		o.allowPartial = true
	}
}

// IntegrateResults combines all completed task results into a single
// deliverable through the execution capability. By default every task
// must have completed; tasks are fed to the capability in assignment
// order. Integration never mutates task state, so it can be retried
// freely.
func (t *Team) IntegrateResults(ctx context.Context, opts ...IntegrateOption) (string, error) {
	var o integrateOptions
	for _, opt := range opts {
		opt(&o)
	}

	t.mu.RLock()
	var inputs []IntegrationInput
	var incomplete []string
	for _, task := range t.tasks.ordered() {
		if task.State == types.TaskCompleted {
			inputs = append(inputs, IntegrationInput{
				TaskID:      task.ID,
				Sequence:    task.Sequence,
				Role:        t.roster.roleOf(task.AgentID),
				Description: task.Description,
				Result:      task.Result,
			})
		} else {
			incomplete = append(incomplete, task.ID)
		}
	}
	req := &ExecutionRequest{
		TeamID:      t.id,
		TeamName:    t.name,
		TeamGoal:    t.goal,
		Role:        "integrator",
		Description: t.goal,
		Integration: inputs,
	}
	t.mu.RUnlock()

	if !o.allowPartial && len(incomplete) > 0 {
		t.metrics.RecordIntegration("rejected")
		return "", types.Errorf(types.ErrIncompleteTasks,
			"%d task(s) have not completed", len(incomplete)).WithDetails(incomplete...)
	}
	if len(inputs) == 0 {
		t.metrics.RecordIntegration("rejected")
		return "", types.NewError(types.ErrIncompleteTasks, "no completed tasks to integrate")
	}

	ctx, span := t.tracer.Start(ctx, "team.integrate_results",
		trace.WithAttributes(
			attribute.String("team.id", t.id),
			attribute.Int("inputs", len(inputs)),
			attribute.Bool("partial", o.allowPartial),
		))
	defer span.End()

	result, err := t.executor.Execute(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		t.metrics.RecordIntegration("failed")
		t.logger.Warn("result integration failed",
			zap.String("team_id", t.id),
			zap.Error(err))
		return "", types.NewError(types.ErrExecutionFailed, "result integration failed").WithCause(err)
	}
	span.SetStatus(codes.Ok, "")

	t.metrics.RecordIntegration("completed")
	t.logger.Info("results integrated",
		zap.String("team_id", t.id),
		zap.Int("inputs", len(inputs)))
	return result, nil
}
