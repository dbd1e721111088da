package team

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/BaSui01/teamflow/types"
)

// RateLimitedExecutor wraps an Executor with a token-bucket limiter so a
// burst of ready tasks cannot overwhelm a downstream capability.
type RateLimitedExecutor struct {
	inner   Executor
	limiter *rate.Limiter
}

// NewRateLimitedExecutor limits inner to rps requests per second with the
// given burst. A burst below 1 is raised to 1 so the limiter can make
// progress.
func NewRateLimitedExecutor(inner Executor, rps float64, burst int) *RateLimitedExecutor {
	if burst < 1 {
		burst = 1
	}
	return &RateLimitedExecutor{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

func (e *RateLimitedExecutor) Execute(ctx context.Context, req *ExecutionRequest) (string, error) {
	if err := e.limiter.Wait(ctx); err != nil {
		return "", types.NewError(types.ErrExecutionFailed, "rate limit wait canceled").WithCause(err)
	}
	return e.inner.Execute(ctx, req)
}

var _ Executor = (*RateLimitedExecutor)(nil)
