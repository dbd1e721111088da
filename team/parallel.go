package team

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/BaSui01/teamflow/types"
)

// ExecuteReady runs every currently ready task concurrently and returns
// the outcome snapshots keyed by task ID. Two ready tasks assigned to
// the same agent cannot both win the running transition; the loser is
// skipped and stays ready for a later round. Tasks promoted to ready by
// a completion during this round are not picked up; call again for the
// next wave.
func (t *Team) ExecuteReady(ctx context.Context) (map[string]*types.Task, error) {
	t.mu.RLock()
	ids := t.tasks.readyIDs()
	t.mu.RUnlock()

	out := make(map[string]*types.Task, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var outMu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	for _, id := range ids {
		g.Go(func() error {
			snapshot, err := t.ExecuteTask(ctx, id)
			if err != nil {
				// A lost race over the task or its agent is not fatal
				// to the round.
				if types.IsKind(err, types.ErrInvalidState) {
					return nil
				}
				return err
			}
			outMu.Lock()
			out[id] = snapshot
			outMu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return out, err
	}
	return out, nil
}
