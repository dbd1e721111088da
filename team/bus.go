package team

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/BaSui01/teamflow/persistence"
	"github.com/BaSui01/teamflow/types"
)

// messageBus keeps a team's message log in memory and mirrors it to an
// optional durable store. In-memory access is serialized by the owning
// Team's lock; store writes happen after the lock is released and are
// best effort.
type messageBus struct {
	log    []*types.Message
	store  persistence.MessageStore
	logger *zap.Logger
}

func newMessageBus(store persistence.MessageStore, logger *zap.Logger) *messageBus {
	return &messageBus{store: store, logger: logger}
}

// append records the message in the in-memory log.
func (b *messageBus) append(msg *types.Message) {
	b.log = append(b.log, msg)
}

// visibleTo returns clones of messages addressed to agentID or
// broadcast. An empty agentID returns the full log. Broadcasts are
// visible regardless of when the recipient joined; a direct message is
// visible only to its recipient, not its sender.
func (b *messageBus) visibleTo(agentID string) []*types.Message {
	out := make([]*types.Message, 0, len(b.log))
	for _, m := range b.log {
		if agentID == "" || m.IsBroadcast() || m.To == agentID {
			out = append(out, m.Clone())
		}
	}
	return out
}

func (b *messageBus) len() int {
	return len(b.log)
}

// persist mirrors msg to the durable store. Failures are logged and
// swallowed so delivery, which already happened in memory, is not
// rolled back.
func (b *messageBus) persist(ctx context.Context, msg *types.Message) {
	if b.store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := b.store.AppendMessage(ctx, msg); err != nil {
		b.logger.Warn("message store append failed",
			zap.String("message_id", msg.ID),
			zap.String("team_id", msg.TeamID),
			zap.Error(err))
	}
}
