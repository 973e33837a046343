package redis

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"seenjeem-admin/internal/domain"
)

// ActivityChannel carries catalog change events between console instances.
const ActivityChannel = "admin:activity"

// ActivityRelay fans catalog changes out over Redis pub/sub so every instance's
// live feed sees edits made on any other instance.
type ActivityRelay struct {
	client *redis.Client
	log    logrus.FieldLogger
}

func NewActivityRelay(client *redis.Client, log logrus.FieldLogger) *ActivityRelay {
	return &ActivityRelay{client: client, log: log}
}

// Publish sends an activity. It matches app.ChangeListener.
func (r *ActivityRelay) Publish(ctx context.Context, a domain.Activity) {
	raw, err := json.Marshal(a)
	if err != nil {
		return
	}
	if err := r.client.Publish(ctx, ActivityChannel, raw).Err(); err != nil {
		r.log.WithError(err).Warn("publish activity failed")
	}
}

// Run delivers relayed activities to deliver until ctx is done.
// ready is closed once the subscription is active.
func (r *ActivityRelay) Run(ctx context.Context, ready chan<- struct{}, deliver func(domain.Activity)) error {
	sub := r.client.Subscribe(ctx, ActivityChannel)
	defer sub.Close()
	if _, err := sub.Receive(ctx); err != nil {
		return err
	}
	if ready != nil {
		close(ready)
	}

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var a domain.Activity
			if err := json.Unmarshal([]byte(msg.Payload), &a); err != nil {
				r.log.WithError(err).Debug("drop malformed activity")
				continue
			}
			deliver(a)
		}
	}
}
