package notify

import (
	"context"
	"time"
)

// Source is the single abstraction over "something changed the order set".
// The reconciliation logic does not care which backend fired; it simply
// re-runs on every signal.
type Source interface {
	Changes(ctx context.Context) <-chan struct{}
}

// PushSource delivers change signals from the redis pub/sub channel.
type PushSource struct {
	notifier *Notifier
}

func NewPushSource(notifier *Notifier) *PushSource {
	return &PushSource{notifier: notifier}
}

func (s *PushSource) Changes(ctx context.Context) <-chan struct{} {
	out := make(chan struct{}, 1)
	sub := s.notifier.rdb.Subscribe(ctx, orderChannel)
	go func() {
		defer close(out)
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-ch:
				if !ok {
					return
				}
				// Coalesce bursts into a single pending signal.
				select {
				case out <- struct{}{}:
				default:
				}
			}
		}
	}()
	return out
}

// PollSource delivers change signals on a fixed interval, for deployments
// without a realtime backend.
type PollSource struct {
	Interval time.Duration
}

func NewPollSource(interval time.Duration) *PollSource {
	return &PollSource{Interval: interval}
}

func (s *PollSource) Changes(ctx context.Context) <-chan struct{} {
	out := make(chan struct{}, 1)
	go func() {
		defer close(out)
		ticker := time.NewTicker(s.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				select {
				case out <- struct{}{}:
				default:
				}
			}
		}
	}()
	return out
}
