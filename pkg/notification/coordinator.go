package notification

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Alomco/OrgCentral-Kai-v2-sub003/pkg/logger"
)

// Coordinator routes delivery targets to registered adapters and collects
// one result per target. Selection prefers an exact provider match when the
// target names one, otherwise the first adapter serving the target's channel.
type Coordinator struct {
	adapters []Adapter
	logger   *slog.Logger
}

// CoordinatorOption configures a Coordinator.
type CoordinatorOption func(*Coordinator)

// WithCoordinatorLogger sets the logger for the Coordinator.
func WithCoordinatorLogger(log *slog.Logger) CoordinatorOption {
	return func(c *Coordinator) {
		if log != nil {
			c.logger = log
		}
	}
}

// NewCoordinator creates a coordinator over the given adapter registry.
// Registry order matters: channel-based selection picks the first match.
func NewCoordinator(adapters []Adapter, opts ...CoordinatorOption) *Coordinator {
	c := &Coordinator{
		adapters: adapters,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Dispatch delivers the notification to every target and returns one result
// per target in the original target order. Disabled channels are suppressed
// without touching any adapter; unmatched targets are skipped with a detail
// naming the unsupported provider or channel. Adapter calls run concurrently
// but results are reassembled positionally, and a panicking adapter is
// downgraded to a failed result so the remaining targets still complete.
func (c *Coordinator) Dispatch(ctx context.Context, n Notification, targets []DeliveryTarget, disabled map[Channel]struct{}) []DeliveryResult {
	results := make([]DeliveryResult, len(targets))

	var wg sync.WaitGroup
	for i, target := range targets {
		if _, off := disabled[target.Channel]; off {
			results[i] = DeliveryResult{
				Channel: target.Channel,
				Status:  StatusSkipped,
				Detail:  DetailChannelDisabledByUser,
			}
			continue
		}

		adapter, found := c.selectAdapter(target)
		if !found {
			detail := fmt.Sprintf("unsupported channel: %s", target.Channel)
			if target.Provider != "" {
				detail = fmt.Sprintf("unsupported provider: %s", target.Provider)
			}
			results[i] = DeliveryResult{
				Provider: target.Provider,
				Channel:  target.Channel,
				Status:   StatusSkipped,
				Detail:   detail,
			}
			continue
		}

		wg.Add(1)
		go func(i int, target DeliveryTarget, adapter Adapter) {
			defer wg.Done()
			results[i] = c.invoke(ctx, adapter, Payload{
				OrgID:         n.OrgID,
				UserID:        n.UserID,
				Destination:   target.Address,
				Subject:       n.Title,
				Body:          n.Body,
				ActionURL:     n.ActionURL,
				CorrelationID: n.CorrelationID,
			})
		}(i, target, adapter)
	}
	wg.Wait()

	return results
}

// selectAdapter picks the adapter for a target: exact provider match when the
// target names one, otherwise the first adapter on the target's channel.
func (c *Coordinator) selectAdapter(target DeliveryTarget) (Adapter, bool) {
	if target.Provider != "" {
		for _, a := range c.adapters {
			if a.Provider() == target.Provider {
				return a, true
			}
		}
		return nil, false
	}

	for _, a := range c.adapters {
		if a.Channel() == target.Channel {
			return a, true
		}
	}
	return nil, false
}

// invoke calls the adapter with a panic guard. Adapters already fold their
// own transport errors into results; this is the second safety net for
// adapters that misbehave.
func (c *Coordinator) invoke(ctx context.Context, adapter Adapter, payload Payload) (result DeliveryResult) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.LogAttrs(ctx, slog.LevelError, "Delivery adapter panicked",
				logger.Provider(adapter.Provider()),
				logger.Channel(string(adapter.Channel())),
				logger.OrgID(payload.OrgID),
				logger.UserID(payload.UserID),
				slog.Any("panic", r),
			)
			result = DeliveryResult{
				Provider: adapter.Provider(),
				Channel:  adapter.Channel(),
				Status:   StatusFailed,
				Detail:   fmt.Sprintf("adapter panic: %v", r),
			}
		}
	}()

	return adapter.Send(ctx, payload)
}
