package orchestrator

import (
	"context"
	"math/rand"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/casperstation/operations-api-service/internal/types"
	"github.com/casperstation/operations-api-service/internal/utils"
)

// scheduleRunner starts the background polling goroutine for an operation.
// At most one runner exists per operation id; scheduling an operation that
// already has a runner is a no-op.
func (o *Orchestrator) scheduleRunner(id string, kind types.OperationKind) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if _, exists := o.runners[id]; exists {
		return
	}
	if o.quitCtx.Err() != nil {
		return
	}

	runnerCtx, cancel := context.WithCancel(o.quitCtx)
	o.runners[id] = cancel

	o.wg.Add(1)
	go o.runPolling(runnerCtx, id, kind)
}

// stopRunner cancels the runner of an operation if one is scheduled.
func (o *Orchestrator) stopRunner(id string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if cancel, exists := o.runners[id]; exists {
		cancel()
		delete(o.runners, id)
	}
}

// runPolling drives a single operation until it leaves the pollable states or
// the orchestrator shuts down. Poll cycles are spaced by the configured
// interval plus a random jitter so that resumed operations do not hammer the
// network in lockstep.
func (o *Orchestrator) runPolling(ctx context.Context, id string, kind types.OperationKind) {
	defer o.wg.Done()
	defer o.stopRunner(id)

	logger := log.With().Str("operationId", id).Str("kind", kind.ToString()).Logger()
	ctx = logger.WithContext(ctx)

	timer := time.NewTimer(o.nextPollDelay())
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		doc, svcErr := o.Poll(ctx, id)
		if svcErr != nil {
			logger.Error().Err(svcErr).Msg("poll cycle failed")
			timer.Reset(o.nextPollDelay())
			continue
		}
		if !utils.Contains(pollableStates(), doc.State) {
			logger.Info().Str("state", doc.State.ToString()).Msg("operation left pollable states, stopping runner")
			return
		}

		timer.Reset(o.nextPollDelay())
	}
}

func (o *Orchestrator) nextPollDelay() time.Duration {
	delay := o.cfg.Orchestrator.PollInterval
	if o.cfg.Orchestrator.MaxPollJitter > 0 {
		delay += time.Duration(rand.Int63n(int64(o.cfg.Orchestrator.MaxPollJitter)))
	}
	return delay
}
