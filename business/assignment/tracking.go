package assignment

import (
	"context"
	"errors"
	"fmt"

	"splitHub/domain"
	"splitHub/pkg/logger"

	"gorm.io/datatypes"
)

// ErrDraining is recorded for best-effort writes submitted after Drain.
var ErrDraining = errors.New("assignment service is draining")

// runBestEffort hands task to the dispatcher with its own deadline. The
// request context's values (trace id) survive; its cancellation does not,
// since the response is usually gone before the task runs. Once Drain has
// started, tasks are dropped and counted as failures under op.
func (s *Service) runBestEffort(ctx context.Context, op string, task func(ctx context.Context)) {
	base := context.WithoutCancel(ctx)

	s.drainMu.Lock()
	if s.draining {
		s.drainMu.Unlock()
		s.bestEffortFailed(ctx, op, ErrDraining)
		return
	}
	s.inflight.Add(1)
	s.drainMu.Unlock()

	s.dispatch(func() {
		defer s.inflight.Done()
		defer func() {
			if r := recover(); r != nil {
				logger.Error("best-effort task panicked",
					"trace_id", logger.TraceIDFromContext(base),
					"panic", fmt.Sprint(r),
				)
			}
		}()

		taskCtx, cancel := context.WithTimeout(base, s.bestEffortTimeout)
		defer cancel()
		task(taskCtx)
	})
}

// Drain stops accepting best-effort writes and waits for the in-flight ones,
// or until ctx is done. Calls to Assign or RecordConversion after Drain still
// answer, but their tracking writes are dropped.
func (s *Service) Drain(ctx context.Context) error {
	s.drainMu.Lock()
	s.draining = true
	s.drainMu.Unlock()

	done := make(chan struct{})
	go func() {
		s.inflight.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("drain best-effort writes: %w", ctx.Err())
	}
}

func (s *Service) bestEffortFailed(ctx context.Context, op string, err error, keyvals ...any) {
	BestEffortFailuresTotal.WithLabelValues(op).Inc()

	perr := &domain.PersistenceError{Op: op, Err: err}
	fields := append([]any{"trace_id", logger.TraceIDFromContext(ctx), "error", perr}, keyvals...)
	logger.Warn("best-effort write failed", fields...)
}

func (s *Service) trackAssignment(
	ctx context.Context,
	experimentID, variantID, visitorID string,
	alg domain.Algorithm,
	reqCtx map[string]any,
) {
	s.runBestEffort(ctx, "track_assignment", func(ctx context.Context) {
		if err := s.statsRepo.IncrementVisitorCount(ctx, experimentID, variantID); err != nil {
			s.bestEffortFailed(ctx, "increment_visitor_count", err,
				"experiment_id", experimentID, "variant_id", variantID)
		}

		if s.eventRepo == nil {
			return
		}
		event := domain.AssignmentEvent{
			ID:           s.newID(),
			ExperimentID: experimentID,
			VariantID:    variantID,
			VisitorID:    visitorID,
			EventType:    domain.EventAssignment,
			Algorithm:    alg,
			Context:      eventContext(ctx, reqCtx),
		}
		if err := s.eventRepo.SaveEvent(ctx, event); err != nil {
			s.bestEffortFailed(ctx, "save_assignment_event", err,
				"experiment_id", experimentID, "variant_id", variantID)
		}
	})
}

func (s *Service) trackConversion(
	ctx context.Context,
	a domain.VisitorAssignment,
	revenue float64,
	reqCtx map[string]any,
) {
	s.runBestEffort(ctx, "track_conversion", func(ctx context.Context) {
		if err := s.statsRepo.IncrementConversionCount(ctx, a.ExperimentID, a.VariantID, revenue); err != nil {
			s.bestEffortFailed(ctx, "increment_conversion_count", err,
				"experiment_id", a.ExperimentID, "variant_id", a.VariantID)
		}

		if s.eventRepo == nil {
			return
		}
		event := domain.AssignmentEvent{
			ID:           s.newID(),
			ExperimentID: a.ExperimentID,
			VariantID:    a.VariantID,
			VisitorID:    a.VisitorID,
			EventType:    domain.EventConversion,
			Algorithm:    a.Algorithm,
			Revenue:      revenue,
			Context:      eventContext(ctx, reqCtx),
		}
		if err := s.eventRepo.SaveEvent(ctx, event); err != nil {
			s.bestEffortFailed(ctx, "save_conversion_event", err,
				"experiment_id", a.ExperimentID, "variant_id", a.VariantID)
		}
	})
}

// eventContext copies the caller's context map and stamps the trace id.
func eventContext(ctx context.Context, reqCtx map[string]any) datatypes.JSONMap {
	out := datatypes.JSONMap{}
	for k, v := range reqCtx {
		out[k] = v
	}
	if tid := logger.TraceIDFromContext(ctx); tid != "" {
		out["trace_id"] = tid
	}
	return out
}
