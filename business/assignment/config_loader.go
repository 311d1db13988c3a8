package assignment

import (
	"context"

	"splitHub/business/bandit"
	"splitHub/pkg/logger"
)

// loadConfig layers the experiment's stored overrides over the service
// defaults. Any repository problem falls back to the defaults.
func (s *Service) loadConfig(ctx context.Context, experimentID string) bandit.Config {
	if s.cfgRepo == nil {
		return s.defaultCfg
	}

	row, ok, err := s.cfgRepo.GetConfig(ctx, experimentID)
	if err != nil {
		logger.Warn("bandit config unavailable, using defaults",
			"trace_id", logger.TraceIDFromContext(ctx),
			"experiment_id", experimentID,
			"error", err,
		)
		return s.defaultCfg
	}
	if !ok {
		return s.defaultCfg
	}

	return s.defaultCfg.WithOverrides(row)
}
