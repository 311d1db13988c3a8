package assignment

import (
	"context"
	"fmt"
	"math"
	"strings"

	"splitHub/domain"
	"splitHub/pkg/logger"
)

type ConversionRequest struct {
	ExperimentID  string
	ExperimentKey string
	VisitorID     string
	Revenue       float64
	Context       map[string]any
}

// RecordConversion credits a conversion to the visitor's assigned variant.
// The counter increment and event are best-effort, like the visitor
// increment on assignment.
func (s *Service) RecordConversion(ctx context.Context, req ConversionRequest) (domain.ConversionResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.ConversionResult{}, fmt.Errorf("context error: %w", err)
	}

	visitorID := strings.TrimSpace(req.VisitorID)
	if visitorID == "" {
		return domain.ConversionResult{}, domain.NewValidationError(domain.ErrVisitorIDRequired)
	}
	if req.Revenue < 0 || math.IsNaN(req.Revenue) || math.IsInf(req.Revenue, 0) {
		return domain.ConversionResult{}, domain.NewValidationError(domain.ErrInvalidRevenue)
	}

	exp, err := s.resolveExperiment(ctx, req.ExperimentID, req.ExperimentKey)
	if err != nil {
		return domain.ConversionResult{}, err
	}

	a, err := s.assignmentRepo.GetAssignment(ctx, exp.ID, visitorID)
	if err != nil {
		return domain.ConversionResult{}, fmt.Errorf("load assignment: %w", err)
	}
	if a == nil {
		return domain.ConversionResult{}, domain.NewValidationError(domain.ErrAssignmentNotFound)
	}

	logger.Debug("allocation_conversion",
		"trace_id", logger.TraceIDFromContext(ctx),
		"experiment_id", exp.ID,
		"visitor_id", visitorID,
		"variant_id", a.VariantID,
		"revenue", req.Revenue,
	)

	ConversionsTotal.Inc()
	s.trackConversion(ctx, *a, req.Revenue, req.Context)

	return domain.ConversionResult{
		ExperimentID: exp.ID,
		VisitorID:    visitorID,
		VariantID:    a.VariantID,
		Revenue:      req.Revenue,
	}, nil
}
