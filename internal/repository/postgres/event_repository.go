package postgres

import (
	"context"
	"fmt"

	"splitHub/business/assignment"
	"splitHub/domain"

	"gorm.io/gorm"
)

type EventRepository struct {
	DB *gorm.DB
}

var _ assignment.EventRepository = (*EventRepository)(nil)

func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{DB: db}
}

func (r *EventRepository) SaveEvent(ctx context.Context, event domain.AssignmentEvent) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(&event).Error; err != nil {
		return fmt.Errorf("failed to save assignment event: %w", err)
	}

	return nil
}
