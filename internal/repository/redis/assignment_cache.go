package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"splitHub/business/assignment"
	"splitHub/domain"
	"splitHub/pkg/logger"

	"github.com/redis/go-redis/v9"
)

// AssignmentCache is a read-through cache in front of an AssignmentRepository.
// Assignments never change once written, so entries are only ever added and
// left to expire. Redis errors degrade to the wrapped repository.
type AssignmentCache struct {
	client *redis.Client
	next   assignment.AssignmentRepository
	ttl    time.Duration
}

var _ assignment.AssignmentRepository = (*AssignmentCache)(nil)

func NewAssignmentCache(client *redis.Client, next assignment.AssignmentRepository, ttl time.Duration) *AssignmentCache {
	return &AssignmentCache{
		client: client,
		next:   next,
		ttl:    ttl,
	}
}

func assignmentKey(experimentID, visitorID string) string {
	// key format: "assignment:{experiment_id}:{visitor_id}"
	return fmt.Sprintf("assignment:%s:%s", experimentID, visitorID)
}

func (c *AssignmentCache) GetAssignment(ctx context.Context, experimentID, visitorID string) (*domain.VisitorAssignment, error) {
	key := assignmentKey(experimentID, visitorID)

	val, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var a domain.VisitorAssignment
		if err := json.Unmarshal(val, &a); err == nil {
			return &a, nil
		}
		logger.Warn("dropping undecodable cached assignment", "key", key)
		c.client.Del(ctx, key)
	case !errors.Is(err, redis.Nil):
		logger.Warn("redis get failed, reading through",
			"trace_id", logger.TraceIDFromContext(ctx),
			"key", key,
			"error", err,
		)
	}

	a, err := c.next.GetAssignment(ctx, experimentID, visitorID)
	if err != nil || a == nil {
		return a, err
	}
	c.store(ctx, *a)
	return a, nil
}

func (c *AssignmentCache) CreateAssignment(ctx context.Context, a domain.VisitorAssignment) (domain.VisitorAssignment, bool, error) {
	stored, created, err := c.next.CreateAssignment(ctx, a)
	if err != nil {
		return stored, created, err
	}
	c.store(ctx, stored)
	return stored, created, nil
}

func (c *AssignmentCache) store(ctx context.Context, a domain.VisitorAssignment) {
	raw, err := json.Marshal(a)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, assignmentKey(a.ExperimentID, a.VisitorID), raw, c.ttl).Err(); err != nil {
		logger.Warn("redis set failed",
			"trace_id", logger.TraceIDFromContext(ctx),
			"experiment_id", a.ExperimentID,
			"visitor_id", a.VisitorID,
			"error", err,
		)
	}
}
