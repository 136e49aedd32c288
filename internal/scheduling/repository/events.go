package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fieldcrew/coating-scheduler/internal/scheduling/domain"
	"github.com/redis/go-redis/v9"
)

const eventChannelPrefix = "sched:events:" // status changes: sched:events:{project_id}

// StatusEventPublisher fans task status changes out over Redis Pub/Sub.
type StatusEventPublisher struct {
	client *redis.Client
}

func NewStatusEventPublisher(client *redis.Client) *StatusEventPublisher {
	return &StatusEventPublisher{client: client}
}

func (p *StatusEventPublisher) Publish(ctx context.Context, change domain.StatusChange) error {
	data, err := json.Marshal(change)
	if err != nil {
		return fmt.Errorf("failed to marshal status change: %w", err)
	}
	if err := p.client.Publish(ctx, EventChannel(change.ProjectID), data).Err(); err != nil {
		return fmt.Errorf("failed to publish status change: %w", err)
	}
	return nil
}

// Subscribe listens for status changes of one project. Callers close the
// returned PubSub.
func (p *StatusEventPublisher) Subscribe(ctx context.Context, projectID string) *redis.PubSub {
	return p.client.Subscribe(ctx, EventChannel(projectID))
}

func EventChannel(projectID string) string {
	return eventChannelPrefix + projectID
}
