package main

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"

	"github.com/forkful/recipe-catalog/shared/models"
)

// Recipe event types
const (
	EventRecipeCreated = "recipe.created"
	EventRecipeUpdated = "recipe.updated"
	EventRecipeDeleted = "recipe.deleted"
)

// RecipeEvent is the message published on every recipe mutation.
type RecipeEvent struct {
	EventType    string    `json:"event_type"`
	RecipeID     uuid.UUID `json:"recipe_id"`
	RestaurantID uuid.UUID `json:"restaurant_id"`
	Title        string    `json:"title"`
	OccurredAt   time.Time `json:"occurred_at"`
}

func newRecipeEvent(eventType string, recipe *models.Recipe) RecipeEvent {
	return RecipeEvent{
		EventType:    eventType,
		RecipeID:     recipe.ID,
		RestaurantID: recipe.RestaurantID,
		Title:        recipe.Title,
		OccurredAt:   time.Now(),
	}
}

// RecipeEventPublisher ships recipe mutation events to Kafka through a small
// worker pool. Publishing is best-effort: a full buffer drops the event, and
// a publisher built without a broker is a no-op.
type RecipeEventPublisher struct {
	writer       *kafka.Writer
	eventChan    chan RecipeEvent
	workerCount  int
	shutdownChan chan struct{}
	wg           sync.WaitGroup
}

// NewRecipeEventPublisher creates a publisher for the given broker. An empty
// broker disables event publishing entirely.
func NewRecipeEventPublisher(broker string) *RecipeEventPublisher {
	if broker == "" {
		logrus.Info("KAFKA_BROKER not set, recipe events disabled")
		return &RecipeEventPublisher{}
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(broker),
		Topic:        "recipe-events",
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
		BatchSize:    100,
	}

	publisher := &RecipeEventPublisher{
		writer:       writer,
		eventChan:    make(chan RecipeEvent, 256),
		workerCount:  4,
		shutdownChan: make(chan struct{}),
	}

	publisher.startWorkers()
	return publisher
}

// startWorkers starts the worker pool for async event publishing
func (p *RecipeEventPublisher) startWorkers() {
	for i := 0; i < p.workerCount; i++ {
		p.wg.Add(1)
		go p.eventWorker(i)
	}
	logrus.Infof("Started %d recipe event workers", p.workerCount)
}

// eventWorker drains the event channel until shutdown
func (p *RecipeEventPublisher) eventWorker(id int) {
	defer p.wg.Done()

	for {
		select {
		case event := <-p.eventChan:
			if err := p.sendEventSync(event); err != nil {
				logrus.Warnf("Recipe event worker %d: %v", id, err)
			}
		case <-p.shutdownChan:
			return
		}
	}
}

// Publish queues a recipe event without blocking the request path.
func (p *RecipeEventPublisher) Publish(event RecipeEvent) {
	if p.writer == nil {
		return
	}

	select {
	case p.eventChan <- event:
	default:
		logrus.Warnf("Recipe event buffer full, dropping %s for recipe %s", event.EventType, event.RecipeID)
	}
}

// sendEventSync writes one event to Kafka (called by workers)
func (p *RecipeEventPublisher) sendEventSync(event RecipeEvent) error {
	message, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal recipe event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(event.RestaurantID.String()),
		Value: message,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.EventType)},
			{Key: "restaurant_id", Value: []byte(event.RestaurantID.String())},
		},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write recipe event: %w", err)
	}
	return nil
}

// Close gracefully shuts down the workers and the Kafka writer
func (p *RecipeEventPublisher) Close() error {
	if p.writer == nil {
		return nil
	}

	close(p.shutdownChan)
	p.wg.Wait()

	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("failed to close Kafka writer: %w", err)
	}
	return nil
}
