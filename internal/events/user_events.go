package events

import (
	"context"
	"fmt"

	"userdash/internal/config"
	"userdash/internal/directory"
	"userdash/internal/logging"
	"userdash/internal/store"
)

// Event types carried on the users topic. The *Locally types record
// mutations that deliberately never reached the directory.
const (
	UserCreatedType        = "UserCreated"
	UserUpdatedType        = "UserUpdated"
	UserDeletedType        = "UserDeleted"
	UserAddedLocallyType   = "UserAddedLocally"
	UserRemovedLocallyType = "UserRemovedLocally"
)

type userEvents struct {
	bus         Bus
	topicPrefix string
	logger      logging.Logger
}

func NewUserEvents(bus Bus, cfg config.KafkaConfig, logger logging.Logger) store.Events {
	return &userEvents{
		bus:         bus,
		topicPrefix: cfg.TopicPrefix,
		logger:      logger.With("component", "user_events"),
	}
}

func (e *userEvents) topic() string {
	return e.topicPrefix + "users"
}

func (e *userEvents) UserCreated(ctx context.Context, u directory.User) error {
	if err := e.bus.Publish(ctx, e.topic(), UserCreatedType, u); err != nil {
		return fmt.Errorf("publish UserCreated: %w", err)
	}
	return nil
}

func (e *userEvents) UserUpdated(ctx context.Context, u directory.User) error {
	if err := e.bus.Publish(ctx, e.topic(), UserUpdatedType, u); err != nil {
		return fmt.Errorf("publish UserUpdated: %w", err)
	}
	return nil
}

func (e *userEvents) UserDeleted(ctx context.Context, id int) error {
	payload := struct {
		ID int `json:"id"`
	}{ID: id}

	if err := e.bus.Publish(ctx, e.topic(), UserDeletedType, payload); err != nil {
		return fmt.Errorf("publish UserDeleted: %w", err)
	}
	return nil
}

func (e *userEvents) UserAddedLocally(ctx context.Context, u directory.User) error {
	if err := e.bus.Publish(ctx, e.topic(), UserAddedLocallyType, u); err != nil {
		return fmt.Errorf("publish UserAddedLocally: %w", err)
	}
	return nil
}

func (e *userEvents) UserRemovedLocally(ctx context.Context, id int) error {
	payload := struct {
		ID int `json:"id"`
	}{ID: id}

	if err := e.bus.Publish(ctx, e.topic(), UserRemovedLocallyType, payload); err != nil {
		return fmt.Errorf("publish UserRemovedLocally: %w", err)
	}
	return nil
}
