package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
)

type mongoTransactor struct {
	client *mongo.Client
}

type noopTransactor struct{}

// NewTransactor returns a session-backed transactor when enabled, otherwise a
// transactor that simply calls fn. Multi-document transactions need a replica set.
func NewTransactor(client *mongo.Client, enabled bool) Transactor {
	if !enabled || client == nil {
		return noopTransactor{}
	}
	return &mongoTransactor{client: client}
}

func NewNoopTransactor() Transactor {
	return noopTransactor{}
}

func (t *mongoTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := t.client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

func (noopTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
