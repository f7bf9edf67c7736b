package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fivetwenty-io/b2bi-client/internal/constants"
	"github.com/fivetwenty-io/b2bi-client/pkg/b2bi"
)

// ResourceClient provides a generic client for one entity type on one
// service.
type ResourceClient[T b2bi.Entity] struct {
	client    *Client
	service   string
	newEntity func() T
}

var _ b2bi.ResourceClient[*b2bi.Mailbox] = (*ResourceClient[*b2bi.Mailbox])(nil)

// NewResourceClient creates a new generic resource client. newEntity
// returns an empty entity to decode into.
func NewResourceClient[T b2bi.Entity](client *Client, service string, newEntity func() T) *ResourceClient[T] {
	return &ResourceClient[T]{
		client:    client,
		service:   service,
		newEntity: newEntity,
	}
}

// Service returns the service name.
func (r *ResourceClient[T]) Service() string {
	return r.service
}

// Get retrieves an entity by key.
func (r *ResourceClient[T]) Get(ctx context.Context, key string) (T, error) {
	var zero T

	payload, err := r.client.Get(ctx, r.service, key)
	if err != nil {
		return zero, err
	}

	return r.decode(payload)
}

// Find retrieves an entity by key; found is false when it does not exist.
func (r *ResourceClient[T]) Find(ctx context.Context, key string) (T, bool, error) {
	var zero T

	payload, found, err := r.client.Find(ctx, r.service, key)
	if err != nil || !found {
		return zero, false, err
	}

	entity, err := r.decode(payload)
	if err != nil {
		return zero, false, err
	}

	return entity, true, nil
}

// List retrieves every entity matching params, following pagination.
func (r *ResourceClient[T]) List(ctx context.Context, params *b2bi.QueryParams) ([]T, error) {
	items, err := r.client.FetchAll(ctx, r.service, params)
	if err != nil {
		return nil, err
	}

	entities := make([]T, 0, len(items))

	for _, item := range items {
		entity, err := r.decode(item)
		if err != nil {
			return nil, err
		}

		entities = append(entities, entity)
	}

	return entities, nil
}

// Create creates an entity.
func (r *ResourceClient[T]) Create(ctx context.Context, entity T) (*b2bi.ServiceResponse, error) {
	body, err := json.Marshal(entity)
	if err != nil {
		return nil, b2bi.EncodingError(fmt.Errorf("serializing %s: %w", r.service, err))
	}

	return r.client.Create(ctx, r.service, body)
}

// Update replaces the entity stored under entity.Key().
func (r *ResourceClient[T]) Update(ctx context.Context, entity T) (*b2bi.ServiceResponse, error) {
	key := entity.Key()
	if key == "" {
		return nil, constants.ErrKeyRequired
	}

	body, err := json.Marshal(entity)
	if err != nil {
		return nil, b2bi.EncodingError(fmt.Errorf("serializing %s: %w", r.service, err))
	}

	return r.client.Update(ctx, r.service, key, body)
}

// Delete deletes an entity by key.
func (r *ResourceClient[T]) Delete(ctx context.Context, key string) (*b2bi.ServiceResponse, error) {
	if key == "" {
		return nil, constants.ErrKeyRequired
	}

	return r.client.Delete(ctx, r.service, key)
}

// Refresh re-fetches entity when it has diverged from the JSON it was
// loaded from. It returns the entity to use and whether a fetch happened.
func (r *ResourceClient[T]) Refresh(ctx context.Context, entity T) (T, bool, error) {
	modified, err := b2bi.IsModified(entity)
	if err != nil {
		return entity, false, fmt.Errorf("checking %s for changes: %w", r.service, err)
	}

	if !modified {
		return entity, false, nil
	}

	fresh, err := r.Get(ctx, entity.Key())
	if err != nil {
		return entity, false, err
	}

	return fresh, true, nil
}

func (r *ResourceClient[T]) decode(payload []byte) (T, error) {
	entity := r.newEntity()

	err := b2bi.Decode(payload, entity)
	if err != nil {
		var zero T

		return zero, b2bi.NormalizationError(err)
	}

	return entity, nil
}
