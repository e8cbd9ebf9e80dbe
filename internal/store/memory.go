package store

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/i474232898/weather-reports/internal/weather"
)

var (
	// ErrDuplicateKey is returned when adding an entity whose id is already stored.
	ErrDuplicateKey = errors.New("duplicate id")
	// ErrNotFound is returned when updating an entity that is not stored.
	ErrNotFound = errors.New("entity not found")
	// ErrInvalidID is returned for the nil UUID.
	ErrInvalidID = errors.New("entity id must be set")
)

// Collection is a concurrency-safe in-memory set of entities keyed by id.
// Entities go in and come out by value, so callers always hold their own copy.
type Collection[T weather.Entity] struct {
	mu sync.RWMutex

	name  string
	items map[uuid.UUID]T
	order []uuid.UUID // insertion order
}

// NewCollection creates an empty collection. name is used in logs.
func NewCollection[T weather.Entity](name string) *Collection[T] {
	return &Collection[T]{
		name:  name,
		items: make(map[uuid.UUID]T),
	}
}

// Add stores a new entity.
func (c *Collection[T]) Add(entity T) (T, error) {
	var zero T
	id := entity.EntityID()
	if id == uuid.Nil {
		return zero, ErrInvalidID
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.items[id]; ok {
		return zero, fmt.Errorf("%w: %s %s", ErrDuplicateKey, c.name, id)
	}
	c.items[id] = entity
	c.order = append(c.order, id)
	slog.Debug("entity added", "collection", c.name, "id", id)
	return entity, nil
}

// GetByID returns the entity with the given id.
func (c *Collection[T]) GetByID(id uuid.UUID) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entity, ok := c.items[id]
	return entity, ok
}

// GetAll returns every entity in insertion order.
func (c *Collection[T]) GetAll() []T {
	return c.filter(func(T) bool { return true })
}

// Update replaces a stored entity wholesale.
func (c *Collection[T]) Update(entity T) (T, error) {
	var zero T
	id := entity.EntityID()
	if id == uuid.Nil {
		return zero, ErrInvalidID
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.items[id]; !ok {
		slog.Warn("update of unknown entity", "collection", c.name, "id", id)
		return zero, fmt.Errorf("%w: %s %s", ErrNotFound, c.name, id)
	}
	c.items[id] = entity
	slog.Debug("entity updated", "collection", c.name, "id", id)
	return entity, nil
}

// Delete removes the entity with the given id and reports whether it existed.
func (c *Collection[T]) Delete(id uuid.UUID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.items[id]; !ok {
		slog.Warn("delete of unknown entity", "collection", c.name, "id", id)
		return false
	}
	delete(c.items, id)
	for i, oid := range c.order {
		if oid == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	slog.Debug("entity deleted", "collection", c.name, "id", id)
	return true
}

// Clear removes every entity.
func (c *Collection[T]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := len(c.items)
	c.items = make(map[uuid.UUID]T)
	c.order = nil
	slog.Info("collection cleared", "collection", c.name, "count", n)
}

// Len returns the number of stored entities.
func (c *Collection[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// filter returns, in insertion order, the entities keep accepts.
func (c *Collection[T]) filter(keep func(T) bool) []T {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make([]T, 0, len(c.order))
	for _, id := range c.order {
		if e := c.items[id]; keep(e) {
			result = append(result, e)
		}
	}
	return result
}

// first returns the first entity, in insertion order, that match accepts.
func (c *Collection[T]) first(match func(T) bool) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, id := range c.order {
		if e := c.items[id]; match(e) {
			return e, true
		}
	}
	var zero T
	return zero, false
}
