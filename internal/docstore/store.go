// Package docstore is the document store the application persists to.
// Documents live in named collections and are keyed by a store-assigned id.
package docstore

import (
	"context"
	"errors"
	"math"
)

var (
	// ErrNotFound is returned when a document id does not exist in its collection.
	ErrNotFound = errors.New("document not found")
	// ErrBelowFloor is returned by Adjust when the result would drop under the floor.
	ErrBelowFloor = errors.New("value would drop below floor")
)

// NoFloor disables the lower bound of Adjust.
var NoFloor = math.Inf(-1)

// Document is one persisted entity: its id and field set.
type Document struct {
	ID     string
	Fields map[string]any
}

// Store is implemented by every driver.
//
// Delete of a missing id succeeds; Update and Adjust of a missing id return ErrNotFound.
type Store interface {
	Add(ctx context.Context, collection string, fields map[string]any) (string, error)
	List(ctx context.Context, collection string) ([]Document, error)
	Update(ctx context.Context, collection, id string, fields map[string]any) error
	Delete(ctx context.Context, collection, id string) error
	// Adjust atomically adds delta to a numeric field and returns the new value.
	// A missing field counts as zero.
	Adjust(ctx context.Context, collection, id, field string, delta, floor float64) (float64, error)
	Health(ctx context.Context) error
	Close() error
}

func cloneFields(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// toFloat reads the numeric types the drivers hand back.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case nil:
		return 0, true
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
