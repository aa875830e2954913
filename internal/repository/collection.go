package repository

import (
	"context"
	"fmt"

	"barbearia-backend/internal/docstore"
	"github.com/mitchellh/mapstructure"
)

// collection maps entities of type T to documents of one named collection.
// The id lives outside the field set: it is stripped on write and attached on read.
type collection[T any] struct {
	store docstore.Store
	name  string
	setID func(*T, string)
}

func (c collection[T]) add(ctx context.Context, v T) (string, error) {
	fields, err := encodeFields(v)
	if err != nil {
		return "", &StoreWriteError{Collection: c.name, Op: "add", Err: err}
	}
	id, err := c.store.Add(ctx, c.name, fields)
	if err != nil {
		return "", &StoreWriteError{Collection: c.name, Op: "add", Err: err}
	}
	return id, nil
}

func (c collection[T]) list(ctx context.Context) ([]T, error) {
	docs, err := c.store.List(ctx, c.name)
	if err != nil {
		return nil, &StoreReadError{Collection: c.name, Op: "list", Err: err}
	}
	items := make([]T, 0, len(docs))
	for _, d := range docs {
		var v T
		if err := decodeFields(d.Fields, &v); err != nil {
			return nil, &StoreReadError{Collection: c.name, Op: "decode " + d.ID, Err: err}
		}
		c.setID(&v, d.ID)
		items = append(items, v)
	}
	return items, nil
}

// get lists the collection and picks one document; collections are small and the
// store contract has no single-document read.
func (c collection[T]) get(ctx context.Context, id string) (*T, error) {
	docs, err := c.store.List(ctx, c.name)
	if err != nil {
		return nil, &StoreReadError{Collection: c.name, Op: "get", Err: err}
	}
	for _, d := range docs {
		if d.ID != id {
			continue
		}
		var v T
		if err := decodeFields(d.Fields, &v); err != nil {
			return nil, &StoreReadError{Collection: c.name, Op: "decode " + d.ID, Err: err}
		}
		c.setID(&v, d.ID)
		return &v, nil
	}
	return nil, ErrNotFound
}

func (c collection[T]) update(ctx context.Context, id string, fields map[string]any) error {
	if err := c.store.Update(ctx, c.name, id, fields); err != nil {
		return &StoreWriteError{Collection: c.name, Op: "update", ID: id, Err: err}
	}
	return nil
}

func (c collection[T]) delete(ctx context.Context, id string) error {
	if err := c.store.Delete(ctx, c.name, id); err != nil {
		return &StoreWriteError{Collection: c.name, Op: "delete", ID: id, Err: err}
	}
	return nil
}

func (c collection[T]) adjust(ctx context.Context, id, field string, delta, floor float64) (float64, error) {
	v, err := c.store.Adjust(ctx, c.name, id, field, delta, floor)
	if err != nil {
		return v, &StoreWriteError{Collection: c.name, Op: "adjust " + field, ID: id, Err: err}
	}
	return v, nil
}

func encodeFields(v any) (map[string]any, error) {
	fields := map[string]any{}
	if err := mapstructure.Decode(v, &fields); err != nil {
		return nil, fmt.Errorf("encode fields: %w", err)
	}
	return fields, nil
}

func decodeFields(fields map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(fields)
}
