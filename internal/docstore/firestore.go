package docstore

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Firestore is the hosted document store. Ids are assigned by Firestore.
type Firestore struct {
	Client *firestore.Client
}

func NewFirestore(client *firestore.Client) *Firestore {
	return &Firestore{Client: client}
}

func (s *Firestore) Add(ctx context.Context, collection string, fields map[string]any) (string, error) {
	ref, _, err := s.Client.Collection(collection).Add(ctx, fields)
	if err != nil {
		return "", err
	}
	return ref.ID, nil
}

func (s *Firestore) List(ctx context.Context, collection string) ([]Document, error) {
	snaps, err := s.Client.Collection(collection).Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	items := make([]Document, 0, len(snaps))
	for _, snap := range snaps {
		items = append(items, Document{ID: snap.Ref.ID, Fields: snap.Data()})
	}
	return items, nil
}

func (s *Firestore) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	if len(fields) == 0 {
		// Firestore rejects empty updates; still report a missing document.
		if _, err := s.Client.Collection(collection).Doc(id).Get(ctx); err != nil {
			return mapFirestoreErr(err)
		}
		return nil
	}
	_, err := s.Client.Collection(collection).Doc(id).Update(ctx, toUpdates(fields))
	return mapFirestoreErr(err)
}

func (s *Firestore) Delete(ctx context.Context, collection, id string) error {
	_, err := s.Client.Collection(collection).Doc(id).Delete(ctx)
	return err
}

func (s *Firestore) Adjust(ctx context.Context, collection, id, field string, delta, floor float64) (float64, error) {
	ref := s.Client.Collection(collection).Doc(id)
	var result float64
	err := s.Client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			return err
		}
		raw, err := snap.DataAtPath(firestore.FieldPath{field})
		if err != nil {
			raw = nil
		}
		current, ok := toFloat(raw)
		if !ok {
			return fmt.Errorf("field %q is not numeric", field)
		}
		next := current + delta
		if next < floor {
			result = current
			return ErrBelowFloor
		}
		result = next
		return tx.Update(ref, []firestore.Update{{FieldPath: firestore.FieldPath{field}, Value: next}})
	})
	if err != nil {
		return result, mapFirestoreErr(err)
	}
	return result, nil
}

func (s *Firestore) Health(ctx context.Context) error {
	_, err := s.Client.Collection("_health").Limit(1).Documents(ctx).GetAll()
	return err
}

func (s *Firestore) Close() error {
	return s.Client.Close()
}

// toUpdates sorts paths so writes are deterministic.
func toUpdates(fields map[string]any) []firestore.Update {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	updates := make([]firestore.Update, 0, len(keys))
	for _, k := range keys {
		updates = append(updates, firestore.Update{FieldPath: firestore.FieldPath{k}, Value: fields[k]})
	}
	return updates
}

func mapFirestoreErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrBelowFloor) {
		return ErrBelowFloor
	}
	if status.Code(err) == codes.NotFound {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	return err
}
