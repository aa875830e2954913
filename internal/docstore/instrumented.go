package docstore

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Instrumented records operation counts and latency for the wrapped store.
type Instrumented struct {
	Next     Store
	ops      *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func NewInstrumented(next Store, reg prometheus.Registerer) *Instrumented {
	ops := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "barbearia_store_operations_total",
		Help: "Document store operations by collection, operation and result.",
	}, []string{"collection", "op", "result"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "barbearia_store_operation_duration_seconds",
		Help:    "Document store operation latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"collection", "op"})
	reg.MustRegister(ops, duration)
	return &Instrumented{Next: next, ops: ops, duration: duration}
}

func (s *Instrumented) observe(collection, op string, start time.Time, err error) {
	result := "ok"
	switch {
	case err == nil:
	case errors.Is(err, ErrNotFound):
		result = "not_found"
	case errors.Is(err, ErrBelowFloor):
		result = "below_floor"
	default:
		result = "error"
	}
	s.ops.WithLabelValues(collection, op, result).Inc()
	s.duration.WithLabelValues(collection, op).Observe(time.Since(start).Seconds())
}

func (s *Instrumented) Add(ctx context.Context, collection string, fields map[string]any) (string, error) {
	start := time.Now()
	id, err := s.Next.Add(ctx, collection, fields)
	s.observe(collection, "add", start, err)
	return id, err
}

func (s *Instrumented) List(ctx context.Context, collection string) ([]Document, error) {
	start := time.Now()
	docs, err := s.Next.List(ctx, collection)
	s.observe(collection, "list", start, err)
	return docs, err
}

func (s *Instrumented) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	start := time.Now()
	err := s.Next.Update(ctx, collection, id, fields)
	s.observe(collection, "update", start, err)
	return err
}

func (s *Instrumented) Delete(ctx context.Context, collection, id string) error {
	start := time.Now()
	err := s.Next.Delete(ctx, collection, id)
	s.observe(collection, "delete", start, err)
	return err
}

func (s *Instrumented) Adjust(ctx context.Context, collection, id, field string, delta, floor float64) (float64, error) {
	start := time.Now()
	v, err := s.Next.Adjust(ctx, collection, id, field, delta, floor)
	s.observe(collection, "adjust", start, err)
	return v, err
}

func (s *Instrumented) Health(ctx context.Context) error {
	return s.Next.Health(ctx)
}

func (s *Instrumented) Close() error {
	return s.Next.Close()
}
