package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"barbearia-backend/internal/domain"
	"barbearia-backend/internal/observability"
	"barbearia-backend/internal/report"
	"barbearia-backend/internal/repository"
	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"
)

type ReportHandler struct {
	Products repository.ProductRepository
	Barbers  repository.BarberRepository
	Exporter report.Exporter
	Metrics  *observability.Metrics
	Logger   *slog.Logger
	Now      func() time.Time
}

func (h ReportHandler) RegisterRoutes(r chi.Router) {
	r.Get("/reports/export", h.export)
}

func (h ReportHandler) export(w http.ResponseWriter, r *http.Request) {
	format := strings.ToLower(r.URL.Query().Get("format"))
	if format == "" {
		format = report.FormatPDF
	}
	if format != report.FormatPDF && format != report.FormatXLSX && format != report.FormatCSV {
		writeError(w, http.StatusBadRequest, "Formato inválido (use pdf, xlsx ou csv).")
		return
	}

	var (
		products []domain.Product
		barbers  []domain.Barber
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		products, err = h.Products.List(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		barbers, err = h.Barbers.List(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		h.Logger.Error("report data fetch failed", "format", format, "err", err)
		h.Metrics.RecordExport(format, err)
		writeFailure(w, err)
		return
	}

	now := time.Now
	if h.Now != nil {
		now = h.Now
	}
	file, err := h.Exporter.Export(r.Context(), format, report.Data{GeneratedAt: now(), Products: products, Barbers: barbers})
	h.Metrics.RecordExport(format, err)
	if err != nil {
		h.Logger.Error("report export failed", "format", format, "err", err)
		writeError(w, http.StatusBadGateway, "Não foi possível gerar o relatório.")
		return
	}
	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Name))
	_, _ = w.Write(file.Body)
}
