package handler

import (
	"net/http"
	"time"

	"barbearia-backend/internal/domain"
	"barbearia-backend/internal/repository"
	"github.com/go-chi/chi/v5"
)

// ProductionHandler lists what barbers produced: services and product sales.
type ProductionHandler struct {
	Results repository.ProductionResultRepository
	Sales   repository.SaleRepository
}

func (h ProductionHandler) RegisterRoutes(r chi.Router) {
	r.Get("/production-results", h.listResults)
	r.Post("/production-results", h.createResult)
	r.Get("/sales", h.listSales)
}

func (h ProductionHandler) listResults(w http.ResponseWriter, r *http.Request) {
	start, end, ok := parseDateRange(w, r)
	if !ok {
		return
	}
	items, err := h.Results.ListBetween(r.Context(), start, end)
	if err != nil {
		writeFailure(w, err)
		return
	}
	resp := make([]map[string]any, 0, len(items))
	for _, p := range items {
		row := map[string]any{
			"id":          p.ID,
			"barberName":  p.BarberName,
			"serviceName": p.ServiceName,
			"date":        p.Date,
		}
		if p.ClientName != "" {
			row["clientName"] = p.ClientName
		}
		if p.ExtraServiceName != "" {
			row["extraServiceName"] = p.ExtraServiceName
		}
		if p.Price != 0 {
			row["price"] = p.Price
			row["commission"] = p.Commission
		}
		resp = append(resp, row)
	}
	writeJSON(w, http.StatusOK, resp)
}

// createResult records a service by hand, without pricing or commission.
func (h ProductionHandler) createResult(w http.ResponseWriter, r *http.Request) {
	var req struct {
		BarberName  string `json:"barberName" validate:"required"`
		ServiceName string `json:"serviceName" validate:"required"`
		Date        string `json:"date" validate:"required"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if _, ok := domain.ParseTimestamp(req.Date); !ok {
		writeError(w, http.StatusUnprocessableEntity, "Data inválida (use AAAA-MM-DD).")
		return
	}
	id, err := h.Results.Add(r.Context(), domain.ProductionResult{BarberName: req.BarberName, ServiceName: req.ServiceName, Date: req.Date})
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeRawJSON(w, http.StatusCreated, apiResponse{Status: "ok", Data: map[string]string{"id": id}})
}

func (h ProductionHandler) listSales(w http.ResponseWriter, r *http.Request) {
	start, end, ok := parseDateRange(w, r)
	if !ok {
		return
	}
	items, err := h.Sales.List(r.Context())
	if err != nil {
		writeFailure(w, err)
		return
	}
	resp := make([]domain.Sale, 0, len(items))
	for _, s := range items {
		if inRange(s.Timestamp, start, end) {
			resp = append(resp, s)
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func inRange(ts string, start, end *time.Time) bool {
	if start == nil && end == nil {
		return true
	}
	t, ok := domain.ParseTimestamp(ts)
	if !ok {
		return false
	}
	if start != nil && t.Before(*start) {
		return false
	}
	return end == nil || t.Before(end.AddDate(0, 0, 1))
}
