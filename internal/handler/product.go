package handler

import (
	"net/http"

	"barbearia-backend/internal/domain"
	"barbearia-backend/internal/pricing"
	"barbearia-backend/internal/repository"
	"barbearia-backend/internal/service"
	"github.com/go-chi/chi/v5"
)

type ProductHandler struct {
	Repo      repository.ProductRepository
	Dashboard service.ManagerDashboardService
}

func (h ProductHandler) RegisterRoutes(r chi.Router) {
	r.Get("/products", h.list)
	r.Post("/products", h.create)
	r.Patch("/products/{id}", h.update)
	r.Delete("/products/{id}", h.delete)
	r.Post("/products/{id}/restock", h.restock)
}

func (h ProductHandler) list(w http.ResponseWriter, r *http.Request) {
	items, err := h.Repo.List(r.Context())
	if err != nil {
		writeFailure(w, err)
		return
	}
	resp := make([]map[string]any, 0, len(items))
	for _, p := range items {
		pr := pricing.Compute(p.BasePrice)
		resp = append(resp, map[string]any{
			"id":         p.ID,
			"name":       p.Name,
			"basePrice":  p.BasePrice,
			"stock":      p.Stock,
			"taxAmount":  pr.TaxAmount,
			"totalPrice": pr.TotalPrice,
			"commission": pr.Commission,
			"lowStock":   p.Stock < domain.LowStockThreshold,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h ProductHandler) create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name      string  `json:"name" validate:"required"`
		BasePrice float64 `json:"basePrice" validate:"gte=0"`
		Stock     int     `json:"stock" validate:"gte=0"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	id, err := h.Repo.Add(r.Context(), domain.Product{Name: req.Name, BasePrice: req.BasePrice, Stock: req.Stock})
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeRawJSON(w, http.StatusCreated, apiResponse{Status: "ok", Data: map[string]string{"id": id}})
}

func (h ProductHandler) update(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name      *string  `json:"name" validate:"omitempty,min=1"`
		BasePrice *float64 `json:"basePrice" validate:"omitempty,gte=0"`
		Stock     *int     `json:"stock" validate:"omitempty,gte=0"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	view, err := h.Dashboard.UpdateProduct(r.Context(), chi.URLParam(r, "id"), repository.ProductUpdate{
		Name:      req.Name,
		BasePrice: req.BasePrice,
		Stock:     req.Stock,
	})
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h ProductHandler) delete(w http.ResponseWriter, r *http.Request) {
	view, err := h.Dashboard.DeleteProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h ProductHandler) restock(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Quantity int `json:"quantity" validate:"gt=0"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	view, err := h.Dashboard.RestockProduct(r.Context(), chi.URLParam(r, "id"), req.Quantity)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}
