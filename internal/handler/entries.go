package handler

import (
	"net/http"

	"barbearia-backend/internal/domain"
	"barbearia-backend/internal/observability"
	"barbearia-backend/internal/server/authctx"
	"barbearia-backend/internal/service"
	"github.com/go-chi/chi/v5"
)

// EntryHandler records services and sales for the signed-in barber.
type EntryHandler struct {
	Service service.EntryService
	Barbers service.BarberDashboardService
	Metrics *observability.Metrics
}

func (h EntryHandler) RegisterRoutes(r chi.Router) {
	r.Get("/entries/options", h.options)
	r.Post("/entries/services", h.recordService)
	r.Post("/entries/sales", h.recordSale)
}

func (h EntryHandler) options(w http.ResponseWriter, r *http.Request) {
	opts, err := h.Service.Options(r.Context())
	if err != nil {
		writeFailure(w, err)
		return
	}
	errs := map[string]string{}
	if opts.ServicesErr != nil {
		errs[domain.CollectionServices] = msgStoreDown
	}
	if opts.ProductsErr != nil {
		errs[domain.CollectionProducts] = msgStoreDown
	}
	resp := map[string]any{
		"services":      opts.Services,
		"extraServices": opts.ExtraServices,
		"products":      opts.Products,
	}
	if len(errs) > 0 {
		resp["errors"] = errs
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h EntryHandler) currentBarber(w http.ResponseWriter, r *http.Request) (domain.Barber, bool) {
	user := authctx.FromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return domain.Barber{}, false
	}
	b, err := h.Barbers.ResolveBarber(r.Context(), user.Email)
	if err != nil {
		writeFailure(w, err)
		return domain.Barber{}, false
	}
	if b == nil {
		writeError(w, http.StatusForbidden, "Nenhum barbeiro associado a este email.")
		return domain.Barber{}, false
	}
	return *b, true
}

func (h EntryHandler) recordService(w http.ResponseWriter, r *http.Request) {
	var req service.ServiceEntryInput
	if !decodeJSON(w, r, &req) {
		return
	}
	barber, ok := h.currentBarber(w, r)
	if !ok {
		return
	}
	rec, err := h.Service.RecordService(r.Context(), barber, req)
	h.Metrics.RecordEntry("service", err)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeRawJSON(w, http.StatusCreated, apiResponse{Status: "ok", Message: "Serviço registado com sucesso!", Data: rec})
}

func (h EntryHandler) recordSale(w http.ResponseWriter, r *http.Request) {
	var req service.SaleEntryInput
	if !decodeJSON(w, r, &req) {
		return
	}
	barber, ok := h.currentBarber(w, r)
	if !ok {
		return
	}
	rec, err := h.Service.RecordSale(r.Context(), barber, req)
	h.Metrics.RecordEntry("sale", err)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeRawJSON(w, http.StatusCreated, apiResponse{Status: "ok", Message: "Venda registada com sucesso!", Data: rec})
}
