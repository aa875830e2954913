package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"barbearia-backend/internal/entry"
	"barbearia-backend/internal/identity"
	"barbearia-backend/internal/repository"
	"github.com/go-playground/validator/v10"
)

type apiError struct {
	Code   int    `json:"code"`
	Status string `json:"status"`
}

type apiResponse struct {
	Status  string    `json:"status"`
	Message string    `json:"message"`
	Data    any       `json:"data"`
	Error   *apiError `json:"error,omitempty"`
}

const (
	msgInvalidPayload = "Pedido inválido."
	msgNotFound       = "Registo não encontrado."
	msgStoreDown      = "Não foi possível contactar a base de dados. Tente novamente."
	msgUnexpected     = "Ocorreu um erro inesperado. Tente novamente."
)

var validate = validator.New()

func writeRawJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	writeRawJSON(w, status, apiResponse{
		Status:  "ok",
		Message: "",
		Data:    payload,
	})
}

func writeError(w http.ResponseWriter, status int, message string) {
	if status < 400 {
		status = http.StatusInternalServerError
	}
	writeRawJSON(w, status, apiResponse{
		Status:  "error",
		Message: message,
		Data:    nil,
		Error: &apiError{
			Code:   status,
			Status: http.StatusText(status),
		},
	})
}

// writeFailure maps a service error to a status and a user-facing message.
// Validation and identity messages are passed through; store causes stay in the log.
func writeFailure(w http.ResponseWriter, err error) {
	var (
		verr *entry.ValidationError
		ierr *identity.Error
	)
	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusUnprocessableEntity, verr.Message)
	case errors.As(err, &ierr):
		writeError(w, http.StatusUnauthorized, ierr.Message)
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, msgNotFound)
	case errors.Is(err, repository.ErrInsufficientStock):
		writeError(w, http.StatusUnprocessableEntity, entry.MsgInsufficientStock)
	case errors.Is(err, repository.ErrNegativeStock):
		writeError(w, http.StatusUnprocessableEntity, "O stock não pode ser negativo.")
	case repository.IsStoreError(err):
		writeError(w, http.StatusBadGateway, msgStoreDown)
	case errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusGatewayTimeout, msgStoreDown)
	default:
		writeError(w, http.StatusInternalServerError, msgUnexpected)
	}
}

// decodeJSON reads the body into dst and runs its validate tags.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidPayload)
		return false
	}
	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			writeError(w, http.StatusUnprocessableEntity, fieldMessage(verrs[0]))
			return false
		}
		writeError(w, http.StatusBadRequest, msgInvalidPayload)
		return false
	}
	return true
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "O campo " + fe.Field() + " é obrigatório."
	case "email":
		return "Email inválido."
	case "gte", "gt", "min":
		return "O campo " + fe.Field() + " tem um valor inválido."
	}
	return "O campo " + fe.Field() + " é inválido."
}
