package entry

import "fmt"

// ValidationError is a user-facing rejection of form input. Message is shown as is.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

const (
	msgServiceRequired   = "Por favor preencha todos os campos obrigatórios."
	msgProductRequired   = "Por favor selecione um produto e quantidade."
	msgServiceNotFound   = "Serviço não encontrado."
	msgExtraNotFound     = "Serviço extra não encontrado."
	msgProductNotFound   = "Produto não encontrado."
	msgBarberRequired    = "Barbeiro não identificado."
	MsgInsufficientStock = "Stock insuficiente para esta venda."
)
