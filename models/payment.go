package models

import "time"

// Payment statuses.
const (
	PaymentPendente  = "pendente"
	PaymentPago      = "pago"
	PaymentCancelado = "cancelado"
)

// PaymentClient identifies the paying client inside a payment record.
// Field names match the pt-BR keys used by the stored records.
type PaymentClient struct {
	Nome     string `json:"nome"`
	Telefone string `json:"telefone,omitempty"`
}

// Payment is a charge created from an accepted booking or quote, stored
// under "pagamento:{id}".
type Payment struct {
	ID      string        `json:"id"`
	Cliente PaymentClient `json:"cliente"`

	// Valor is the charged amount.
	Valor float64 `json:"valor"`

	// MetodoPagamento is the payment method, e.g. "pix", "cartao", "dinheiro".
	MetodoPagamento string `json:"metodoPagamento,omitempty"`

	Status string `json:"status"`

	// DataPagamento is set when the payment is marked paid.
	DataPagamento time.Time `json:"dataPagamento,omitzero"`

	// AgendamentoID links back to the originating appointment, when any.
	AgendamentoID string `json:"agendamentoId,omitempty"`

	CreatedAt time.Time `json:"createdAt,omitzero"`
}
