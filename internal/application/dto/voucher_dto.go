package dto

import "time"

// ReceiverDTO identidad de la persona que recibe o devuelve material.
type ReceiverDTO struct {
	Name   string `json:"name" validate:"required"`
	Rank   string `json:"rank" validate:"required"`
	Number string `json:"number" validate:"required"`
}

// ReceiptLineRequest línea de un vale de entrega: referencia al material en
// stock por su número único y la cantidad a entregar.
type ReceiptLineRequest struct {
	StockItemNumber string `json:"item" validate:"required"`
	Quantity        int    `json:"quantity" validate:"required,gt=0"`
}

// RecordReceiptRequest body para POST /api/receipts.
type RecordReceiptRequest struct {
	Receiver          ReceiverDTO          `json:"receiver"`
	Items             []ReceiptLineRequest `json:"items"`
	ReceiverSignature string               `json:"receiver_signature" validate:"required"`
	ManagerSignature  string               `json:"manager_signature,omitempty"`
}

// DeliveryLineRequest línea de un vale de devolución: el material se identifica
// por los datos introducidos a mano (puede no existir aún en stock).
type DeliveryLineRequest struct {
	MaterialName   string `json:"material_name" validate:"required"`
	MaterialNumber string `json:"material_number"`
	Type           string `json:"type"`
	Quantity       int    `json:"quantity" validate:"required,gt=0"`
}

// RecordDeliveryRequest body para POST /api/deliveries.
type RecordDeliveryRequest struct {
	Receiver          ReceiverDTO           `json:"receiver"`
	Items             []DeliveryLineRequest `json:"items"`
	ReceiverSignature string                `json:"receiver_signature" validate:"required"`
	ManagerSignature  string                `json:"manager_signature,omitempty"`
}

// RecordVoucherResponse resultado de registrar un vale. DocumentError se llena
// cuando el vale quedó confirmado pero el render/subida del documento falló
// (éxito parcial: la transacción es durable, solo falta el artefacto).
type RecordVoucherResponse struct {
	TransactionID string `json:"transaction_id"`
	DocumentURL   string `json:"document_url,omitempty"`
	DocumentError string `json:"document_error,omitempty"`
}

// TransactionItemDTO snapshot de línea en un vale ya confirmado.
type TransactionItemDTO struct {
	ItemName   string `json:"item_name"`
	ItemNumber string `json:"item_number"`
	ItemType   string `json:"item_type"`
	Quantity   int    `json:"quantity"`
}

// TransactionResponse vale confirmado.
type TransactionResponse struct {
	ID          string               `json:"id"`
	Kind        string               `json:"kind"`
	Receiver    ReceiverDTO          `json:"receiver"`
	Items       []TransactionItemDTO `json:"items"`
	DocumentURL string               `json:"document_url,omitempty"`
	CreatedAt   time.Time            `json:"created_at"`
}
