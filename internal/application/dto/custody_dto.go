package dto

import "time"

// CustodyLineDTO material en custodia de una persona (restante > 0).
type CustodyLineDTO struct {
	ItemName   string    `json:"item_name"`
	ItemType   string    `json:"item_type"`
	ItemNumber string    `json:"item_number"`
	Quantity   int       `json:"quantity"`
	Date       time.Time `json:"date"`
}

// VoucherRefDTO referencia a un vale de una persona en el listado de custodia.
type VoucherRefDTO struct {
	ID          string    `json:"id"`
	Date        time.Time `json:"date"`
	DocumentURL string    `json:"document_url,omitempty"`
}

// PersonCustodyDTO registro por persona del listado: líneas crudas de entrega y
// devolución más la custodia conciliada.
type PersonCustodyDTO struct {
	Name              string           `json:"name"`
	Rank              string           `json:"rank"`
	Number            string           `json:"number"`
	ReceivedItems     []CustodyLineDTO `json:"received_items"`
	DeliveredItems    []CustodyLineDTO `json:"delivered_items"`
	ItemsInCustody    []CustodyLineDTO `json:"items_in_custody"`
	ReceiptVouchers   []VoucherRefDTO  `json:"receipt_vouchers"`
	DeliveryVouchers  []VoucherRefDTO  `json:"delivery_vouchers"`
	HasItemsInCustody bool             `json:"has_items_in_custody"`
}

// PeopleCustodyResponse página del listado de personas con custodia.
type PeopleCustodyResponse struct {
	Data       []PersonCustodyDTO `json:"data"`
	Total      int                `json:"total"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"total_pages"`
}

// ReceiverSummaryDTO resultado del autocompletado de receptores.
type ReceiverSummaryDTO struct {
	Receiver      ReceiverDTO `json:"receiver"`
	TransactionID string      `json:"transaction_id"`
	Kind          string      `json:"kind"`
	Date          time.Time   `json:"date"`
}
