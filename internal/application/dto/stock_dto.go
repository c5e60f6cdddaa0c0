package dto

// StockItemResponse existencia actual de un material.
type StockItemResponse struct {
	ItemNumber string `json:"item_number"`
	ItemName   string `json:"item_name"`
	ItemType   string `json:"item_type"`
	Quantity   int    `json:"quantity"`
}

// CreateStockItemRequest alta directa de material por el administrador; pasa
// por la misma operación de libro que una devolución (sumar o crear).
type CreateStockItemRequest struct {
	ItemName   string `json:"item_name" validate:"required"`
	ItemNumber string `json:"item_number" validate:"required"`
	ItemType   string `json:"item_type" validate:"required"`
	Quantity   int    `json:"quantity" validate:"required,gt=0"`
}
