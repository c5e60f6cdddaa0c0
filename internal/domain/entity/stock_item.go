package entity

// StockItem representa la existencia actual de un material en el almacén.
// ItemNumber es la clave única; la fila se elimina cuando Quantity llega a 0
// (los materiales agotados se podan, no se conservan en cero).
type StockItem struct {
	ItemNumber string
	ItemName   string
	ItemType   string
	Quantity   int
}
