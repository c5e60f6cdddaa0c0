package entity

import "time"

// Tipos de vale de custodia.
const (
	TransactionKindReceipt  = "RECEIPT"  // entrega de material a una persona (el stock baja)
	TransactionKindDelivery = "DELIVERY" // devolución de material al almacén (el stock sube)
)

// Receiver identifica a la persona que recibe o devuelve material.
type Receiver struct {
	Name   string
	Rank   string
	Number string
}

// TransactionItem es la línea de un vale: snapshot de identidad y cantidad del
// material en el momento de la transacción. StockItemNumber es una referencia
// informativa a stock_items; el snapshot es lo autoritativo para la conciliación.
type TransactionItem struct {
	ItemName        string
	ItemNumber      string
	ItemType        string
	Quantity        int
	StockItemNumber string
}

// Transaction es un vale de entrega o devolución. Inmutable una vez
// confirmado, salvo la escritura única posterior de DocumentURL.
type Transaction struct {
	ID                   string
	Kind                 string // RECEIPT o DELIVERY
	Receiver             Receiver
	ManagerSignatureRef  string
	ReceiverSignatureRef string
	Items                []TransactionItem
	DocumentURL          string
	CreatedAt            time.Time
}
