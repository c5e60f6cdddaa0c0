package custody_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/custodia-api/internal/domain/custody"
	"github.com/tu-usuario/custodia-api/internal/domain/entity"
)

var baseDate = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func voucher(kind string, r entity.Receiver, items ...entity.TransactionItem) *entity.Transaction {
	return &entity.Transaction{
		ID:        "tx-" + kind,
		Kind:      kind,
		Receiver:  r,
		Items:     items,
		CreatedAt: baseDate,
	}
}

func item(name, number string, qty int) entity.TransactionItem {
	return entity.TransactionItem{ItemName: name, ItemNumber: number, ItemType: "Comm", Quantity: qty}
}

// Caso: la persona recibió 4 radios y no devolvió nada → custodia de 4.
func TestReconcile_EntregaSinDevolucion(t *testing.T) {
	p := entity.Receiver{Name: "Ahmed", Rank: "Sargento", Number: "12345"}
	lines := custody.Reconcile(
		[]*entity.Transaction{voucher(entity.TransactionKindReceipt, p, item("Radio", "M1", 4))},
		nil,
	)

	require.Len(t, lines, 1)
	assert.Equal(t, "Radio", lines[0].ItemName)
	assert.Equal(t, "M1", lines[0].ItemNumber)
	assert.Equal(t, 4, lines[0].Quantity)
}

// Caso: recibido 5 y devuelto 5 del mismo material → restante 0, la línea se
// descarta (no se emite en cero).
func TestReconcile_RestanteCeroSeDescarta(t *testing.T) {
	p := entity.Receiver{Name: "Ahmed", Rank: "Sargento", Number: "12345"}
	lines := custody.Reconcile(
		[]*entity.Transaction{voucher(entity.TransactionKindReceipt, p, item("Radio", "M1", 5))},
		[]*entity.Transaction{voucher(entity.TransactionKindDelivery, p, item("Radio", "M1", 5))},
	)
	assert.Empty(t, lines)
}

// Caso: devolvió más de lo recibido (restante negativo) → tampoco se emite.
func TestReconcile_RestanteNegativoSeDescarta(t *testing.T) {
	p := entity.Receiver{Name: "Ahmed", Rank: "Sargento", Number: "12345"}
	lines := custody.Reconcile(
		[]*entity.Transaction{voucher(entity.TransactionKindReceipt, p, item("Radio", "M1", 2))},
		[]*entity.Transaction{voucher(entity.TransactionKindDelivery, p, item("Radio", "M1", 3))},
	)
	assert.Empty(t, lines)
}

// Caso: el mismo material físico registrado con el número en distinta
// capitalización produce dos cubetas distintas. Limitación documentada del
// sistema de origen, no un defecto.
func TestReconcile_ClaveSensibleAMayusculas(t *testing.T) {
	p := entity.Receiver{Name: "Ahmed", Rank: "Sargento", Number: "12345"}
	lines := custody.Reconcile(
		[]*entity.Transaction{
			voucher(entity.TransactionKindReceipt, p, item("Radio", "M1", 3), item("Radio", "m1", 2)),
		},
		nil,
	)

	require.Len(t, lines, 2)
	assert.Equal(t, 3, lines[0].Quantity)
	assert.Equal(t, "M1", lines[0].ItemNumber)
	assert.Equal(t, 2, lines[1].Quantity)
	assert.Equal(t, "m1", lines[1].ItemNumber)
}

// Caso: los espacios alrededor de nombre/número sí se normalizan (recorte).
func TestReconcile_ClaveRecortaEspacios(t *testing.T) {
	p := entity.Receiver{Name: "Ahmed", Rank: "Sargento", Number: "12345"}
	lines := custody.Reconcile(
		[]*entity.Transaction{voucher(entity.TransactionKindReceipt, p, item(" Radio ", "M1 ", 5))},
		[]*entity.Transaction{voucher(entity.TransactionKindDelivery, p, item("Radio", "M1", 2))},
	)

	require.Len(t, lines, 1)
	assert.Equal(t, 3, lines[0].Quantity)
}

// Caso: varias entregas y devoluciones del mismo material se acumulan por clave
// y la clave aparece a lo sumo una vez en la salida.
func TestReconcile_AcumulaPorClave(t *testing.T) {
	p := entity.Receiver{Name: "Ahmed", Rank: "Sargento", Number: "12345"}
	lines := custody.Reconcile(
		[]*entity.Transaction{
			voucher(entity.TransactionKindReceipt, p, item("Radio", "M1", 4)),
			voucher(entity.TransactionKindReceipt, p, item("Radio", "M1", 6), item("Casco", "H7", 1)),
		},
		[]*entity.Transaction{
			voucher(entity.TransactionKindDelivery, p, item("Radio", "M1", 3)),
		},
	)

	require.Len(t, lines, 2)
	assert.Equal(t, 7, lines[0].Quantity, "10 recibidos menos 3 devueltos")
	assert.Equal(t, "Casco", lines[1].ItemName)
	assert.Equal(t, 1, lines[1].Quantity)
}

// Idempotencia: conciliar dos veces sin transacciones intermedias produce
// exactamente la misma salida.
func TestReconcile_Idempotente(t *testing.T) {
	p := entity.Receiver{Name: "Ahmed", Rank: "Sargento", Number: "12345"}
	receipts := []*entity.Transaction{
		voucher(entity.TransactionKindReceipt, p, item("Radio", "M1", 10), item("Casco", "H7", 2)),
	}
	deliveries := []*entity.Transaction{
		voucher(entity.TransactionKindDelivery, p, item("Radio", "M1", 4)),
	}

	first := custody.Reconcile(receipts, deliveries)
	second := custody.Reconcile(receipts, deliveries)
	assert.Equal(t, first, second)
}

// GroupByPerson: agrupa por identidad recortada, conserva líneas crudas y
// concilia custodia por persona.
func TestGroupByPerson(t *testing.T) {
	ahmed := entity.Receiver{Name: "Ahmed", Rank: "Sargento", Number: "12345"}
	ahmedConEspacios := entity.Receiver{Name: " Ahmed ", Rank: "Sargento", Number: " 12345"}
	samir := entity.Receiver{Name: "Samir", Rank: "Cabo", Number: "99887"}

	records := custody.GroupByPerson([]*entity.Transaction{
		voucher(entity.TransactionKindReceipt, ahmed, item("Radio", "M1", 5)),
		voucher(entity.TransactionKindReceipt, samir, item("Casco", "H7", 2)),
		voucher(entity.TransactionKindDelivery, ahmedConEspacios, item("Radio", "M1", 5)),
	})

	require.Len(t, records, 2, "la identidad recortada debe unificar a Ahmed")

	assert.Equal(t, "Ahmed", records[0].Name)
	assert.Len(t, records[0].ReceivedItems, 1)
	assert.Len(t, records[0].DeliveredItems, 1)
	assert.Len(t, records[0].ReceiptVouchers, 1)
	assert.Len(t, records[0].DeliveryVouchers, 1)
	assert.Empty(t, records[0].ItemsInCustody, "recibió 5 y devolvió 5")
	assert.False(t, records[0].HasItemsInCustody)

	assert.Equal(t, "Samir", records[1].Name)
	require.Len(t, records[1].ItemsInCustody, 1)
	assert.Equal(t, 2, records[1].ItemsInCustody[0].Quantity)
	assert.True(t, records[1].HasItemsInCustody)
}
