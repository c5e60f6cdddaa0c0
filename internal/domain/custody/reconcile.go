// Package custody implementa el motor de conciliación de custodia: a partir del
// historial completo de vales (RECEIPT/DELIVERY) calcula qué materiales retiene
// actualmente cada persona. Es una agregación pura sobre un log inmutable; se
// recalcula en cada consulta y no mantiene estado.
package custody

import (
	"strings"
	"time"

	"github.com/tu-usuario/custodia-api/internal/domain/entity"
)

// ItemKey construye la clave de agrupación de un material para la conciliación:
// nombre y número recortados de espacios, unidos por "_". Dos líneas pertenecen
// al mismo material si y solo si nombre y número coinciden exactamente; una
// diferencia de mayúsculas u ortografía produce cubetas distintas (limitación
// documentada del sistema de origen).
func ItemKey(name, number string) string {
	return strings.TrimSpace(name) + "_" + strings.TrimSpace(number)
}

// PersonKey construye la clave de identidad de una persona (nombre, rango y
// número recortados).
func PersonKey(r entity.Receiver) string {
	return strings.TrimSpace(r.Name) + "_" + strings.TrimSpace(r.Rank) + "_" + strings.TrimSpace(r.Number)
}

// Line es una línea de custodia o un snapshot crudo de material.
type Line struct {
	ItemName   string
	ItemType   string
	ItemNumber string
	Quantity   int
	Date       time.Time
}

// Reconcile calcula los materiales en custodia: suma las cantidades de RECEIPT
// por clave de material, resta las de DELIVERY y emite solo las claves con
// restante estrictamente positivo. Las claves aparecen en el orden en que se
// vieron por primera vez en los vales de entrega; cada clave aparece a lo sumo
// una vez.
func Reconcile(receipts, deliveries []*entity.Transaction) []Line {
	received := make(map[string]*Line)
	var order []string

	for _, t := range receipts {
		for _, it := range t.Items {
			key := ItemKey(it.ItemName, it.ItemNumber)
			cur, ok := received[key]
			if !ok {
				cur = &Line{
					ItemName:   it.ItemName,
					ItemType:   it.ItemType,
					ItemNumber: it.ItemNumber,
					Date:       t.CreatedAt,
				}
				received[key] = cur
				order = append(order, key)
			}
			cur.Quantity += it.Quantity
		}
	}

	delivered := make(map[string]int)
	for _, t := range deliveries {
		for _, it := range t.Items {
			delivered[ItemKey(it.ItemName, it.ItemNumber)] += it.Quantity
		}
	}

	var lines []Line
	for _, key := range order {
		item := received[key]
		remaining := item.Quantity - delivered[key]
		if remaining > 0 {
			lines = append(lines, Line{
				ItemName:   item.ItemName,
				ItemType:   item.ItemType,
				ItemNumber: item.ItemNumber,
				Quantity:   remaining,
				Date:       item.Date,
			})
		}
	}
	return lines
}

// VoucherRef referencia un vale ya confirmado de una persona.
type VoucherRef struct {
	ID          string
	Date        time.Time
	DocumentURL string
}

// PersonRecord agrega el historial de una persona: sus líneas crudas de entrega
// y devolución, los vales de cada tipo y la custodia conciliada.
type PersonRecord struct {
	Name              string
	Rank              string
	Number            string
	ReceivedItems     []Line
	DeliveredItems    []Line
	ReceiptVouchers   []VoucherRef
	DeliveryVouchers  []VoucherRef
	ItemsInCustody    []Line
	HasItemsInCustody bool
}

// GroupByPerson agrupa todos los vales por identidad de persona (recortada) y
// concilia la custodia de cada una. Las personas aparecen en el orden en que se
// vieron por primera vez en el historial.
func GroupByPerson(transactions []*entity.Transaction) []*PersonRecord {
	records := make(map[string]*PersonRecord)
	receipts := make(map[string][]*entity.Transaction)
	deliveries := make(map[string][]*entity.Transaction)
	var order []string

	for _, t := range transactions {
		key := PersonKey(t.Receiver)
		rec, ok := records[key]
		if !ok {
			rec = &PersonRecord{
				Name:   strings.TrimSpace(t.Receiver.Name),
				Rank:   strings.TrimSpace(t.Receiver.Rank),
				Number: strings.TrimSpace(t.Receiver.Number),
			}
			records[key] = rec
			order = append(order, key)
		}

		ref := VoucherRef{ID: t.ID, Date: t.CreatedAt, DocumentURL: t.DocumentURL}
		switch t.Kind {
		case entity.TransactionKindReceipt:
			for _, it := range t.Items {
				rec.ReceivedItems = append(rec.ReceivedItems, snapshotLine(it, t.CreatedAt))
			}
			rec.ReceiptVouchers = append(rec.ReceiptVouchers, ref)
			receipts[key] = append(receipts[key], t)
		case entity.TransactionKindDelivery:
			for _, it := range t.Items {
				rec.DeliveredItems = append(rec.DeliveredItems, snapshotLine(it, t.CreatedAt))
			}
			rec.DeliveryVouchers = append(rec.DeliveryVouchers, ref)
			deliveries[key] = append(deliveries[key], t)
		}
	}

	result := make([]*PersonRecord, 0, len(order))
	for _, key := range order {
		rec := records[key]
		rec.ItemsInCustody = Reconcile(receipts[key], deliveries[key])
		rec.HasItemsInCustody = len(rec.ItemsInCustody) > 0
		result = append(result, rec)
	}
	return result
}

func snapshotLine(it entity.TransactionItem, date time.Time) Line {
	return Line{
		ItemName:   it.ItemName,
		ItemType:   it.ItemType,
		ItemNumber: it.ItemNumber,
		Quantity:   it.Quantity,
		Date:       date,
	}
}
