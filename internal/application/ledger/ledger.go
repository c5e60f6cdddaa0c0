// Package ledger implementa las dos operaciones del libro de stock: sumar o
// crear (devoluciones) y restar con poda en cero (entregas). Ambas operan
// sobre un StockItemRepository atado a la transacción del caller, de modo que
// la mutación del stock y el vale correspondiente se confirman o revierten
// juntos. La fila se bloquea con SELECT FOR UPDATE antes de leer-modificar-
// escribir, así dos decrementos concurrentes del mismo material se serializan
// y la cantidad nunca queda negativa.
package ledger

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/tu-usuario/custodia-api/internal/domain"
	"github.com/tu-usuario/custodia-api/internal/domain/entity"
	"github.com/tu-usuario/custodia-api/internal/domain/repository"
)

// IncreaseOrCreate suma amount al material itemNumber, o crea la fila con esa
// cantidad si el número no existe todavía. Devuelve el material resultante.
func IncreaseOrCreate(repo repository.StockItemRepository, itemNumber, itemName, itemType string, amount int) (*entity.StockItem, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: la cantidad debe ser mayor que cero", domain.ErrInvalidInput)
	}
	item, err := repo.GetByNumberForUpdate(itemNumber)
	if err != nil {
		return nil, err
	}
	if item != nil {
		item.Quantity += amount
		if err := repo.UpdateQuantity(item.ItemNumber, item.Quantity); err != nil {
			return nil, err
		}
		return item, nil
	}

	item = &entity.StockItem{
		ItemNumber: itemNumber,
		ItemName:   itemName,
		ItemType:   itemType,
		Quantity:   amount,
	}
	if err := repo.Create(item); err != nil {
		return nil, err
	}
	// Una devolución puede dar de alta stock que nunca entró por provisión
	// externa; se registra para que el dueño del almacén pueda auditarlo.
	log.Warn().Str("item_number", itemNumber).Str("item_name", itemName).
		Int("quantity", amount).Msg("material creado por devolución sin existencia previa")
	return item, nil
}

// Decrease resta amount del material itemNumber. Si la cantidad resultante es
// exactamente 0 la fila se elimina (los materiales agotados se podan). Devuelve
// el material tal como estaba bloqueado, ya con la cantidad reducida.
func Decrease(repo repository.StockItemRepository, itemNumber string, amount int) (*entity.StockItem, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: la cantidad debe ser mayor que cero", domain.ErrInvalidInput)
	}
	item, err := repo.GetByNumberForUpdate(itemNumber)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("%w: material %s", domain.ErrNotFound, itemNumber)
	}
	if item.Quantity < amount {
		return nil, fmt.Errorf("%w: material %s: solicitado %d, disponible %d",
			domain.ErrInsufficientStock, itemNumber, amount, item.Quantity)
	}

	item.Quantity -= amount
	if item.Quantity == 0 {
		if err := repo.Delete(item.ItemNumber); err != nil {
			return nil, err
		}
		return item, nil
	}
	if err := repo.UpdateQuantity(item.ItemNumber, item.Quantity); err != nil {
		return nil, err
	}
	return item, nil
}
