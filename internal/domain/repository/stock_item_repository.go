package repository

import "github.com/tu-usuario/custodia-api/internal/domain/entity"

// StockItemRepository define el puerto de persistencia del libro de stock.
// Las mutaciones se usan dentro de transacciones para garantizar consistencia.
type StockItemRepository interface {
	GetByNumber(itemNumber string) (*entity.StockItem, error)
	// GetByNumberForUpdate bloquea la fila para update (SELECT FOR UPDATE).
	GetByNumberForUpdate(itemNumber string) (*entity.StockItem, error)
	Create(item *entity.StockItem) error
	UpdateQuantity(itemNumber string, quantity int) error
	Delete(itemNumber string) error
	List() ([]*entity.StockItem, error)
	// Search busca por subcadena (insensible a mayúsculas) en nombre, tipo o número.
	Search(query string, limit int) ([]*entity.StockItem, error)
}
