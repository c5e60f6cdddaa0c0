package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/custodia-api/internal/domain"
	"github.com/tu-usuario/custodia-api/internal/domain/entity"
	"github.com/tu-usuario/custodia-api/internal/domain/repository"
)

var _ repository.StockItemRepository = (*StockItemRepo)(nil)

// StockItemRepo implementación de StockItemRepository sobre PostgreSQL (usable con pool o tx).
type StockItemRepo struct {
	q Querier
}

// NewStockItemRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockItemRepository(q Querier) *StockItemRepo {
	return &StockItemRepo{q: q}
}

// GetByNumber obtiene un material por su número único. Devuelve nil si no existe.
func (r *StockItemRepo) GetByNumber(itemNumber string) (*entity.StockItem, error) {
	query := `
		SELECT item_number, item_name, item_type, quantity
		FROM stock_items WHERE item_number = $1`
	return r.scanOne(query, itemNumber)
}

// GetByNumberForUpdate obtiene el material y bloquea la fila (SELECT FOR UPDATE).
func (r *StockItemRepo) GetByNumberForUpdate(itemNumber string) (*entity.StockItem, error) {
	query := `
		SELECT item_number, item_name, item_type, quantity
		FROM stock_items WHERE item_number = $1
		FOR UPDATE`
	return r.scanOne(query, itemNumber)
}

func (r *StockItemRepo) scanOne(query, itemNumber string) (*entity.StockItem, error) {
	var it entity.StockItem
	err := r.q.QueryRow(context.Background(), query, itemNumber).Scan(
		&it.ItemNumber, &it.ItemName, &it.ItemType, &it.Quantity,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock item: %w", err)
	}
	return &it, nil
}

// Create inserta un material nuevo.
func (r *StockItemRepo) Create(item *entity.StockItem) error {
	query := `
		INSERT INTO stock_items (item_number, item_name, item_type, quantity)
		VALUES ($1, $2, $3, $4)`
	_, err := r.q.Exec(context.Background(), query,
		item.ItemNumber, item.ItemName, item.ItemType, item.Quantity,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: material %s", domain.ErrDuplicate, item.ItemNumber)
		}
		return fmt.Errorf("create stock item: %w", err)
	}
	return nil
}

// UpdateQuantity persiste la nueva cantidad de un material.
func (r *StockItemRepo) UpdateQuantity(itemNumber string, quantity int) error {
	query := `UPDATE stock_items SET quantity = $2 WHERE item_number = $1`
	tag, err := r.q.Exec(context.Background(), query, itemNumber, quantity)
	if err != nil {
		return fmt.Errorf("update stock quantity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: material %s", domain.ErrNotFound, itemNumber)
	}
	return nil
}

// Delete elimina la fila de un material (se usa cuando la cantidad llega a 0).
func (r *StockItemRepo) Delete(itemNumber string) error {
	query := `DELETE FROM stock_items WHERE item_number = $1`
	_, err := r.q.Exec(context.Background(), query, itemNumber)
	if err != nil {
		return fmt.Errorf("delete stock item: %w", err)
	}
	return nil
}

// List devuelve todas las existencias, ordenadas por nombre.
func (r *StockItemRepo) List() ([]*entity.StockItem, error) {
	query := `
		SELECT item_number, item_name, item_type, quantity
		FROM stock_items ORDER BY item_name`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list stock items: %w", err)
	}
	defer rows.Close()
	return scanItems(rows)
}

// Search busca por subcadena (ILIKE) en nombre, tipo o número.
func (r *StockItemRepo) Search(query string, limit int) ([]*entity.StockItem, error) {
	sql := `
		SELECT item_number, item_name, item_type, quantity
		FROM stock_items
		WHERE item_name ILIKE '%' || $1 || '%'
		   OR item_type ILIKE '%' || $1 || '%'
		   OR item_number ILIKE '%' || $1 || '%'
		ORDER BY item_name
		LIMIT $2`
	rows, err := r.q.Query(context.Background(), sql, query, limit)
	if err != nil {
		return nil, fmt.Errorf("search stock items: %w", err)
	}
	defer rows.Close()
	return scanItems(rows)
}

func scanItems(rows pgx.Rows) ([]*entity.StockItem, error) {
	var list []*entity.StockItem
	for rows.Next() {
		var it entity.StockItem
		if err := rows.Scan(&it.ItemNumber, &it.ItemName, &it.ItemType, &it.Quantity); err != nil {
			return nil, fmt.Errorf("scan stock item: %w", err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}
