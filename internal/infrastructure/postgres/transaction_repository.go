package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/custodia-api/internal/domain"
	"github.com/tu-usuario/custodia-api/internal/domain/entity"
	"github.com/tu-usuario/custodia-api/internal/domain/repository"
)

var _ repository.TransactionRepository = (*TransactionRepo)(nil)

// TransactionRepo implementación del historial de vales sobre PostgreSQL
// (usable con pool o tx). El historial es append-only: solo INSERT, más la
// escritura única de AttachDocument.
type TransactionRepo struct {
	q Querier
}

// NewTransactionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTransactionRepository(q Querier) *TransactionRepo {
	return &TransactionRepo{q: q}
}

// Create persiste un vale y sus líneas snapshot.
func (r *TransactionRepo) Create(tx *entity.Transaction) error {
	if tx.ID == "" {
		tx.ID = uuid.New().String()
	}
	ctx := context.Background()

	query := `
		INSERT INTO transactions (id, kind, receiver_name, receiver_rank, receiver_number,
			manager_signature, receiver_signature, document_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''), $9)`
	_, err := r.q.Exec(ctx, query,
		tx.ID, tx.Kind, tx.Receiver.Name, tx.Receiver.Rank, tx.Receiver.Number,
		tx.ManagerSignatureRef, tx.ReceiverSignatureRef, tx.DocumentURL, tx.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create transaction: %w", err)
	}

	lineQuery := `
		INSERT INTO transaction_items (transaction_id, position, item_name, item_number, item_type, quantity, stock_item_number)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''))`
	for i, it := range tx.Items {
		if _, err := r.q.Exec(ctx, lineQuery,
			tx.ID, i, it.ItemName, it.ItemNumber, it.ItemType, it.Quantity, it.StockItemNumber,
		); err != nil {
			return fmt.Errorf("create transaction item %d: %w", i+1, err)
		}
	}
	return nil
}

// GetByID obtiene un vale con sus líneas. Devuelve nil si no existe.
func (r *TransactionRepo) GetByID(id string) (*entity.Transaction, error) {
	query := `
		SELECT id, kind, receiver_name, receiver_rank, receiver_number,
			manager_signature, receiver_signature, COALESCE(document_url, ''), created_at
		FROM transactions WHERE id = $1`
	var t entity.Transaction
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&t.ID, &t.Kind, &t.Receiver.Name, &t.Receiver.Rank, &t.Receiver.Number,
		&t.ManagerSignatureRef, &t.ReceiverSignatureRef, &t.DocumentURL, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	items, err := r.loadItems([]string{t.ID})
	if err != nil {
		return nil, err
	}
	t.Items = items[t.ID]
	return &t, nil
}

// AttachDocument escribe la referencia al documento de un vale ya confirmado.
// No toca ningún otro campo.
func (r *TransactionRepo) AttachDocument(id, documentURL string) error {
	query := `UPDATE transactions SET document_url = $2 WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, id, documentURL)
	if err != nil {
		return fmt.Errorf("attach document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: vale %s", domain.ErrNotFound, id)
	}
	return nil
}

// ListByKind lista los vales de un tipo, los más recientes primero.
func (r *TransactionRepo) ListByKind(kind string) ([]*entity.Transaction, error) {
	query := `
		SELECT id, kind, receiver_name, receiver_rank, receiver_number,
			manager_signature, receiver_signature, COALESCE(document_url, ''), created_at
		FROM transactions WHERE kind = $1 ORDER BY created_at DESC`
	return r.list(query, kind)
}

// ListAll lista todo el historial, el más reciente primero.
func (r *TransactionRepo) ListAll() ([]*entity.Transaction, error) {
	query := `
		SELECT id, kind, receiver_name, receiver_rank, receiver_number,
			manager_signature, receiver_signature, COALESCE(document_url, ''), created_at
		FROM transactions ORDER BY created_at DESC`
	return r.list(query)
}

// ListByReceiver lista los vales de un tipo cuyo receptor coincide exactamente
// (comparación con campos recortados en SQL).
func (r *TransactionRepo) ListByReceiver(receiver entity.Receiver, kind string) ([]*entity.Transaction, error) {
	query := `
		SELECT id, kind, receiver_name, receiver_rank, receiver_number,
			manager_signature, receiver_signature, COALESCE(document_url, ''), created_at
		FROM transactions
		WHERE btrim(receiver_name) = $1 AND btrim(receiver_rank) = $2 AND btrim(receiver_number) = $3
		  AND kind = $4
		ORDER BY created_at DESC`
	return r.list(query, receiver.Name, receiver.Rank, receiver.Number, kind)
}

// SearchReceivers vales de un tipo cuyo nombre de receptor contiene la
// subcadena (ILIKE), los más recientes primero.
func (r *TransactionRepo) SearchReceivers(nameQuery, kind string, limit int) ([]*entity.Transaction, error) {
	query := `
		SELECT id, kind, receiver_name, receiver_rank, receiver_number,
			manager_signature, receiver_signature, COALESCE(document_url, ''), created_at
		FROM transactions
		WHERE receiver_name ILIKE '%' || $1 || '%' AND kind = $2
		ORDER BY created_at DESC
		LIMIT $3`
	return r.list(query, nameQuery, kind, limit)
}

func (r *TransactionRepo) list(query string, args ...any) ([]*entity.Transaction, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var list []*entity.Transaction
	var ids []string
	for rows.Next() {
		var t entity.Transaction
		if err := rows.Scan(
			&t.ID, &t.Kind, &t.Receiver.Name, &t.Receiver.Rank, &t.Receiver.Number,
			&t.ManagerSignatureRef, &t.ReceiverSignatureRef, &t.DocumentURL, &t.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		list = append(list, &t)
		ids = append(ids, t.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return list, nil
	}

	items, err := r.loadItems(ids)
	if err != nil {
		return nil, err
	}
	for _, t := range list {
		t.Items = items[t.ID]
	}
	return list, nil
}

// loadItems carga las líneas de un conjunto de vales en una sola consulta.
func (r *TransactionRepo) loadItems(ids []string) (map[string][]entity.TransactionItem, error) {
	query := `
		SELECT transaction_id, item_name, item_number, item_type, quantity, COALESCE(stock_item_number, '')
		FROM transaction_items
		WHERE transaction_id = ANY($1)
		ORDER BY transaction_id, position`
	rows, err := r.q.Query(context.Background(), query, ids)
	if err != nil {
		return nil, fmt.Errorf("load transaction items: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]entity.TransactionItem, len(ids))
	for rows.Next() {
		var txID string
		var it entity.TransactionItem
		if err := rows.Scan(&txID, &it.ItemName, &it.ItemNumber, &it.ItemType, &it.Quantity, &it.StockItemNumber); err != nil {
			return nil, fmt.Errorf("scan transaction item: %w", err)
		}
		out[txID] = append(out[txID], it)
	}
	return out, rows.Err()
}
