package stock

import (
	"context"
	"fmt"
	"strings"

	"github.com/tu-usuario/custodia-api/internal/application/dto"
	"github.com/tu-usuario/custodia-api/internal/application/ledger"
	"github.com/tu-usuario/custodia-api/internal/application/vouchers"
	"github.com/tu-usuario/custodia-api/internal/domain"
	"github.com/tu-usuario/custodia-api/internal/domain/entity"
	"github.com/tu-usuario/custodia-api/internal/domain/repository"
)

// UseCase casos de uso del almacén: consultas de stock y alta directa de
// material por el administrador.
type UseCase struct {
	stockRepo repository.StockItemRepository // atado al pool, solo lecturas
	txRunner  vouchers.TxRunner
}

// NewUseCase construye el caso de uso.
func NewUseCase(stockRepo repository.StockItemRepository, txRunner vouchers.TxRunner) *UseCase {
	return &UseCase{stockRepo: stockRepo, txRunner: txRunner}
}

// List devuelve todas las existencias actuales.
func (uc *UseCase) List() ([]dto.StockItemResponse, error) {
	items, err := uc.stockRepo.List()
	if err != nil {
		return nil, err
	}
	return toResponses(items), nil
}

// Search autocompletado: subcadena insensible a mayúsculas en nombre, tipo o
// número, hasta limit resultados.
func (uc *UseCase) Search(query string, limit int) ([]dto.StockItemResponse, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return []dto.StockItemResponse{}, nil
	}
	items, err := uc.stockRepo.Search(q, limit)
	if err != nil {
		return nil, err
	}
	return toResponses(items), nil
}

// Create alta directa de material. Pasa por la misma operación de libro que una
// devolución (sumar o crear) dentro de una transacción, así el alta de un
// número ya existente acumula en vez de duplicar.
func (uc *UseCase) Create(ctx context.Context, in dto.CreateStockItemRequest) (*dto.StockItemResponse, error) {
	if strings.TrimSpace(in.ItemName) == "" || strings.TrimSpace(in.ItemNumber) == "" {
		return nil, fmt.Errorf("%w: nombre y número de material son obligatorios", domain.ErrInvalidInput)
	}
	if in.Quantity <= 0 {
		return nil, fmt.Errorf("%w: la cantidad debe ser mayor que cero", domain.ErrInvalidInput)
	}

	var created *entity.StockItem
	err := uc.txRunner.Run(ctx, func(
		stockRepo repository.StockItemRepository,
		_ repository.TransactionRepository,
	) error {
		item, err := ledger.IncreaseOrCreate(stockRepo, strings.TrimSpace(in.ItemNumber), strings.TrimSpace(in.ItemName), strings.TrimSpace(in.ItemType), in.Quantity)
		if err != nil {
			return err
		}
		created = item
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := toResponse(created)
	return &resp, nil
}

func toResponse(it *entity.StockItem) dto.StockItemResponse {
	return dto.StockItemResponse{
		ItemNumber: it.ItemNumber,
		ItemName:   it.ItemName,
		ItemType:   it.ItemType,
		Quantity:   it.Quantity,
	}
}

func toResponses(items []*entity.StockItem) []dto.StockItemResponse {
	out := make([]dto.StockItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, toResponse(it))
	}
	return out
}
