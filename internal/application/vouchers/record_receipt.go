package vouchers

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/custodia-api/internal/application/dto"
	"github.com/tu-usuario/custodia-api/internal/application/ledger"
	"github.com/tu-usuario/custodia-api/internal/domain"
	"github.com/tu-usuario/custodia-api/internal/domain/entity"
	"github.com/tu-usuario/custodia-api/internal/domain/repository"
)

// RecordReceipt registra un vale de entrega: por cada línea resuelve el
// material en stock por su número, resta la cantidad (poda en cero) y guarda el
// snapshot; todo dentro de una sola transacción junto con el vale. Si cualquier
// línea falla, ninguna mutación de líneas anteriores sobrevive. Tras el commit
// se renderiza y sube el documento como paso aparte (éxito parcial si falla).
func (uc *RecordVoucherUseCase) RecordReceipt(ctx context.Context, in dto.RecordReceiptRequest) (*dto.RecordVoucherResponse, error) {
	receiver, err := validateReceiver(in.Receiver)
	if err != nil {
		return nil, err
	}
	if in.ReceiverSignature == "" {
		return nil, fmt.Errorf("%w: falta la firma del receptor", domain.ErrInvalidInput)
	}
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: debe incluir al menos una línea de material", domain.ErrInvalidInput)
	}
	for i, line := range in.Items {
		if line.StockItemNumber == "" || line.Quantity <= 0 {
			return nil, fmt.Errorf("%w: datos incorrectos en la línea %d", domain.ErrInvalidInput, i+1)
		}
	}

	voucher := &entity.Transaction{
		ID:                   uuid.New().String(),
		Kind:                 entity.TransactionKindReceipt,
		Receiver:             receiver,
		ManagerSignatureRef:  uc.managerSignature(in.ManagerSignature),
		ReceiverSignatureRef: in.ReceiverSignature,
		CreatedAt:            time.Now(),
	}

	// Transacción: por cada línea, bloquear la fila, restar y snapshotear; al
	// final persistir el vale. Commit o rollback en bloque (TxRunner.Run).
	err = uc.txRunner.Run(ctx, func(
		stockRepo repository.StockItemRepository,
		txRepo repository.TransactionRepository,
	) error {
		for i, line := range in.Items {
			item, err := ledger.Decrease(stockRepo, line.StockItemNumber, line.Quantity)
			if err != nil {
				return fmt.Errorf("línea %d: %w", i+1, err)
			}
			voucher.Items = append(voucher.Items, entity.TransactionItem{
				ItemName:        item.ItemName,
				ItemNumber:      item.ItemNumber,
				ItemType:        item.ItemType,
				Quantity:        line.Quantity,
				StockItemNumber: item.ItemNumber,
			})
		}
		return txRepo.Create(voucher)
	})
	if err != nil {
		return nil, err
	}

	resp := &dto.RecordVoucherResponse{TransactionID: voucher.ID}
	uc.finishDocument(ctx, voucher, resp)
	return resp, nil
}
