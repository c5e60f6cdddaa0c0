package vouchers

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tu-usuario/custodia-api/internal/application/dto"
	"github.com/tu-usuario/custodia-api/internal/domain"
	"github.com/tu-usuario/custodia-api/internal/domain/entity"
	"github.com/tu-usuario/custodia-api/internal/domain/repository"
)

// RecordVoucherUseCase registra vales de entrega (RECEIPT) y devolución
// (DELIVERY) de forma transaccional, y después del commit renderiza y sube el
// documento del vale como paso aparte de mejor esfuerzo.
type RecordVoucherUseCase struct {
	txRunner       TxRunner
	txRepo         repository.TransactionRepository // atado al pool, para lecturas y AttachDocument
	pdf            VoucherPDFGenerator
	store          ArtifactStore
	managerSignRef string // firma del encargado por defecto cuando el request no la trae
}

// NewRecordVoucherUseCase construye el caso de uso.
func NewRecordVoucherUseCase(
	txRunner TxRunner,
	txRepo repository.TransactionRepository,
	pdf VoucherPDFGenerator,
	store ArtifactStore,
	managerSignRef string,
) *RecordVoucherUseCase {
	return &RecordVoucherUseCase{
		txRunner:       txRunner,
		txRepo:         txRepo,
		pdf:            pdf,
		store:          store,
		managerSignRef: managerSignRef,
	}
}

// validateReceiver exige nombre, rango y número no vacíos (recortados).
func validateReceiver(r dto.ReceiverDTO) (entity.Receiver, error) {
	rec := entity.Receiver{
		Name:   strings.TrimSpace(r.Name),
		Rank:   strings.TrimSpace(r.Rank),
		Number: strings.TrimSpace(r.Number),
	}
	if rec.Name == "" || rec.Rank == "" || rec.Number == "" {
		return entity.Receiver{}, fmt.Errorf("%w: datos del receptor incompletos", domain.ErrInvalidInput)
	}
	return rec, nil
}

// managerSignature aplica la firma por defecto del encargado si el request no
// trae una.
func (uc *RecordVoucherUseCase) managerSignature(fromRequest string) string {
	if s := strings.TrimSpace(fromRequest); s != "" {
		return s
	}
	return uc.managerSignRef
}

// finishDocument renderiza el documento del vale ya confirmado, lo sube y
// escribe la referencia en una segunda persistencia separada. Un fallo aquí no
// revierte nada: se informa como éxito parcial en la respuesta.
func (uc *RecordVoucherUseCase) finishDocument(ctx context.Context, tx *entity.Transaction, resp *dto.RecordVoucherResponse) {
	data, err := uc.pdf.GenerateVoucherPDF(ctx, tx)
	if err != nil {
		log.Error().Err(err).Str("transaction_id", tx.ID).Msg("render del documento del vale")
		resp.DocumentError = fmt.Sprintf("render del documento: %v", err)
		return
	}
	name := documentName(tx)
	url, err := uc.store.Store(ctx, name, data)
	if err != nil {
		log.Error().Err(err).Str("transaction_id", tx.ID).Msg("subida del documento del vale")
		resp.DocumentError = fmt.Sprintf("subida del documento: %v", err)
		return
	}
	if err := uc.txRepo.AttachDocument(tx.ID, url); err != nil {
		log.Error().Err(err).Str("transaction_id", tx.ID).Msg("guardar referencia del documento")
		resp.DocumentError = fmt.Sprintf("guardar referencia: %v", err)
		return
	}
	resp.DocumentURL = url
}

// documentName arma el nombre del artefacto: tipo de vale + número del receptor.
func documentName(tx *entity.Transaction) string {
	prefix := "receipt"
	if tx.Kind == entity.TransactionKindDelivery {
		prefix = "delivery"
	}
	return fmt.Sprintf("%s_%s.pdf", prefix, tx.Receiver.Number)
}

// GetByID devuelve un vale confirmado por su ID.
func (uc *RecordVoucherUseCase) GetByID(id string) (*dto.TransactionResponse, error) {
	tx, err := uc.txRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, fmt.Errorf("%w: vale %s", domain.ErrNotFound, id)
	}
	return toTransactionResponse(tx), nil
}

// ListByKind lista los vales de un tipo, los más recientes primero.
func (uc *RecordVoucherUseCase) ListByKind(kind string) ([]*dto.TransactionResponse, error) {
	if kind != entity.TransactionKindReceipt && kind != entity.TransactionKindDelivery {
		return nil, fmt.Errorf("%w: tipo de vale %q", domain.ErrInvalidInput, kind)
	}
	list, err := uc.txRepo.ListByKind(kind)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.TransactionResponse, 0, len(list))
	for _, tx := range list {
		out = append(out, toTransactionResponse(tx))
	}
	return out, nil
}

func toTransactionResponse(tx *entity.Transaction) *dto.TransactionResponse {
	items := make([]dto.TransactionItemDTO, 0, len(tx.Items))
	for _, it := range tx.Items {
		items = append(items, dto.TransactionItemDTO{
			ItemName:   it.ItemName,
			ItemNumber: it.ItemNumber,
			ItemType:   it.ItemType,
			Quantity:   it.Quantity,
		})
	}
	return &dto.TransactionResponse{
		ID:   tx.ID,
		Kind: tx.Kind,
		Receiver: dto.ReceiverDTO{
			Name:   tx.Receiver.Name,
			Rank:   tx.Receiver.Rank,
			Number: tx.Receiver.Number,
		},
		Items:       items,
		DocumentURL: tx.DocumentURL,
		CreatedAt:   tx.CreatedAt,
	}
}
