// Package custody contiene los casos de uso de lectura sobre el motor de
// conciliación: custodia de una persona, listado paginado de personas con su
// custodia y autocompletado de receptores. Todo se recalcula del historial en
// cada consulta; no hay tabla materializada de custodia que invalidar.
package custody

import (
	"fmt"
	"strings"

	"github.com/tu-usuario/custodia-api/internal/application/dto"
	"github.com/tu-usuario/custodia-api/internal/domain"
	engine "github.com/tu-usuario/custodia-api/internal/domain/custody"
	"github.com/tu-usuario/custodia-api/internal/domain/entity"
	"github.com/tu-usuario/custodia-api/internal/domain/repository"
)

// UseCase casos de uso de consulta de custodia.
type UseCase struct {
	txRepo repository.TransactionRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(txRepo repository.TransactionRepository) *UseCase {
	return &UseCase{txRepo: txRepo}
}

// CustodyForPerson concilia qué materiales retiene la persona identificada por
// nombre, rango y número (coincidencia exacta con campos recortados).
func (uc *UseCase) CustodyForPerson(name, rank, number string) ([]dto.CustodyLineDTO, error) {
	receiver := entity.Receiver{
		Name:   strings.TrimSpace(name),
		Rank:   strings.TrimSpace(rank),
		Number: strings.TrimSpace(number),
	}
	if receiver.Name == "" || receiver.Rank == "" || receiver.Number == "" {
		return nil, fmt.Errorf("%w: datos de la persona incompletos", domain.ErrInvalidInput)
	}

	receipts, err := uc.txRepo.ListByReceiver(receiver, entity.TransactionKindReceipt)
	if err != nil {
		return nil, err
	}
	deliveries, err := uc.txRepo.ListByReceiver(receiver, entity.TransactionKindDelivery)
	if err != nil {
		return nil, err
	}

	return toLineDTOs(engine.Reconcile(receipts, deliveries)), nil
}

// ListPeopleWithCustody agrega el historial completo por persona y devuelve una
// página del listado. search filtra por subcadena (insensible a mayúsculas) en
// nombre o número del receptor; la paginación corta la lista de personas, no la
// de transacciones.
func (uc *UseCase) ListPeopleWithCustody(search string, page dto.PageRequest) (*dto.PeopleCustodyResponse, error) {
	page.DefaultPage()

	all, err := uc.txRepo.ListAll()
	if err != nil {
		return nil, err
	}

	if q := strings.TrimSpace(search); q != "" {
		lower := strings.ToLower(q)
		filtered := all[:0]
		for _, t := range all {
			if strings.Contains(strings.ToLower(t.Receiver.Name), lower) ||
				strings.Contains(strings.ToLower(t.Receiver.Number), lower) {
				filtered = append(filtered, t)
			}
		}
		all = filtered
	}

	people := engine.GroupByPerson(all)
	total := len(people)
	totalPages := (total + page.Limit - 1) / page.Limit

	start := (page.Page - 1) * page.Limit
	if start > total {
		start = total
	}
	end := start + page.Limit
	if end > total {
		end = total
	}

	data := make([]dto.PersonCustodyDTO, 0, end-start)
	for _, p := range people[start:end] {
		data = append(data, dto.PersonCustodyDTO{
			Name:              p.Name,
			Rank:              p.Rank,
			Number:            p.Number,
			ReceivedItems:     toLineDTOs(p.ReceivedItems),
			DeliveredItems:    toLineDTOs(p.DeliveredItems),
			ItemsInCustody:    toLineDTOs(p.ItemsInCustody),
			ReceiptVouchers:   toVoucherRefDTOs(p.ReceiptVouchers),
			DeliveryVouchers:  toVoucherRefDTOs(p.DeliveryVouchers),
			HasItemsInCustody: p.HasItemsInCustody,
		})
	}

	return &dto.PeopleCustodyResponse{
		Data:       data,
		Total:      total,
		Page:       page.Page,
		Limit:      page.Limit,
		TotalPages: totalPages,
	}, nil
}

// SearchReceivers autocompleta receptores por nombre sobre los vales de entrega:
// requiere al menos 2 caracteres, deduplica por identidad y devuelve hasta 10.
func (uc *UseCase) SearchReceivers(nameQuery string) ([]dto.ReceiverSummaryDTO, error) {
	q := strings.TrimSpace(nameQuery)
	if len(q) < 2 {
		return []dto.ReceiverSummaryDTO{}, nil
	}

	matches, err := uc.txRepo.SearchReceivers(q, entity.TransactionKindReceipt, 50)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	out := make([]dto.ReceiverSummaryDTO, 0, 10)
	for _, t := range matches {
		key := engine.PersonKey(t.Receiver)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, dto.ReceiverSummaryDTO{
			Receiver: dto.ReceiverDTO{
				Name:   t.Receiver.Name,
				Rank:   t.Receiver.Rank,
				Number: t.Receiver.Number,
			},
			TransactionID: t.ID,
			Kind:          t.Kind,
			Date:          t.CreatedAt,
		})
		if len(out) == 10 {
			break
		}
	}
	return out, nil
}

func toLineDTOs(lines []engine.Line) []dto.CustodyLineDTO {
	out := make([]dto.CustodyLineDTO, 0, len(lines))
	for _, l := range lines {
		out = append(out, dto.CustodyLineDTO{
			ItemName:   l.ItemName,
			ItemType:   l.ItemType,
			ItemNumber: l.ItemNumber,
			Quantity:   l.Quantity,
			Date:       l.Date,
		})
	}
	return out
}

func toVoucherRefDTOs(refs []engine.VoucherRef) []dto.VoucherRefDTO {
	out := make([]dto.VoucherRefDTO, 0, len(refs))
	for _, r := range refs {
		out = append(out, dto.VoucherRefDTO{ID: r.ID, Date: r.Date, DocumentURL: r.DocumentURL})
	}
	return out
}
