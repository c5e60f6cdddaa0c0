package vouchers

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/custodia-api/internal/application/dto"
	"github.com/tu-usuario/custodia-api/internal/domain"
	"github.com/tu-usuario/custodia-api/internal/domain/entity"
	"github.com/tu-usuario/custodia-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type fakeStockRepo struct {
	items map[string]*entity.StockItem
}

func newFakeStockRepo(items ...*entity.StockItem) *fakeStockRepo {
	r := &fakeStockRepo{items: make(map[string]*entity.StockItem)}
	for _, it := range items {
		cp := *it
		r.items[it.ItemNumber] = &cp
	}
	return r
}

func (r *fakeStockRepo) GetByNumber(itemNumber string) (*entity.StockItem, error) {
	it, ok := r.items[itemNumber]
	if !ok {
		return nil, nil
	}
	cp := *it
	return &cp, nil
}

func (r *fakeStockRepo) GetByNumberForUpdate(itemNumber string) (*entity.StockItem, error) {
	return r.GetByNumber(itemNumber)
}

func (r *fakeStockRepo) Create(item *entity.StockItem) error {
	cp := *item
	r.items[item.ItemNumber] = &cp
	return nil
}

func (r *fakeStockRepo) UpdateQuantity(itemNumber string, quantity int) error {
	it, ok := r.items[itemNumber]
	if !ok {
		return fmt.Errorf("%w: material %s", domain.ErrNotFound, itemNumber)
	}
	it.Quantity = quantity
	return nil
}

func (r *fakeStockRepo) Delete(itemNumber string) error {
	delete(r.items, itemNumber)
	return nil
}

func (r *fakeStockRepo) List() ([]*entity.StockItem, error) { return nil, nil }

func (r *fakeStockRepo) Search(string, int) ([]*entity.StockItem, error) { return nil, nil }

// snapshot y restore simulan el rollback de la transacción.
func (r *fakeStockRepo) snapshot() map[string]*entity.StockItem {
	snap := make(map[string]*entity.StockItem, len(r.items))
	for k, v := range r.items {
		cp := *v
		snap[k] = &cp
	}
	return snap
}

type fakeTxRepo struct {
	created  []*entity.Transaction
	attached map[string]string
}

func newFakeTxRepo() *fakeTxRepo {
	return &fakeTxRepo{attached: make(map[string]string)}
}

func (r *fakeTxRepo) Create(tx *entity.Transaction) error {
	cp := *tx
	r.created = append(r.created, &cp)
	return nil
}

func (r *fakeTxRepo) GetByID(id string) (*entity.Transaction, error) {
	for _, tx := range r.created {
		if tx.ID == id {
			cp := *tx
			if url, ok := r.attached[id]; ok {
				cp.DocumentURL = url
			}
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeTxRepo) AttachDocument(id, documentURL string) error {
	for _, tx := range r.created {
		if tx.ID == id {
			r.attached[id] = documentURL
			return nil
		}
	}
	return fmt.Errorf("%w: vale %s", domain.ErrNotFound, id)
}

func (r *fakeTxRepo) ListByKind(kind string) ([]*entity.Transaction, error) {
	var out []*entity.Transaction
	for _, tx := range r.created {
		if tx.Kind == kind {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (r *fakeTxRepo) ListAll() ([]*entity.Transaction, error) { return r.created, nil }

func (r *fakeTxRepo) ListByReceiver(entity.Receiver, string) ([]*entity.Transaction, error) {
	return nil, nil
}

func (r *fakeTxRepo) SearchReceivers(string, string, int) ([]*entity.Transaction, error) {
	return nil, nil
}

// fakeTxRunner serializa las transacciones con un mutex y revierte el estado
// del stock si la función devuelve error, igual que un rollback real.
type fakeTxRunner struct {
	mu        sync.Mutex
	stockRepo *fakeStockRepo
	txRepo    *fakeTxRepo
}

func (tr *fakeTxRunner) Run(_ context.Context, fn func(
	stockRepo repository.StockItemRepository,
	txRepo repository.TransactionRepository,
) error) error {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	snap := tr.stockRepo.snapshot()
	createdBefore := len(tr.txRepo.created)
	if err := fn(tr.stockRepo, tr.txRepo); err != nil {
		tr.stockRepo.items = snap
		tr.txRepo.created = tr.txRepo.created[:createdBefore]
		return err
	}
	return nil
}

type fakePDF struct {
	err error
}

func (p *fakePDF) GenerateVoucherPDF(context.Context, *entity.Transaction) ([]byte, error) {
	if p.err != nil {
		return nil, p.err
	}
	return []byte("%PDF-fake"), nil
}

type fakeStore struct {
	err   error
	names []string
}

func (s *fakeStore) Store(_ context.Context, name string, _ []byte) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.names = append(s.names, name)
	return "/documents/" + name, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

type fixture struct {
	uc        *RecordVoucherUseCase
	stockRepo *fakeStockRepo
	txRepo    *fakeTxRepo
	pdf       *fakePDF
	store     *fakeStore
}

func newFixture(items ...*entity.StockItem) *fixture {
	stockRepo := newFakeStockRepo(items...)
	txRepo := newFakeTxRepo()
	pdf := &fakePDF{}
	store := &fakeStore{}
	runner := &fakeTxRunner{stockRepo: stockRepo, txRepo: txRepo}
	return &fixture{
		uc:        NewRecordVoucherUseCase(runner, txRepo, pdf, store, "firma-encargado-defecto"),
		stockRepo: stockRepo,
		txRepo:    txRepo,
		pdf:       pdf,
		store:     store,
	}
}

func validReceiver() dto.ReceiverDTO {
	return dto.ReceiverDTO{Name: "Ahmed Ali", Rank: "Sargento", Number: "12345"}
}

// ──────────────────────────────────────────────────────────────────────────────
// RecordReceipt
// ──────────────────────────────────────────────────────────────────────────────

func TestRecordReceipt_DescuentaStockYGuardaVale(t *testing.T) {
	f := newFixture(&entity.StockItem{ItemNumber: "M1", ItemName: "Radio", ItemType: "Comms", Quantity: 10})

	out, err := f.uc.RecordReceipt(context.Background(), dto.RecordReceiptRequest{
		Receiver:          validReceiver(),
		Items:             []dto.ReceiptLineRequest{{StockItemNumber: "M1", Quantity: 4}},
		ReceiverSignature: "firma-receptor",
	})
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.NotEmpty(t, out.TransactionID)
	assert.Empty(t, out.DocumentError)
	assert.Equal(t, "/documents/receipt_12345.pdf", out.DocumentURL)

	// Stock descontado
	item, err := f.stockRepo.GetByNumber("M1")
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.Equal(t, 6, item.Quantity)

	// Vale con snapshot de la identidad del material en stock
	require.Len(t, f.txRepo.created, 1)
	voucher := f.txRepo.created[0]
	assert.Equal(t, entity.TransactionKindReceipt, voucher.Kind)
	require.Len(t, voucher.Items, 1)
	assert.Equal(t, "Radio", voucher.Items[0].ItemName)
	assert.Equal(t, "M1", voucher.Items[0].ItemNumber)
	assert.Equal(t, 4, voucher.Items[0].Quantity)
	assert.Equal(t, "firma-encargado-defecto", voucher.ManagerSignatureRef)
}

func TestRecordReceipt_PodaElMaterialAlLlegarACero(t *testing.T) {
	f := newFixture(&entity.StockItem{ItemNumber: "M1", ItemName: "Radio", Quantity: 4})

	_, err := f.uc.RecordReceipt(context.Background(), dto.RecordReceiptRequest{
		Receiver:          validReceiver(),
		Items:             []dto.ReceiptLineRequest{{StockItemNumber: "M1", Quantity: 4}},
		ReceiverSignature: "firma-receptor",
	})
	require.NoError(t, err)

	item, err := f.stockRepo.GetByNumber("M1")
	require.NoError(t, err)
	assert.Nil(t, item, "el material con cantidad cero debe eliminarse del stock")
}

func TestRecordReceipt_StockInsuficiente_NoPersisteNada(t *testing.T) {
	f := newFixture(
		&entity.StockItem{ItemNumber: "M1", ItemName: "Radio", Quantity: 10},
		&entity.StockItem{ItemNumber: "M2", ItemName: "Casco", Quantity: 2},
	)

	_, err := f.uc.RecordReceipt(context.Background(), dto.RecordReceiptRequest{
		Receiver: validReceiver(),
		Items: []dto.ReceiptLineRequest{
			{StockItemNumber: "M1", Quantity: 5},
			{StockItemNumber: "M2", Quantity: 3}, // insuficiente
		},
		ReceiverSignature: "firma-receptor",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Contains(t, err.Error(), "línea 2")

	// Rollback completo: la línea 1 tampoco se aplica y no hay vale.
	item, _ := f.stockRepo.GetByNumber("M1")
	assert.Equal(t, 10, item.Quantity)
	item, _ = f.stockRepo.GetByNumber("M2")
	assert.Equal(t, 2, item.Quantity)
	assert.Empty(t, f.txRepo.created)
}

func TestRecordReceipt_MaterialInexistente(t *testing.T) {
	f := newFixture()

	_, err := f.uc.RecordReceipt(context.Background(), dto.RecordReceiptRequest{
		Receiver:          validReceiver(),
		Items:             []dto.ReceiptLineRequest{{StockItemNumber: "NO-EXISTE", Quantity: 1}},
		ReceiverSignature: "firma-receptor",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, f.txRepo.created)
}

func TestRecordReceipt_Validaciones(t *testing.T) {
	f := newFixture(&entity.StockItem{ItemNumber: "M1", ItemName: "Radio", Quantity: 10})
	ctx := context.Background()

	cases := []struct {
		name string
		in   dto.RecordReceiptRequest
		msg  string
	}{
		{
			name: "receptor incompleto",
			in: dto.RecordReceiptRequest{
				Receiver:          dto.ReceiverDTO{Name: "  ", Rank: "Sargento", Number: "1"},
				Items:             []dto.ReceiptLineRequest{{StockItemNumber: "M1", Quantity: 1}},
				ReceiverSignature: "f",
			},
			msg: "receptor",
		},
		{
			name: "sin firma del receptor",
			in: dto.RecordReceiptRequest{
				Receiver: validReceiver(),
				Items:    []dto.ReceiptLineRequest{{StockItemNumber: "M1", Quantity: 1}},
			},
			msg: "firma",
		},
		{
			name: "sin líneas",
			in: dto.RecordReceiptRequest{
				Receiver:          validReceiver(),
				ReceiverSignature: "f",
			},
			msg: "al menos una línea",
		},
		{
			name: "cantidad cero en la segunda línea",
			in: dto.RecordReceiptRequest{
				Receiver: validReceiver(),
				Items: []dto.ReceiptLineRequest{
					{StockItemNumber: "M1", Quantity: 1},
					{StockItemNumber: "M1", Quantity: 0},
				},
				ReceiverSignature: "f",
			},
			msg: "línea 2",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.uc.RecordReceipt(ctx, tc.in)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.Contains(t, err.Error(), tc.msg)
			assert.Empty(t, f.txRepo.created, "una validación fallida no debe persistir nada")
		})
	}
}

func TestRecordReceipt_ConcurrenciaExcedeStock_SoloUnoGana(t *testing.T) {
	f := newFixture(&entity.StockItem{ItemNumber: "M1", ItemName: "Radio", Quantity: 5})

	req := dto.RecordReceiptRequest{
		Receiver:          validReceiver(),
		Items:             []dto.ReceiptLineRequest{{StockItemNumber: "M1", Quantity: 3}},
		ReceiverSignature: "firma-receptor",
	}

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.uc.RecordReceipt(context.Background(), req)
		}(i)
	}
	wg.Wait()

	var okCount, insufficient int
	for _, err := range errs {
		switch {
		case err == nil:
			okCount++
		case errors.Is(err, domain.ErrInsufficientStock):
			insufficient++
		default:
			t.Fatalf("error inesperado: %v", err)
		}
	}
	assert.Equal(t, 1, okCount, "exactamente un vale debe confirmarse")
	assert.Equal(t, 1, insufficient, "el otro debe fallar por stock insuficiente")

	item, _ := f.stockRepo.GetByNumber("M1")
	require.NotNil(t, item)
	assert.Equal(t, 2, item.Quantity, "el stock nunca queda negativo")
	assert.Len(t, f.txRepo.created, 1)
}

// ──────────────────────────────────────────────────────────────────────────────
// RecordDelivery
// ──────────────────────────────────────────────────────────────────────────────

func TestRecordDelivery_SumaAExistenteYCreaNuevo(t *testing.T) {
	f := newFixture(&entity.StockItem{ItemNumber: "M1", ItemName: "Radio", ItemType: "Comms", Quantity: 2})

	out, err := f.uc.RecordDelivery(context.Background(), dto.RecordDeliveryRequest{
		Receiver: validReceiver(),
		Items: []dto.DeliveryLineRequest{
			{MaterialName: "Radio", MaterialNumber: "M1", Type: "Comms", Quantity: 3},
			{MaterialName: "Linterna", MaterialNumber: "M9", Type: "Equipo", Quantity: 1},
		},
		ReceiverSignature: "firma-receptor",
	})
	require.NoError(t, err)
	assert.Equal(t, "/documents/delivery_12345.pdf", out.DocumentURL)

	existing, _ := f.stockRepo.GetByNumber("M1")
	require.NotNil(t, existing)
	assert.Equal(t, 5, existing.Quantity)

	created, _ := f.stockRepo.GetByNumber("M9")
	require.NotNil(t, created, "la devolución debe crear el material si no existe")
	assert.Equal(t, "Linterna", created.ItemName)
	assert.Equal(t, 1, created.Quantity)

	require.Len(t, f.txRepo.created, 1)
	assert.Equal(t, entity.TransactionKindDelivery, f.txRepo.created[0].Kind)
	require.Len(t, f.txRepo.created[0].Items, 2)
}

func TestRecordDelivery_LineaSinNombre(t *testing.T) {
	f := newFixture()

	_, err := f.uc.RecordDelivery(context.Background(), dto.RecordDeliveryRequest{
		Receiver:          validReceiver(),
		Items:             []dto.DeliveryLineRequest{{MaterialNumber: "M1", Quantity: 1}},
		ReceiverSignature: "f",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "línea 1")
}

// ──────────────────────────────────────────────────────────────────────────────
// Éxito parcial del documento
// ──────────────────────────────────────────────────────────────────────────────

func TestRecordReceipt_FalloDelRender_ElValeSobrevive(t *testing.T) {
	f := newFixture(&entity.StockItem{ItemNumber: "M1", ItemName: "Radio", Quantity: 10})
	f.pdf.err = errors.New("fuente corrupta")

	out, err := f.uc.RecordReceipt(context.Background(), dto.RecordReceiptRequest{
		Receiver:          validReceiver(),
		Items:             []dto.ReceiptLineRequest{{StockItemNumber: "M1", Quantity: 1}},
		ReceiverSignature: "firma-receptor",
	})
	require.NoError(t, err, "el fallo del documento no debe fallar la operación")
	assert.Empty(t, out.DocumentURL)
	assert.Contains(t, out.DocumentError, "render")

	// La transacción y el descuento de stock son durables.
	assert.Len(t, f.txRepo.created, 1)
	item, _ := f.stockRepo.GetByNumber("M1")
	assert.Equal(t, 9, item.Quantity)
}

func TestRecordReceipt_FalloDeLaSubida_ElValeSobrevive(t *testing.T) {
	f := newFixture(&entity.StockItem{ItemNumber: "M1", ItemName: "Radio", Quantity: 10})
	f.store.err = errors.New("timeout")

	out, err := f.uc.RecordReceipt(context.Background(), dto.RecordReceiptRequest{
		Receiver:          validReceiver(),
		Items:             []dto.ReceiptLineRequest{{StockItemNumber: "M1", Quantity: 1}},
		ReceiverSignature: "firma-receptor",
	})
	require.NoError(t, err)
	assert.Contains(t, out.DocumentError, "subida")
	assert.Len(t, f.txRepo.created, 1)
	assert.Empty(t, f.txRepo.attached, "sin subida no debe adjuntarse referencia")
}

// ──────────────────────────────────────────────────────────────────────────────
// Consultas
// ──────────────────────────────────────────────────────────────────────────────

func TestGetByID_NoEncontrado(t *testing.T) {
	f := newFixture()
	_, err := f.uc.GetByID("no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListByKind_TipoInvalido(t *testing.T) {
	f := newFixture()
	_, err := f.uc.ListByKind("OTRA-COSA")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGetByID_IncluyeDocumentoAdjunto(t *testing.T) {
	f := newFixture(&entity.StockItem{ItemNumber: "M1", ItemName: "Radio", Quantity: 10})

	out, err := f.uc.RecordReceipt(context.Background(), dto.RecordReceiptRequest{
		Receiver:          validReceiver(),
		Items:             []dto.ReceiptLineRequest{{StockItemNumber: "M1", Quantity: 1}},
		ReceiverSignature: "firma-receptor",
	})
	require.NoError(t, err)

	got, err := f.uc.GetByID(out.TransactionID)
	require.NoError(t, err)
	assert.Equal(t, out.DocumentURL, got.DocumentURL)
}
