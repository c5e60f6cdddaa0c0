package vouchers

import (
	"context"

	"github.com/tu-usuario/custodia-api/internal/domain/entity"
	"github.com/tu-usuario/custodia-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza que la mutación del libro de stock y
// el vale correspondiente se confirman o revierten juntos (todo o nada).
type TxRunner interface {
	Run(ctx context.Context, fn func(
		stockRepo repository.StockItemRepository,
		txRepo repository.TransactionRepository,
	) error) error
}

// VoucherPDFGenerator renderiza el documento legible de un vale confirmado.
type VoucherPDFGenerator interface {
	GenerateVoucherPDF(ctx context.Context, tx *entity.Transaction) ([]byte, error)
}

// ArtifactStore guarda un artefacto (documento renderizado) y devuelve una
// referencia durable. Sin efectos sobre el libro de stock; sus fallos nunca
// revierten un vale ya confirmado.
type ArtifactStore interface {
	Store(ctx context.Context, name string, data []byte) (string, error)
}
