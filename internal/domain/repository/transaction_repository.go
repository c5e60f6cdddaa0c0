package repository

import "github.com/tu-usuario/custodia-api/internal/domain/entity"

// TransactionRepository define el puerto de persistencia del historial de vales.
// El historial es append-only: nunca se edita ni se borra un vale confirmado,
// con la única excepción de AttachDocument.
type TransactionRepository interface {
	Create(tx *entity.Transaction) error
	GetByID(id string) (*entity.Transaction, error)
	// AttachDocument escribe una sola vez la referencia al documento renderizado
	// de un vale ya confirmado, sin tocar ningún otro campo.
	AttachDocument(id, documentURL string) error
	// ListByKind lista vales de un tipo, los más recientes primero.
	ListByKind(kind string) ([]*entity.Transaction, error)
	// ListAll lista todo el historial, el más reciente primero.
	ListAll() ([]*entity.Transaction, error)
	// ListByReceiver lista los vales de un tipo cuyo receptor coincide
	// exactamente (campos recortados) con la identidad dada.
	ListByReceiver(receiver entity.Receiver, kind string) ([]*entity.Transaction, error)
	// SearchReceivers devuelve vales de un tipo cuyo nombre de receptor contiene
	// la subcadena (insensible a mayúsculas), los más recientes primero.
	SearchReceivers(nameQuery, kind string, limit int) ([]*entity.Transaction, error)
}
