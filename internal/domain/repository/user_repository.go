package repository

import "github.com/tu-usuario/custodia-api/internal/domain/entity"

// UserRepository define el puerto de persistencia para User (DIP).
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id string) (*entity.User, error)
	FindByEmail(email string) (*entity.User, error)
	UpdatePassword(id, passwordHash string) error
	List() ([]*entity.User, error)
}
