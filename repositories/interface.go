package repositories

import (
	"context"
	"errors"

	"starwars-api/entities"
)

var (
	// ErrNotFound is returned when no row matches the lookup.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a write violates a unique constraint.
	ErrDuplicate = errors.New("duplicate record")
)

type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	GetByID(ctx context.Context, id uint) (*entities.User, error)
	GetByEmail(ctx context.Context, email string) (*entities.User, error)
	// FirstActive returns the active user with the lowest id.
	FirstActive(ctx context.Context) (*entities.User, error)
	GetAll(ctx context.Context) ([]entities.User, error)
	Update(ctx context.Context, user *entities.User) error
	Delete(ctx context.Context, id uint) error
}

type CharacterRepository interface {
	Create(ctx context.Context, character *entities.Character) error
	GetByID(ctx context.Context, id uint) (*entities.Character, error)
	GetByName(ctx context.Context, name string) (*entities.Character, error)
	GetAll(ctx context.Context) ([]entities.Character, error)
	Update(ctx context.Context, character *entities.Character) error
	Delete(ctx context.Context, id uint) error
}

type PlanetRepository interface {
	Create(ctx context.Context, planet *entities.Planet) error
	GetByID(ctx context.Context, id uint) (*entities.Planet, error)
	GetByName(ctx context.Context, name string) (*entities.Planet, error)
	GetAll(ctx context.Context) ([]entities.Planet, error)
	Update(ctx context.Context, planet *entities.Planet) error
	Delete(ctx context.Context, id uint) error
}

type FavouriteRepository interface {
	Create(ctx context.Context, fav *entities.Favourite) error
	GetByUserID(ctx context.Context, userID uint) ([]entities.Favourite, error)
	Find(ctx context.Context, userID uint, kind entities.FavouriteKind, targetID uint) (*entities.Favourite, error)
	Delete(ctx context.Context, id uint) error
}
