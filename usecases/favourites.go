package usecases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"starwars-api/apperror"
	"starwars-api/entities"
	"starwars-api/logging"
	"starwars-api/metrics"
	"starwars-api/repositories"
)

const (
	EventFavouriteAdded   = "favourite_added"
	EventFavouriteRemoved = "favourite_removed"
)

// Publisher delivers a message to the live connection of a user, if any.
type Publisher interface {
	Publish(userID uint, payload []byte) error
}

type FavouritesUseCase struct {
	users      repositories.UserRepository
	characters repositories.CharacterRepository
	planets    repositories.PlanetRepository
	favourites repositories.FavouriteRepository
	publisher  Publisher
}

// NewFavouritesUseCase wires the relationship operations. publisher may be nil.
func NewFavouritesUseCase(
	users repositories.UserRepository,
	characters repositories.CharacterRepository,
	planets repositories.PlanetRepository,
	favourites repositories.FavouriteRepository,
	publisher Publisher,
) *FavouritesUseCase {
	return &FavouritesUseCase{
		users:      users,
		characters: characters,
		planets:    planets,
		favourites: favourites,
		publisher:  publisher,
	}
}

// ResolveUser picks the user a favourites request acts for. An explicit id
// wins; without one the active user with the lowest id is used.
func (uc *FavouritesUseCase) ResolveUser(ctx context.Context, explicitID *uint) (*entities.User, error) {
	if explicitID != nil {
		user, err := uc.users.GetByID(ctx, *explicitID)
		if err != nil {
			return nil, storeError(err, "User")
		}
		return user, nil
	}

	user, err := uc.users.FirstActive(ctx)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperror.NewNoActiveUserError()
	}
	if err != nil {
		return nil, storeError(err, "User")
	}
	return user, nil
}

// ListFavourites returns an empty slice when the user has none.
func (uc *FavouritesUseCase) ListFavourites(ctx context.Context, user *entities.User) ([]entities.Favourite, error) {
	favs, err := uc.favourites.GetByUserID(ctx, user.ID)
	if err != nil {
		return nil, storeError(err, "Favourite")
	}
	if favs == nil {
		favs = []entities.Favourite{}
	}
	return favs, nil
}

func (uc *FavouritesUseCase) AddFavourite(ctx context.Context, user *entities.User, kind entities.FavouriteKind, targetID uint) (*entities.Favourite, error) {
	if err := uc.ensureTarget(ctx, kind, targetID); err != nil {
		return nil, err
	}

	_, err := uc.favourites.Find(ctx, user.ID, kind, targetID)
	switch {
	case err == nil:
		return nil, alreadyFavourited(kind, targetID, nil)
	case !errors.Is(err, repositories.ErrNotFound):
		return nil, storeError(err, "Favourite")
	}

	fav := entities.NewFavourite(user.ID, kind, targetID)
	if err := uc.favourites.Create(ctx, fav); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, alreadyFavourited(kind, targetID, err)
		}
		return nil, storeError(err, "Favourite")
	}

	metrics.RecordFavouriteOperation("add", string(kind))
	uc.publish(ctx, user.ID, EventFavouriteAdded, fav)
	return fav, nil
}

func (uc *FavouritesUseCase) RemoveFavourite(ctx context.Context, user *entities.User, kind entities.FavouriteKind, targetID uint) (*entities.Favourite, error) {
	if err := uc.ensureTarget(ctx, kind, targetID); err != nil {
		return nil, err
	}

	fav, err := uc.favourites.Find(ctx, user.ID, kind, targetID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperror.NewNotFoundError(fmt.Sprintf("%s %d is not a favourite of this user", label(kind), targetID), err)
	}
	if err != nil {
		return nil, storeError(err, "Favourite")
	}

	if err := uc.favourites.Delete(ctx, fav.ID); err != nil {
		return nil, storeError(err, "Favourite")
	}

	metrics.RecordFavouriteOperation("remove", string(kind))
	uc.publish(ctx, user.ID, EventFavouriteRemoved, fav)
	return fav, nil
}

// ensureTarget fails with NotFound when the referenced entity is absent.
func (uc *FavouritesUseCase) ensureTarget(ctx context.Context, kind entities.FavouriteKind, targetID uint) error {
	var err error
	switch kind {
	case entities.FavouriteCharacter:
		_, err = uc.characters.GetByID(ctx, targetID)
	case entities.FavouritePlanet:
		_, err = uc.planets.GetByID(ctx, targetID)
	default:
		return apperror.NewBadRequestError(fmt.Sprintf("Unknown favourite kind %q", kind), nil)
	}
	if errors.Is(err, repositories.ErrNotFound) {
		return apperror.NewNotFoundError(fmt.Sprintf("%s %d not found", label(kind), targetID), err)
	}
	if err != nil {
		return storeError(err, label(kind))
	}
	return nil
}

func (uc *FavouritesUseCase) publish(ctx context.Context, userID uint, eventType string, fav *entities.Favourite) {
	if uc.publisher == nil {
		return
	}
	payload, err := json.Marshal(entities.FavouriteEvent{
		Type:      eventType,
		Favourite: fav,
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("failed to encode favourite event")
		return
	}
	if err := uc.publisher.Publish(userID, payload); err != nil {
		logging.Ctx(ctx).Debug().Err(err).Uint("user_id", userID).Str("event", eventType).Msg("favourite event not delivered")
	}
}

func alreadyFavourited(kind entities.FavouriteKind, targetID uint, err error) error {
	return apperror.NewConflictError(fmt.Sprintf("%s %d is already a favourite of this user", label(kind), targetID), err)
}

func label(kind entities.FavouriteKind) string {
	if kind == entities.FavouritePlanet {
		return "Planet"
	}
	return "Character"
}
