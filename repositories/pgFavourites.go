package repositories

import (
	"context"

	"starwars-api/db"
	"starwars-api/entities"
)

type favouritePgRepository struct {
	db db.Database
}

func NewFavouritePgRepository(database db.Database) FavouriteRepository {
	return &favouritePgRepository{db: database}
}

func (r *favouritePgRepository) Create(ctx context.Context, fav *entities.Favourite) error {
	return translate(r.db.GetDB().WithContext(ctx).Omit("User", "Character", "Planet").Create(fav).Error)
}

func (r *favouritePgRepository) GetByUserID(ctx context.Context, userID uint) ([]entities.Favourite, error) {
	var favs []entities.Favourite
	err := r.db.GetDB().WithContext(ctx).Where("user_id = ?", userID).Order("id ASC").Find(&favs).Error
	return favs, translate(err)
}

func (r *favouritePgRepository) Find(ctx context.Context, userID uint, kind entities.FavouriteKind, targetID uint) (*entities.Favourite, error) {
	column := "character_id"
	if kind == entities.FavouritePlanet {
		column = "planet_id"
	}
	var fav entities.Favourite
	err := r.db.GetDB().WithContext(ctx).Where("user_id = ? AND "+column+" = ?", userID, targetID).First(&fav).Error
	if err != nil {
		return nil, translate(err)
	}
	return &fav, nil
}

func (r *favouritePgRepository) Delete(ctx context.Context, id uint) error {
	return affected(r.db.GetDB().WithContext(ctx).Where("id = ?", id).Delete(&entities.Favourite{}))
}
