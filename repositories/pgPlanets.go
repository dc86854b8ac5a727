package repositories

import (
	"context"

	"starwars-api/db"
	"starwars-api/entities"
)

type planetPgRepository struct {
	db db.Database
}

func NewPlanetPgRepository(database db.Database) PlanetRepository {
	return &planetPgRepository{db: database}
}

func (r *planetPgRepository) Create(ctx context.Context, planet *entities.Planet) error {
	return translate(r.db.GetDB().WithContext(ctx).Create(planet).Error)
}

func (r *planetPgRepository) GetByID(ctx context.Context, id uint) (*entities.Planet, error) {
	var planet entities.Planet
	if err := r.db.GetDB().WithContext(ctx).Where("id = ?", id).First(&planet).Error; err != nil {
		return nil, translate(err)
	}
	return &planet, nil
}

func (r *planetPgRepository) GetByName(ctx context.Context, name string) (*entities.Planet, error) {
	var planet entities.Planet
	if err := r.db.GetDB().WithContext(ctx).Where("name = ?", name).First(&planet).Error; err != nil {
		return nil, translate(err)
	}
	return &planet, nil
}

func (r *planetPgRepository) GetAll(ctx context.Context) ([]entities.Planet, error) {
	var planets []entities.Planet
	err := r.db.GetDB().WithContext(ctx).Order("id ASC").Find(&planets).Error
	return planets, translate(err)
}

func (r *planetPgRepository) Update(ctx context.Context, planet *entities.Planet) error {
	return affected(r.db.GetDB().WithContext(ctx).Model(planet).Select("*").Omit("ID").Updates(planet))
}

func (r *planetPgRepository) Delete(ctx context.Context, id uint) error {
	return affected(r.db.GetDB().WithContext(ctx).Where("id = ?", id).Delete(&entities.Planet{}))
}
