package repositories

import (
	"context"

	"starwars-api/db"
	"starwars-api/entities"
)

type characterPgRepository struct {
	db db.Database
}

func NewCharacterPgRepository(database db.Database) CharacterRepository {
	return &characterPgRepository{db: database}
}

func (r *characterPgRepository) Create(ctx context.Context, character *entities.Character) error {
	return translate(r.db.GetDB().WithContext(ctx).Create(character).Error)
}

func (r *characterPgRepository) GetByID(ctx context.Context, id uint) (*entities.Character, error) {
	var character entities.Character
	if err := r.db.GetDB().WithContext(ctx).Where("id = ?", id).First(&character).Error; err != nil {
		return nil, translate(err)
	}
	return &character, nil
}

func (r *characterPgRepository) GetByName(ctx context.Context, name string) (*entities.Character, error) {
	var character entities.Character
	if err := r.db.GetDB().WithContext(ctx).Where("name = ?", name).First(&character).Error; err != nil {
		return nil, translate(err)
	}
	return &character, nil
}

func (r *characterPgRepository) GetAll(ctx context.Context) ([]entities.Character, error) {
	var characters []entities.Character
	err := r.db.GetDB().WithContext(ctx).Order("id ASC").Find(&characters).Error
	return characters, translate(err)
}

func (r *characterPgRepository) Update(ctx context.Context, character *entities.Character) error {
	return affected(r.db.GetDB().WithContext(ctx).Model(character).Select("*").Omit("ID").Updates(character))
}

func (r *characterPgRepository) Delete(ctx context.Context, id uint) error {
	return affected(r.db.GetDB().WithContext(ctx).Where("id = ?", id).Delete(&entities.Character{}))
}
