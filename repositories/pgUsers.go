package repositories

import (
	"context"

	"starwars-api/db"
	"starwars-api/entities"
)

type userPgRepository struct {
	db db.Database
}

func NewUserPgRepository(database db.Database) UserRepository {
	return &userPgRepository{db: database}
}

func (r *userPgRepository) Create(ctx context.Context, user *entities.User) error {
	return translate(r.db.GetDB().WithContext(ctx).Create(user).Error)
}

func (r *userPgRepository) GetByID(ctx context.Context, id uint) (*entities.User, error) {
	var user entities.User
	if err := r.db.GetDB().WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *userPgRepository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	var user entities.User
	if err := r.db.GetDB().WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *userPgRepository) FirstActive(ctx context.Context) (*entities.User, error) {
	var user entities.User
	err := r.db.GetDB().WithContext(ctx).Where("is_active = ?", true).Order("id ASC").First(&user).Error
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *userPgRepository) GetAll(ctx context.Context) ([]entities.User, error) {
	var users []entities.User
	err := r.db.GetDB().WithContext(ctx).Order("id ASC").Find(&users).Error
	return users, translate(err)
}

func (r *userPgRepository) Update(ctx context.Context, user *entities.User) error {
	return affected(r.db.GetDB().WithContext(ctx).Model(user).Select("*").Omit("ID").Updates(user))
}

func (r *userPgRepository) Delete(ctx context.Context, id uint) error {
	return affected(r.db.GetDB().WithContext(ctx).Where("id = ?", id).Delete(&entities.User{}))
}
