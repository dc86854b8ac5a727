package usecases

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"starwars-api/apperror"
	"starwars-api/entities"
	"starwars-api/repositories"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type UserUseCase struct {
	repo repositories.UserRepository
	// cost is the bcrypt work factor. Tests lower it.
	cost int
}

func NewUserUseCase(repo repositories.UserRepository) *UserUseCase {
	return &UserUseCase{repo: repo, cost: bcrypt.DefaultCost}
}

// CreateUser requires email and password. is_active is optional and
// defaults to true so a freshly created user can collect favourites.
func (uc *UserUseCase) CreateUser(ctx context.Context, payload Payload) (*entities.User, error) {
	values, err := payload.Require(entities.UserRequiredFields)
	if err != nil {
		return nil, err
	}
	active, ok, err := payload.Bool("is_active")
	if err != nil {
		return nil, err
	}
	if !ok {
		active = true
	}

	user := &entities.User{Email: values["email"], IsActive: active}
	if err := uc.setEmail(ctx, user, values["email"]); err != nil {
		return nil, err
	}
	if err := uc.setPassword(user, values["password"]); err != nil {
		return nil, err
	}

	if err := uc.repo.Create(ctx, user); err != nil {
		return nil, storeError(err, "User")
	}
	return user, nil
}

func (uc *UserUseCase) GetUser(ctx context.Context, id uint) (*entities.User, error) {
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "User")
	}
	return user, nil
}

func (uc *UserUseCase) GetAllUsers(ctx context.Context) ([]entities.User, error) {
	users, err := uc.repo.GetAll(ctx)
	if err != nil {
		return nil, storeError(err, "User")
	}
	if users == nil {
		users = []entities.User{}
	}
	return users, nil
}

// UpdateUser accepts any subset of email, password and is_active.
func (uc *UserUseCase) UpdateUser(ctx context.Context, id uint, payload Payload) (*entities.User, error) {
	existing, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "User")
	}

	// is_active is a boolean and goes through its own check; the rest are text.
	active, hasActive, err := payload.Bool("is_active")
	if err != nil {
		return nil, err
	}
	rest := make(Payload, len(payload))
	for k, v := range payload {
		if k != "is_active" {
			rest[k] = v
		}
	}

	var changes map[string]string
	if len(rest) > 0 || !hasActive {
		if changes, err = rest.Changes(entities.UserRequiredFields); err != nil {
			return nil, err
		}
	}

	if email, ok := changes["email"]; ok && email != existing.Email {
		if err := uc.setEmail(ctx, existing, email); err != nil {
			return nil, err
		}
	}
	if password, ok := changes["password"]; ok {
		if err := uc.setPassword(existing, password); err != nil {
			return nil, err
		}
	}
	if hasActive {
		existing.IsActive = active
	}

	if err := uc.repo.Update(ctx, existing); err != nil {
		return nil, storeError(err, "User")
	}
	return existing, nil
}

// DeleteUser removes a user together with their favourites.
func (uc *UserUseCase) DeleteUser(ctx context.Context, id uint) (*entities.User, error) {
	existing, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "User")
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return nil, storeError(err, "User")
	}
	return existing, nil
}

func (uc *UserUseCase) setEmail(ctx context.Context, user *entities.User, email string) error {
	if err := validate.Var(email, "email"); err != nil {
		return apperror.NewInvalidValueError("email", fmt.Sprintf("%q is not a valid email address", email))
	}

	found, err := uc.repo.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, repositories.ErrNotFound):
	case err != nil:
		return storeError(err, "User")
	case found.ID != user.ID:
		return apperror.NewConflictError("This email is already in use", nil)
	}
	user.Email = email
	return nil
}

func (uc *UserUseCase) setPassword(user *entities.User, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), uc.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return apperror.NewInvalidValueError("password", "password must be at most 72 bytes")
	}
	if err != nil {
		return apperror.NewInternalError("Failed to hash password", err)
	}
	user.Password = string(hash)
	return nil
}
