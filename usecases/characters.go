package usecases

import (
	"context"
	"errors"
	"fmt"

	"starwars-api/apperror"
	"starwars-api/entities"
	"starwars-api/repositories"
)

type CharacterUseCase struct {
	repo repositories.CharacterRepository
}

func NewCharacterUseCase(repo repositories.CharacterRepository) *CharacterUseCase {
	return &CharacterUseCase{repo: repo}
}

// CreateCharacter validates the payload and stores a new character.
func (uc *CharacterUseCase) CreateCharacter(ctx context.Context, payload Payload) (*entities.Character, error) {
	values, err := payload.Require(entities.CharacterFields)
	if err != nil {
		return nil, err
	}

	if err := uc.ensureNameFree(ctx, values["name"], 0); err != nil {
		return nil, err
	}

	character := &entities.Character{}
	for _, f := range entities.CharacterFields {
		character.Apply(f, values[f])
	}
	if err := uc.repo.Create(ctx, character); err != nil {
		return nil, storeError(err, "Character")
	}
	return character, nil
}

// GetCharacter retrieves a character by ID
func (uc *CharacterUseCase) GetCharacter(ctx context.Context, id uint) (*entities.Character, error) {
	character, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "Character")
	}
	return character, nil
}

// GetAllCharacters never returns a nil slice.
func (uc *CharacterUseCase) GetAllCharacters(ctx context.Context) ([]entities.Character, error) {
	characters, err := uc.repo.GetAll(ctx)
	if err != nil {
		return nil, storeError(err, "Character")
	}
	if characters == nil {
		characters = []entities.Character{}
	}
	return characters, nil
}

// UpdateCharacter applies a partial update. Nothing is written if any key
// in the payload is invalid.
func (uc *CharacterUseCase) UpdateCharacter(ctx context.Context, id uint, payload Payload) (*entities.Character, error) {
	existing, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "Character")
	}

	changes, err := payload.Changes(entities.CharacterFields)
	if err != nil {
		return nil, err
	}
	if name, ok := changes["name"]; ok && name != existing.Name {
		if err := uc.ensureNameFree(ctx, name, id); err != nil {
			return nil, err
		}
	}

	for f, v := range changes {
		existing.Apply(f, v)
	}
	if err := uc.repo.Update(ctx, existing); err != nil {
		return nil, storeError(err, "Character")
	}
	return existing, nil
}

// DeleteCharacter removes a character and returns it as it was.
func (uc *CharacterUseCase) DeleteCharacter(ctx context.Context, id uint) (*entities.Character, error) {
	existing, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "Character")
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return nil, storeError(err, "Character")
	}
	return existing, nil
}

func (uc *CharacterUseCase) ensureNameFree(ctx context.Context, name string, self uint) error {
	found, err := uc.repo.GetByName(ctx, name)
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return nil
	case err != nil:
		return storeError(err, "Character")
	case found.ID != self:
		return apperror.NewConflictError(fmt.Sprintf("A character named %q already exists", name), nil)
	}
	return nil
}
