package usecases

import (
	"context"
	"errors"
	"fmt"

	"starwars-api/apperror"
	"starwars-api/entities"
	"starwars-api/repositories"
)

type PlanetUseCase struct {
	repo repositories.PlanetRepository
}

func NewPlanetUseCase(repo repositories.PlanetRepository) *PlanetUseCase {
	return &PlanetUseCase{repo: repo}
}

// CreatePlanet validates the payload and stores a new planet.
func (uc *PlanetUseCase) CreatePlanet(ctx context.Context, payload Payload) (*entities.Planet, error) {
	values, err := payload.Require(entities.PlanetFields)
	if err != nil {
		return nil, err
	}

	if err := uc.ensureNameFree(ctx, values["name"], 0); err != nil {
		return nil, err
	}

	planet := &entities.Planet{}
	for _, f := range entities.PlanetFields {
		planet.Apply(f, values[f])
	}
	if err := uc.repo.Create(ctx, planet); err != nil {
		return nil, storeError(err, "Planet")
	}
	return planet, nil
}

func (uc *PlanetUseCase) GetPlanet(ctx context.Context, id uint) (*entities.Planet, error) {
	planet, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "Planet")
	}
	return planet, nil
}

// GetAllPlanets returns every planet ordered by id.
func (uc *PlanetUseCase) GetAllPlanets(ctx context.Context) ([]entities.Planet, error) {
	planets, err := uc.repo.GetAll(ctx)
	if err != nil {
		return nil, storeError(err, "Planet")
	}
	if planets == nil {
		planets = []entities.Planet{}
	}
	return planets, nil
}

// UpdatePlanet changes the given fields of an existing planet.
func (uc *PlanetUseCase) UpdatePlanet(ctx context.Context, id uint, payload Payload) (*entities.Planet, error) {
	existing, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "Planet")
	}

	changes, err := payload.Changes(entities.PlanetFields)
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
		return nil, storeError(err, "Planet")
	}
	return existing, nil
}

// DeletePlanet removes a planet and returns it as it was.
func (uc *PlanetUseCase) DeletePlanet(ctx context.Context, id uint) (*entities.Planet, error) {
	existing, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "Planet")
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return nil, storeError(err, "Planet")
	}
	return existing, nil
}

func (uc *PlanetUseCase) ensureNameFree(ctx context.Context, name string, self uint) error {
	found, err := uc.repo.GetByName(ctx, name)
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return nil
	case err != nil:
		return storeError(err, "Planet")
	case found.ID != self:
		return apperror.NewConflictError(fmt.Sprintf("A planet named %q already exists", name), nil)
	}
	return nil
}
