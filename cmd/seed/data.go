package main

import (
	"context"

	"starwars-api/usecases"
)

type kind string

const (
	kindUser      kind = "user"
	kindCharacter kind = "character"
	kindPlanet    kind = "planet"
)

type seedItem struct {
	kind    kind
	label   string
	payload usecases.Payload
}

func defaultItems(email, password string) []seedItem {
	return []seedItem{
		{kindUser, email, usecases.Payload{"email": email, "password": password, "is_active": true}},

		{kindCharacter, "Luke Skywalker", usecases.Payload{
			"name": "Luke Skywalker", "gender": "male", "birth_year": "19BBY",
			"eye_color": "blue", "skin_color": "fair", "height": "172",
		}},
		{kindCharacter, "Leia Organa", usecases.Payload{
			"name": "Leia Organa", "gender": "female", "birth_year": "19BBY",
			"eye_color": "brown", "skin_color": "light", "height": "150",
		}},
		{kindCharacter, "Han Solo", usecases.Payload{
			"name": "Han Solo", "gender": "male", "birth_year": "29BBY",
			"eye_color": "brown", "skin_color": "fair", "height": "180",
		}},
		{kindCharacter, "Darth Vader", usecases.Payload{
			"name": "Darth Vader", "gender": "male", "birth_year": "41.9BBY",
			"eye_color": "yellow", "skin_color": "white", "height": "202",
		}},
		{kindCharacter, "Obi-Wan Kenobi", usecases.Payload{
			"name": "Obi-Wan Kenobi", "gender": "male", "birth_year": "57BBY",
			"eye_color": "blue-gray", "skin_color": "fair", "height": "182",
		}},

		{kindPlanet, "Tatooine", usecases.Payload{
			"name": "Tatooine", "climate": "arid", "population": "200000",
			"orbital_period": "304", "rotation_period": "23", "diameter": "10465",
		}},
		{kindPlanet, "Alderaan", usecases.Payload{
			"name": "Alderaan", "climate": "temperate", "population": "2000000000",
			"orbital_period": "364", "rotation_period": "24", "diameter": "12500",
		}},
		{kindPlanet, "Hoth", usecases.Payload{
			"name": "Hoth", "climate": "frozen", "population": "unknown",
			"orbital_period": "549", "rotation_period": "23", "diameter": "7200",
		}},
		{kindPlanet, "Dagobah", usecases.Payload{
			"name": "Dagobah", "climate": "murky", "population": "unknown",
			"orbital_period": "341", "rotation_period": "23", "diameter": "8900",
		}},
	}
}

// seeder creates items through the same use cases the API uses, so seeded
// rows pass the same validation.
type seeder struct {
	users      *usecases.UserUseCase
	characters *usecases.CharacterUseCase
	planets    *usecases.PlanetUseCase
}

func (s seeder) create(ctx context.Context, item seedItem) error {
	var err error
	switch item.kind {
	case kindUser:
		_, err = s.users.CreateUser(ctx, item.payload)
	case kindCharacter:
		_, err = s.characters.CreateCharacter(ctx, item.payload)
	case kindPlanet:
		_, err = s.planets.CreatePlanet(ctx, item.payload)
	}
	return err
}
