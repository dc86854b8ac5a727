package entities

// FavouriteKind names the kind of entity a favourite points at. The values
// match the path segments of the favourite routes.
type FavouriteKind string

const (
	FavouriteCharacter FavouriteKind = "people"
	FavouritePlanet    FavouriteKind = "planet"
)

// Favourite links a user to exactly one character or planet.
type Favourite struct {
	ID          uint  `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      uint  `gorm:"not null;index;uniqueIndex:idx_favourites_user_character;uniqueIndex:idx_favourites_user_planet" json:"user_id"`
	CharacterID *uint `gorm:"uniqueIndex:idx_favourites_user_character;check:chk_favourites_one_target,(character_id IS NULL) <> (planet_id IS NULL)" json:"character_id"`
	PlanetID    *uint `gorm:"uniqueIndex:idx_favourites_user_planet" json:"planet_id"`

	User      *User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Character *Character `gorm:"foreignKey:CharacterID;constraint:OnDelete:CASCADE" json:"-"`
	Planet    *Planet    `gorm:"foreignKey:PlanetID;constraint:OnDelete:CASCADE" json:"-"`
}

// NewFavourite builds the association between userID and a target.
func NewFavourite(userID uint, kind FavouriteKind, targetID uint) *Favourite {
	fav := &Favourite{UserID: userID}
	id := targetID
	switch kind {
	case FavouriteCharacter:
		fav.CharacterID = &id
	case FavouritePlanet:
		fav.PlanetID = &id
	}
	return fav
}

// Kind reports which kind of entity the favourite points at.
func (f *Favourite) Kind() FavouriteKind {
	if f.PlanetID != nil {
		return FavouritePlanet
	}
	return FavouriteCharacter
}

// TargetID returns the id of the referenced character or planet.
func (f *Favourite) TargetID() uint {
	switch {
	case f.CharacterID != nil:
		return *f.CharacterID
	case f.PlanetID != nil:
		return *f.PlanetID
	}
	return 0
}

// FavouriteEvent is pushed to a user's websocket when a favourite changes.
type FavouriteEvent struct {
	Type      string     `json:"type"`
	Favourite *Favourite `json:"favourite"`
	Timestamp string     `json:"timestamp"`
}
