package entities

// Character is a person from the films, exposed under /people.
type Character struct {
	ID        uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string `gorm:"type:varchar(120);uniqueIndex;not null" json:"name"`
	Gender    string `gorm:"type:varchar(120)" json:"gender"`
	BirthYear string `gorm:"type:varchar(120)" json:"birth_year"`
	EyeColor  string `gorm:"type:varchar(120)" json:"eye_color"`
	SkinColor string `gorm:"type:varchar(120)" json:"skin_color"`
	Height    string `gorm:"type:varchar(120)" json:"height"`
}

// CharacterFields lists the writable character fields in serialization order.
var CharacterFields = []string{"name", "gender", "birth_year", "eye_color", "skin_color", "height"}

// Apply sets one field by its serialized name. It reports false for names
// that are not writable, including "id".
func (c *Character) Apply(field, value string) bool {
	switch field {
	case "name":
		c.Name = value
	case "gender":
		c.Gender = value
	case "birth_year":
		c.BirthYear = value
	case "eye_color":
		c.EyeColor = value
	case "skin_color":
		c.SkinColor = value
	case "height":
		c.Height = value
	default:
		return false
	}
	return true
}
