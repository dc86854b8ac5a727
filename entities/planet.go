package entities

type Planet struct {
	ID             uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name           string `gorm:"type:varchar(120);uniqueIndex;not null" json:"name"`
	Climate        string `gorm:"type:varchar(120)" json:"climate"`
	Population     string `gorm:"type:varchar(120)" json:"population"`
	OrbitalPeriod  string `gorm:"type:varchar(120)" json:"orbital_period"`
	RotationPeriod string `gorm:"type:varchar(120)" json:"rotation_period"`
	Diameter       string `gorm:"type:varchar(120)" json:"diameter"`
}

// PlanetFields lists the writable planet fields in serialization order.
var PlanetFields = []string{"name", "climate", "population", "orbital_period", "rotation_period", "diameter"}

// Apply sets one field by its serialized name.
func (p *Planet) Apply(field, value string) bool {
	switch field {
	case "name":
		p.Name = value
	case "climate":
		p.Climate = value
	case "population":
		p.Population = value
	case "orbital_period":
		p.OrbitalPeriod = value
	case "rotation_period":
		p.RotationPeriod = value
	case "diameter":
		p.Diameter = value
	default:
		return false
	}
	return true
}
