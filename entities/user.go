package entities

// User is an account that can collect favourites. Password holds a bcrypt
// hash and is never serialized.
type User struct {
	ID       uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Email    string `gorm:"type:varchar(120);uniqueIndex;not null" json:"email"`
	Password string `gorm:"type:varchar(80);not null" json:"-"`
	IsActive bool   `gorm:"not null;default:false" json:"is_active"`
}

// UserRequiredFields are the fields a new user must supply.
var UserRequiredFields = []string{"email", "password"}
