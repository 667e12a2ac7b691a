package models

import (
	"time"
)

// User is the identity record. The bcrypt hash and the current refresh
// token never leave the process through JSON.
type User struct {
	ID                 uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	Username           string     `gorm:"unique;not null"          json:"username"`
	PasswordHash       string     `gorm:"not null"                 json:"-"`
	FirstName          string     `json:"firstName"`
	LastName           string     `json:"lastName"`
	Email              string     `json:"email"`
	Role               string     `gorm:"not null"                 json:"role"`
	RefreshToken       *string    `gorm:"index"                    json:"-"`
	RefreshTokenExpiry *time.Time `json:"-"`
}

type Product struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"not null"                 json:"name"`
	Description string    `json:"description"`
	Price       float64   `gorm:"not null"                 json:"price"`
	Stock       int       `json:"stock"`
	CreatedAt   time.Time `gorm:"autoCreateTime"           json:"createdAt"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"           json:"updatedAt"`
}
