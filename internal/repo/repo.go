package repo

import (
	"errors"

	"gorm.io/gorm"
)

type GormRepo struct {
	DB *gorm.DB
}

var ErrUserExists = errors.New("username already exists")
var ErrUnknownRefreshToken = errors.New("refresh token not found")
