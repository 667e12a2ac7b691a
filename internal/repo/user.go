package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/ozhegov/product-api/internal/models"
)

func (r *GormRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateUser inserts the user unless the username is already taken.
func (r *GormRepo) CreateUser(ctx context.Context, u *models.User) error {
	tx := r.DB.WithContext(ctx).Where("username = ?", u.Username).FirstOrCreate(u)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrUserExists
	}
	return nil
}

func (r *GormRepo) FindByRefreshToken(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, ErrUnknownRefreshToken
	}
	var user models.User
	if err := r.DB.WithContext(ctx).Where("refresh_token = ?", token).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnknownRefreshToken
		}
		return nil, err
	}
	return &user, nil
}

// SetRefreshToken overwrites the user's stored refresh token. The prior
// value stops matching any future refresh lookup.
func (r *GormRepo) SetRefreshToken(ctx context.Context, userID uint, token string, expiry time.Time) error {
	return r.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"refresh_token":        token,
			"refresh_token_expiry": expiry,
		}).Error
}

// RotateRefreshToken swaps old for new only if old is still the stored
// value. Of two concurrent refresh calls presenting the same token,
// exactly one wins; the loser gets ErrUnknownRefreshToken.
func (r *GormRepo) RotateRefreshToken(ctx context.Context, userID uint, old, new string, expiry time.Time) error {
	tx := r.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND refresh_token = ?", userID, old).
		Updates(map[string]any{
			"refresh_token":        new,
			"refresh_token_expiry": expiry,
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrUnknownRefreshToken
	}
	return nil
}
