package repository

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"esgboard/internal/models"
)

func (r *Repository) CreateUser(ctx context.Context, username, password, companyName string) (*models.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Username:    username,
		Password:    string(hashedPassword),
		CompanyName: companyName,
	}
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		return tx.Create(&models.Company{UserID: user.ID, CompanyName: companyName}).Error
	})
	return user, translate(err)
}

func (r *Repository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).First(&user, "username = ?", username).Error
	return &user, translate(err)
}

func (r *Repository) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	return &user, translate(err)
}

// ListUserIDs returns every account id, used by the scorer.
func (r *Repository) ListUserIDs(ctx context.Context) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.User{}).Order("id").Pluck("id", &ids).Error
	return ids, err
}

func (r *Repository) SaveRefreshToken(ctx context.Context, id string, userID uint, expiresAt time.Time) error {
	return r.db.WithContext(ctx).Create(&models.RefreshToken{ID: id, UserID: userID, ExpiresAt: expiresAt}).Error
}

// ConsumeRefreshToken revokes a live refresh token and reports its owner.
// A token can be consumed once; a second call returns ErrNotFound.
func (r *Repository) ConsumeRefreshToken(ctx context.Context, id string) (uint, error) {
	var userID uint
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var token models.RefreshToken
		if err := tx.First(&token, "id = ? AND revoked_at IS NULL", id).Error; err != nil {
			return err
		}
		if !token.ExpiresAt.After(time.Now()) {
			return gorm.ErrRecordNotFound
		}
		res := tx.Model(&models.RefreshToken{}).
			Where("id = ? AND revoked_at IS NULL", id).
			Update("revoked_at", time.Now())
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		userID = token.UserID
		return nil
	})
	return userID, translate(err)
}

// RevokeRefreshTokens revokes every live refresh token of a user.
func (r *Repository) RevokeRefreshTokens(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).Model(&models.RefreshToken{}).
		Where("user_id = ? AND revoked_at IS NULL", userID).
		Update("revoked_at", time.Now()).Error
}
