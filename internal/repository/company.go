package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"esgboard/internal/models"
)

// CompanyRecord bundles a company's profile, sites and products.
type CompanyRecord struct {
	Company  models.Company
	Sites    []models.Site
	Products []models.Product
}

func (r *Repository) GetCompany(ctx context.Context, userID uint) (*CompanyRecord, error) {
	db := r.db.WithContext(ctx)
	rec := &CompanyRecord{}
	err := db.Where("user_id = ?", userID).
		Attrs(models.Company{UserID: userID}).
		FirstOrInit(&rec.Company).Error
	if err != nil {
		return nil, err
	}
	if err := db.Where("user_id = ?", userID).Order("id").Find(&rec.Sites).Error; err != nil {
		return nil, err
	}
	if err := db.Where("user_id = ?", userID).Order("id").Find(&rec.Products).Error; err != nil {
		return nil, err
	}
	return rec, nil
}

// ReplaceCompany overwrites the profile and replaces all sites and products.
func (r *Repository) ReplaceCompany(ctx context.Context, userID uint, rec *CompanyRecord) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Company
		err := tx.Where("user_id = ?", userID).First(&existing).Error
		switch {
		case err == nil:
			rec.Company.ID = existing.ID
		case errors.Is(err, gorm.ErrRecordNotFound):
			rec.Company.ID = 0
		default:
			return err
		}
		rec.Company.UserID = userID
		if err := tx.Save(&rec.Company).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.User{}).Where("id = ?", userID).Update("company_name", rec.Company.CompanyName).Error; err != nil {
			return err
		}

		if err := tx.Where("user_id = ?", userID).Delete(&models.Site{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.Product{}).Error; err != nil {
			return err
		}
		for i := range rec.Sites {
			rec.Sites[i].ID = 0
			rec.Sites[i].UserID = userID
		}
		for i := range rec.Products {
			rec.Products[i].ID = 0
			rec.Products[i].UserID = userID
		}
		if len(rec.Sites) > 0 {
			if err := tx.Create(&rec.Sites).Error; err != nil {
				return err
			}
		}
		if len(rec.Products) > 0 {
			if err := tx.Create(&rec.Products).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
