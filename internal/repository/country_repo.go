package repository

import (
	"context"

	"tariff-backend/internal/model"

	"gorm.io/gorm"
)

type CountryRepository interface {
	Create(ctx context.Context, country *model.Country) error
	Update(ctx context.Context, country *model.Country) error
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*model.Country, error)
	FindByISO2(ctx context.Context, iso2 string) (*model.Country, error)
	List(ctx context.Context) ([]model.Country, error)
}

type countryRepository struct {
	db *gorm.DB
}

func NewCountryRepository(db *gorm.DB) CountryRepository {
	return &countryRepository{db: db}
}

func (r *countryRepository) Create(ctx context.Context, country *model.Country) error {
	return GetDB(ctx, r.db).Create(country).Error
}

func (r *countryRepository) Update(ctx context.Context, country *model.Country) error {
	return GetDB(ctx, r.db).Save(country).Error
}

func (r *countryRepository) Delete(ctx context.Context, id int64) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Country{}).Error
}

func (r *countryRepository) FindByID(ctx context.Context, id int64) (*model.Country, error) {
	var country model.Country
	if err := GetDB(ctx, r.db).First(&country, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &country, nil
}

func (r *countryRepository) FindByISO2(ctx context.Context, iso2 string) (*model.Country, error) {
	var country model.Country
	if err := GetDB(ctx, r.db).Where("iso2 = ?", iso2).First(&country).Error; err != nil {
		return nil, err
	}
	return &country, nil
}

func (r *countryRepository) List(ctx context.Context) ([]model.Country, error) {
	var countries []model.Country
	if err := GetDB(ctx, r.db).Order("iso2 asc").Find(&countries).Error; err != nil {
		return nil, err
	}
	return countries, nil
}
