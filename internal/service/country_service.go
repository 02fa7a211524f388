package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"tariff-backend/internal/model"
	"tariff-backend/internal/repository"

	"gorm.io/gorm"
)

type CountryRequest struct {
	ISO2 string `json:"iso2" binding:"required,len=2"`
	Name string `json:"name" binding:"required,max=255"`
}

type CountryService interface {
	Create(ctx context.Context, req CountryRequest) (*model.Country, error)
	Update(ctx context.Context, id int64, req CountryRequest) (*model.Country, error)
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*model.Country, error)
	GetByISO2(ctx context.Context, iso2 string) (*model.Country, error)
	List(ctx context.Context) ([]model.Country, error)
}

type countryService struct {
	repo repository.CountryRepository
}

func NewCountryService(repo repository.CountryRepository) CountryService {
	return &countryService{repo: repo}
}

func (s *countryService) Create(ctx context.Context, req CountryRequest) (*model.Country, error) {
	country := &model.Country{
		ISO2: strings.ToUpper(strings.TrimSpace(req.ISO2)),
		Name: strings.TrimSpace(req.Name),
	}
	if err := s.repo.Create(ctx, country); err != nil {
		return nil, fmt.Errorf("failed to create country: %w", err)
	}
	return country, nil
}

func (s *countryService) Update(ctx context.Context, id int64, req CountryRequest) (*model.Country, error) {
	country, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("country not found")
		}
		return nil, fmt.Errorf("failed to fetch country: %w", err)
	}

	country.ISO2 = strings.ToUpper(strings.TrimSpace(req.ISO2))
	country.Name = strings.TrimSpace(req.Name)

	if err := s.repo.Update(ctx, country); err != nil {
		return nil, fmt.Errorf("failed to update country: %w", err)
	}
	return country, nil
}

func (s *countryService) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("country not found")
		}
		return fmt.Errorf("failed to fetch country: %w", err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete country: %w", err)
	}
	return nil
}

func (s *countryService) GetByID(ctx context.Context, id int64) (*model.Country, error) {
	country, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("country not found")
		}
		return nil, fmt.Errorf("failed to fetch country: %w", err)
	}
	return country, nil
}

func (s *countryService) GetByISO2(ctx context.Context, iso2 string) (*model.Country, error) {
	country, err := s.repo.FindByISO2(ctx, strings.ToUpper(strings.TrimSpace(iso2)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("country not found with ISO2: %s", iso2)
		}
		return nil, fmt.Errorf("failed to fetch country: %w", err)
	}
	return country, nil
}

func (s *countryService) List(ctx context.Context) ([]model.Country, error) {
	countries, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list countries: %w", err)
	}
	return countries, nil
}
