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

// --- DTOs ---

type ProductRequest struct {
	HSCode      string `json:"hs_code" binding:"required,max=10"`
	Name        string `json:"name" binding:"required,max=255"`
	ProductType string `json:"product_type" binding:"max=100"`
	Brand       string `json:"brand" binding:"max=100"`
	Model       string `json:"model" binding:"max=100"`
}

// --- Interface ---

type ProductService interface {
	Create(ctx context.Context, req ProductRequest) (*model.Product, error)
	Update(ctx context.Context, id int64, req ProductRequest) (*model.Product, error)
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*model.Product, error)
	GetByHSCode(ctx context.Context, hsCode string) (*model.Product, error)
	ExistsByHSCode(ctx context.Context, hsCode string) (bool, error)
	List(ctx context.Context, page, limit int, search string) ([]model.Product, int64, error)
}

type productService struct {
	repo repository.ProductRepository
}

func NewProductService(repo repository.ProductRepository) ProductService {
	return &productService{repo: repo}
}

// --- Implementation ---

func (s *productService) Create(ctx context.Context, req ProductRequest) (*model.Product, error) {
	product := &model.Product{
		HSCode:      strings.TrimSpace(req.HSCode),
		Name:        strings.TrimSpace(req.Name),
		ProductType: req.ProductType,
		Brand:       req.Brand,
		Model:       req.Model,
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return product, nil
}

func (s *productService) Update(ctx context.Context, id int64, req ProductRequest) (*model.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product not found")
		}
		return nil, fmt.Errorf("failed to fetch product: %w", err)
	}

	product.HSCode = strings.TrimSpace(req.HSCode)
	product.Name = strings.TrimSpace(req.Name)
	product.ProductType = req.ProductType
	product.Brand = req.Brand
	product.Model = req.Model

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return product, nil
}

func (s *productService) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("product not found")
		}
		return fmt.Errorf("failed to fetch product: %w", err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return nil
}

func (s *productService) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product not found")
		}
		return nil, fmt.Errorf("failed to fetch product: %w", err)
	}
	return product, nil
}

func (s *productService) GetByHSCode(ctx context.Context, hsCode string) (*model.Product, error) {
	product, err := s.repo.FindByHSCode(ctx, strings.TrimSpace(hsCode))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product not found for HS code: %s", hsCode)
		}
		return nil, fmt.Errorf("failed to fetch product: %w", err)
	}
	return product, nil
}

func (s *productService) ExistsByHSCode(ctx context.Context, hsCode string) (bool, error) {
	exists, err := s.repo.ExistsByHSCode(ctx, strings.TrimSpace(hsCode))
	if err != nil {
		return false, fmt.Errorf("failed to check HS code: %w", err)
	}
	return exists, nil
}

func (s *productService) List(ctx context.Context, page, limit int, search string) ([]model.Product, int64, error) {
	products, total, err := s.repo.List(ctx, page, limit, search)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	return products, total, nil
}
