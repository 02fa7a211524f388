package repository

import (
	"context"
	"time"

	"tariff-backend/internal/model"

	"gorm.io/gorm"
)

type TariffRuleRepository interface {
	Create(ctx context.Context, rule *model.TariffRule) error
	FindByID(ctx context.Context, id int64) (*model.TariffRule, error)
	List(ctx context.Context, page, limit int) ([]model.TariffRule, int64, error)
	FindApplicable(ctx context.Context, origin, dest, hs string, onDate time.Time) ([]model.TariffRule, error)
}

type tariffRuleRepository struct {
	db *gorm.DB
}

func NewTariffRuleRepository(db *gorm.DB) TariffRuleRepository {
	return &tariffRuleRepository{db: db}
}

func (r *tariffRuleRepository) Create(ctx context.Context, rule *model.TariffRule) error {
	return GetDB(ctx, r.db).Create(rule).Error
}

func (r *tariffRuleRepository) FindByID(ctx context.Context, id int64) (*model.TariffRule, error) {
	var rule model.TariffRule
	if err := GetDB(ctx, r.db).First(&rule, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &rule, nil
}

func (r *tariffRuleRepository) List(ctx context.Context, page, limit int) ([]model.TariffRule, int64, error) {
	var rules []model.TariffRule
	var total int64

	db := GetDB(ctx, r.db).Model(&model.TariffRule{})
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Order("valid_from desc, id desc").Offset(offset).Limit(limit).Find(&rules).Error; err != nil {
		return nil, 0, err
	}

	return rules, total, nil
}

// FindApplicable returns the rules whose validity window contains onDate,
// filtered by origin/dest/hs where given (empty string matches any).
// Ordered valid_from DESC, id DESC so the head is the most recent rule.
func (r *tariffRuleRepository) FindApplicable(ctx context.Context, origin, dest, hs string, onDate time.Time) ([]model.TariffRule, error) {
	db := GetDB(ctx, r.db).
		Where("valid_from <= ? AND (valid_to IS NULL OR valid_to >= ?)", onDate, onDate)

	if origin != "" {
		db = db.Where("origin_iso2 = ?", origin)
	}
	if dest != "" {
		db = db.Where("dest_iso2 = ?", dest)
	}
	if hs != "" {
		db = db.Where("hs_code = ?", hs)
	}

	var rules []model.TariffRule
	if err := db.Order("valid_from DESC, id DESC").Find(&rules).Error; err != nil {
		return nil, err
	}
	return rules, nil
}
