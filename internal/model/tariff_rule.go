package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// RuleType selects the duty formula for a tariff rule.
// Persisted as lowercase strings: 'ad_valorem' | 'specific' | 'compound'.
type RuleType string

const (
	RuleTypeAdValorem RuleType = "ad_valorem"
	RuleTypeSpecific  RuleType = "specific"
	RuleTypeCompound  RuleType = "compound"
)

// ParseRuleType maps a wire/database string onto a RuleType.
// Unknown values are rejected, never defaulted.
func ParseRuleType(s string) (RuleType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ad_valorem":
		return RuleTypeAdValorem, nil
	case "specific":
		return RuleTypeSpecific, nil
	case "compound":
		return RuleTypeCompound, nil
	default:
		return "", fmt.Errorf("unknown rule type: %q", s)
	}
}

// RateUnit qualifies how a rule's rate value is interpreted.
// Persisted exactly as the uppercase strings below.
type RateUnit string

const (
	UnitPercent        RateUnit = "PERCENT"
	UnitUSDPerUnit     RateUnit = "USD_PER_UNIT"
	UnitSGDPerUnit     RateUnit = "SGD_PER_UNIT"
	UnitPercentPlusUSD RateUnit = "PERCENT+USD_PER_UNIT"
	UnitPercentPlusSGD RateUnit = "PERCENT+SGD_PER_UNIT"
)

// ParseRateUnit maps a wire/database string onto a RateUnit.
// "%" is accepted as an alias for PERCENT; anything else unknown is rejected.
func ParseRateUnit(s string) (RateUnit, error) {
	v := strings.ToUpper(strings.TrimSpace(s))
	if v == "%" {
		v = "PERCENT"
	}
	switch v {
	case "PERCENT":
		return UnitPercent, nil
	case "USD_PER_UNIT":
		return UnitUSDPerUnit, nil
	case "SGD_PER_UNIT":
		return UnitSGDPerUnit, nil
	case "PERCENT+USD_PER_UNIT":
		return UnitPercentPlusUSD, nil
	case "PERCENT+SGD_PER_UNIT":
		return UnitPercentPlusSGD, nil
	default:
		return "", fmt.Errorf("unknown rate unit: %q", s)
	}
}

// TariffRule is an import-duty rule scoped to an origin/destination pair and
// HS code, valid over a date window. Rules are created once and never mutated;
// the ID is creation-ordered so it doubles as the resolver tie-breaker.
type TariffRule struct {
	ID            int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	OriginCountry string          `gorm:"column:origin_iso2;type:varchar(2);not null;index" json:"origin"`
	DestCountry   string          `gorm:"column:dest_iso2;type:varchar(2);not null;index" json:"dest"`
	HSCode        string          `gorm:"column:hs_code;type:varchar(10);not null;index" json:"hs"`
	Type          RuleType        `gorm:"column:rule_type;type:varchar(20);not null" json:"type"`
	Rate          decimal.Decimal `gorm:"column:rate_value;type:decimal(12,6);not null" json:"rate"`
	Unit          RateUnit        `gorm:"column:rate_unit;type:varchar(50);not null" json:"unit"`
	ValidFrom     time.Time       `gorm:"type:date;not null;index" json:"valid_from"`
	ValidTo       *time.Time      `gorm:"type:date;index" json:"valid_to"` // nil = valid indefinitely
	Description   string          `gorm:"type:text" json:"description"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func (TariffRule) TableName() string {
	return "tariff_rules"
}

// IsApplicableOn reports whether the rule's validity window contains d.
// Both bounds are inclusive; a nil ValidTo means open-ended.
func (r *TariffRule) IsApplicableOn(d time.Time) bool {
	if d.Before(r.ValidFrom) {
		return false
	}
	return r.ValidTo == nil || !d.After(*r.ValidTo)
}
