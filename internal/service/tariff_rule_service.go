package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"tariff-backend/internal/model"
	"tariff-backend/internal/repository"

	"github.com/shopspring/decimal"
)

// --- DTOs ---

type CreateTariffRuleRequest struct {
	Origin      string `json:"origin" binding:"required,len=2"`
	Dest        string `json:"dest" binding:"required,len=2"`
	HS          string `json:"hs" binding:"required,max=10"`
	Type        string `json:"type" binding:"required,oneof=ad_valorem specific compound"`
	Rate        string `json:"rate" binding:"required"` // decimal string, meaning depends on type
	Unit        string `json:"unit" binding:"required,max=50"`
	ValidFrom   string `json:"valid_from" binding:"required"` // YYYY-MM-DD
	ValidTo     string `json:"valid_to"`                      // YYYY-MM-DD, empty = open-ended
	Description string `json:"description" binding:"max=500"`
}

type TariffRuleResponse struct {
	ID          int64   `json:"id"`
	Origin      string  `json:"origin"`
	Dest        string  `json:"dest"`
	HS          string  `json:"hs"`
	Type        string  `json:"type"` // ad_valorem | specific | compound
	Rate        string  `json:"rate"`
	Unit        string  `json:"unit"` // PERCENT | *_PER_UNIT | PERCENT+*_PER_UNIT
	ValidFrom   string  `json:"valid_from"`
	ValidTo     *string `json:"valid_to"`
	Description string  `json:"description,omitempty"`
}

// --- Interface ---

type TariffRuleService interface {
	Create(ctx context.Context, req CreateTariffRuleRequest) (TariffRuleResponse, error)
	// FindApplicable returns the rules matching the non-empty filters and
	// valid on onDate (nil = today), most recent first.
	FindApplicable(ctx context.Context, origin, dest, hs string, onDate *time.Time) ([]model.TariffRule, error)
	List(ctx context.Context, page, limit int) ([]model.TariffRule, int64, error)
}

type tariffRuleService struct {
	repo  repository.TariffRuleRepository
	txMgr repository.TransactionManager
	clock Clock
}

func NewTariffRuleService(repo repository.TariffRuleRepository, txMgr repository.TransactionManager, clock Clock) TariffRuleService {
	return &tariffRuleService{repo: repo, txMgr: txMgr, clock: clock}
}

// --- Implementation ---

func (s *tariffRuleService) Create(ctx context.Context, req CreateTariffRuleRequest) (TariffRuleResponse, error) {
	ruleType, err := model.ParseRuleType(req.Type)
	if err != nil {
		return TariffRuleResponse{}, err
	}
	unit, err := model.ParseRateUnit(req.Unit)
	if err != nil {
		return TariffRuleResponse{}, err
	}

	// Cross-field invariant: unit must be coherent with the rule type.
	// Checked here once; nothing downstream re-validates.
	if err := ValidateTypeUnit(ruleType, unit); err != nil {
		return TariffRuleResponse{}, err
	}

	rate, err := decimal.NewFromString(req.Rate)
	if err != nil {
		return TariffRuleResponse{}, fmt.Errorf("invalid rate value: %w", err)
	}
	if rate.IsNegative() {
		return TariffRuleResponse{}, fmt.Errorf("rate must not be negative")
	}

	validFrom, validTo, err := parseValidityWindow(req.ValidFrom, req.ValidTo)
	if err != nil {
		return TariffRuleResponse{}, err
	}

	rule := model.TariffRule{
		OriginCountry: strings.ToUpper(strings.TrimSpace(req.Origin)),
		DestCountry:   strings.ToUpper(strings.TrimSpace(req.Dest)),
		HSCode:        strings.TrimSpace(req.HS),
		Type:          ruleType,
		Rate:          rate,
		Unit:          unit,
		ValidFrom:     validFrom,
		ValidTo:       validTo,
		Description:   req.Description,
	}

	err = s.txMgr.RunInTx(ctx, func(txCtx context.Context) error {
		return s.repo.Create(txCtx, &rule)
	})
	if err != nil {
		return TariffRuleResponse{}, fmt.Errorf("failed to create tariff rule: %w", err)
	}

	return ToTariffRuleResponse(rule), nil
}

func (s *tariffRuleService) FindApplicable(ctx context.Context, origin, dest, hs string, onDate *time.Time) ([]model.TariffRule, error) {
	effectiveDate := s.clock.Today()
	if onDate != nil {
		effectiveDate = *onDate
	}

	rules, err := s.repo.FindApplicable(ctx,
		strings.ToUpper(strings.TrimSpace(origin)),
		strings.ToUpper(strings.TrimSpace(dest)),
		strings.TrimSpace(hs),
		effectiveDate,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query applicable tariff rules: %w", err)
	}

	// The repository already orders the result set; re-sort so the contract
	// holds for any store implementation.
	sortApplicable(rules)
	return rules, nil
}

func (s *tariffRuleService) List(ctx context.Context, page, limit int) ([]model.TariffRule, int64, error) {
	rules, total, err := s.repo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tariff rules: %w", err)
	}
	return rules, total, nil
}

// --- Helpers ---

// ValidateTypeUnit enforces type↔unit coherence:
// ad_valorem ⇒ PERCENT; specific ⇒ USD_PER_UNIT or SGD_PER_UNIT;
// compound ⇒ PERCENT+USD_PER_UNIT or PERCENT+SGD_PER_UNIT.
func ValidateTypeUnit(t model.RuleType, u model.RateUnit) error {
	ok := false
	switch t {
	case model.RuleTypeAdValorem:
		ok = u == model.UnitPercent
	case model.RuleTypeSpecific:
		ok = u == model.UnitUSDPerUnit || u == model.UnitSGDPerUnit
	case model.RuleTypeCompound:
		ok = u == model.UnitPercentPlusUSD || u == model.UnitPercentPlusSGD
	}
	if !ok {
		return &CoherenceError{Type: t, Unit: u}
	}
	return nil
}

// sortApplicable orders rules valid_from DESC, then id DESC, so ties on
// valid_from resolve to the more recently created rule.
func sortApplicable(rules []model.TariffRule) {
	sort.SliceStable(rules, func(i, j int) bool {
		if !rules[i].ValidFrom.Equal(rules[j].ValidFrom) {
			return rules[i].ValidFrom.After(rules[j].ValidFrom)
		}
		return rules[i].ID > rules[j].ID
	})
}

func parseValidityWindow(fromStr, toStr string) (time.Time, *time.Time, error) {
	validFrom, err := time.Parse("2006-01-02", fromStr)
	if err != nil {
		return time.Time{}, nil, fmt.Errorf("invalid valid_from date format (expected YYYY-MM-DD): %w", err)
	}

	var validTo *time.Time
	if toStr != "" {
		t, err := time.Parse("2006-01-02", toStr)
		if err != nil {
			return time.Time{}, nil, fmt.Errorf("invalid valid_to date format (expected YYYY-MM-DD): %w", err)
		}
		if t.Before(validFrom) {
			return time.Time{}, nil, fmt.Errorf("valid_to must not precede valid_from")
		}
		validTo = &t
	}

	return validFrom, validTo, nil
}

func ToTariffRuleResponse(r model.TariffRule) TariffRuleResponse {
	resp := TariffRuleResponse{
		ID:          r.ID,
		Origin:      r.OriginCountry,
		Dest:        r.DestCountry,
		HS:          r.HSCode,
		Type:        string(r.Type),
		Rate:        r.Rate.String(),
		Unit:        string(r.Unit),
		ValidFrom:   r.ValidFrom.Format("2006-01-02"),
		Description: r.Description,
	}
	if r.ValidTo != nil {
		s := r.ValidTo.Format("2006-01-02")
		resp.ValidTo = &s
	}
	return resp
}
