package service

import (
	"context"
	"fmt"
	"time"

	"tariff-backend/internal/model"

	"github.com/shopspring/decimal"
)

// --- DTOs ---

// SimulationDetails lets a caller bypass the rule store and compute duty with
// an ad-hoc rate. Trusted input: the type/unit coherence check does not run
// on this path.
type SimulationDetails struct {
	TaxType string  `json:"taxType" binding:"required,oneof=AD_VALOREM SPECIFIC COMPOUND"`
	TaxRate float64 `json:"taxRate" binding:"min=0"`
}

type CalculationRequest struct {
	Origin       string             `json:"origin" binding:"required,len=2"`
	Dest         string             `json:"dest" binding:"required,len=2"`
	HS           string             `json:"hs" binding:"required,max=10"`
	On           string             `json:"on"`                            // YYYY-MM-DD, empty = today
	CustomsValue string             `json:"customsValue" binding:"required"` // per-unit customs value, decimal string
	Quantity     int                `json:"quantity" binding:"required,min=1"`
	Simulation   *SimulationDetails `json:"simulation"`
}

type CalculationResponse struct {
	BaseDuty    string `json:"baseDuty"`
	IndirectTax string `json:"indirectTax"` // reserved for GST/VAT, always 0 for now
	Total       string `json:"total"`
	RuleApplied string `json:"ruleApplied"` // e.g. "ad_valorem (PERCENT)"
}

// --- Interface ---

type CalculationService interface {
	Calculate(ctx context.Context, req CalculationRequest) (CalculationResponse, error)
}

type calculationService struct {
	rules TariffRuleService
	clock Clock
}

func NewCalculationService(rules TariffRuleService, clock Clock) CalculationService {
	return &calculationService{rules: rules, clock: clock}
}

// --- Implementation ---

func (s *calculationService) Calculate(ctx context.Context, req CalculationRequest) (CalculationResponse, error) {
	customsValue, err := decimal.NewFromString(req.CustomsValue)
	if err != nil {
		return CalculationResponse{}, fmt.Errorf("invalid customs value: %w", err)
	}
	if customsValue.IsNegative() {
		return CalculationResponse{}, fmt.Errorf("customs value must not be negative")
	}

	onDate := s.clock.Today()
	if req.On != "" {
		onDate, err = time.Parse("2006-01-02", req.On)
		if err != nil {
			return CalculationResponse{}, fmt.Errorf("invalid calculation date (expected YYYY-MM-DD): %w", err)
		}
	}

	rule, err := s.selectRule(ctx, req, onDate)
	if err != nil {
		return CalculationResponse{}, err
	}

	customsTotal := customsValue.Mul(decimal.NewFromInt(int64(req.Quantity))).Round(2)

	baseDuty, err := ComputeDuty(rule.Type, rule.Rate, customsTotal, req.Quantity)
	if err != nil {
		return CalculationResponse{}, err
	}

	indirectTax := decimal.Zero // placeholder for GST/VAT
	total := customsTotal.Add(baseDuty).Add(indirectTax)

	return CalculationResponse{
		BaseDuty:    baseDuty.StringFixed(2),
		IndirectTax: indirectTax.StringFixed(2),
		Total:       total.StringFixed(2),
		RuleApplied: fmt.Sprintf("%s (%s)", rule.Type, rule.Unit),
	}, nil
}

// selectRule either synthesizes an ephemeral rule from the simulation
// override or resolves the most recent applicable rule from the store.
func (s *calculationService) selectRule(ctx context.Context, req CalculationRequest, onDate time.Time) (model.TariffRule, error) {
	if req.Simulation != nil {
		ruleType, err := simulationRuleType(req.Simulation.TaxType)
		if err != nil {
			return model.TariffRule{}, err
		}
		unit := model.UnitPercent
		if ruleType == model.RuleTypeSpecific {
			unit = model.UnitUSDPerUnit
		}
		return model.TariffRule{
			Type: ruleType,
			Rate: decimal.NewFromFloat(req.Simulation.TaxRate),
			Unit: unit,
		}, nil
	}

	rules, err := s.rules.FindApplicable(ctx, req.Origin, req.Dest, req.HS, &onDate)
	if err != nil {
		return model.TariffRule{}, err
	}
	if len(rules) == 0 {
		return model.TariffRule{}, &NoApplicableRuleError{
			Origin: req.Origin,
			Dest:   req.Dest,
			HSCode: req.HS,
			On:     onDate,
		}
	}
	return rules[0], nil
}

func simulationRuleType(taxType string) (model.RuleType, error) {
	switch taxType {
	case "AD_VALOREM":
		return model.RuleTypeAdValorem, nil
	case "SPECIFIC":
		return model.RuleTypeSpecific, nil
	case "COMPOUND":
		return model.RuleTypeCompound, nil
	default:
		return "", fmt.Errorf("unknown simulation tax type: %q", taxType)
	}
}

// ComputeDuty applies the type-specific duty formula to a customs total that
// has already been rounded to 2 decimal places:
//
//	ad_valorem: customsTotal * rate / 100, half-up to 6 places
//	specific:   rate * quantity
//	compound:   percent part as ad_valorem + fixedPerUnit * quantity
//
// The result carries exactly 2 decimal places, rounded half-up.
func ComputeDuty(ruleType model.RuleType, rate, customsTotal decimal.Decimal, quantity int) (decimal.Decimal, error) {
	qty := decimal.NewFromInt(int64(quantity))

	var duty decimal.Decimal
	switch ruleType {
	case model.RuleTypeAdValorem:
		duty = customsTotal.Mul(rate).DivRound(decimal.NewFromInt(100), 6)
	case model.RuleTypeSpecific:
		duty = rate.Mul(qty)
	case model.RuleTypeCompound:
		percentPart := customsTotal.Mul(rate).DivRound(decimal.NewFromInt(100), 6)
		// The fixed per-unit component is not persisted on the rule yet, so
		// it contributes zero. Extend the schema before relying on it.
		fixedPerUnit := decimal.Zero
		duty = percentPart.Add(fixedPerUnit.Mul(qty))
	default:
		return decimal.Zero, &UnsupportedRuleTypeError{Type: ruleType}
	}

	return duty.Round(2), nil
}
