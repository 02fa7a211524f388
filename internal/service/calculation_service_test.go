package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"tariff-backend/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubRuleService returns a fixed rule list without touching a store.
type stubRuleService struct {
	rules  []model.TariffRule
	err    error
	called bool
}

func (s *stubRuleService) Create(context.Context, CreateTariffRuleRequest) (TariffRuleResponse, error) {
	return TariffRuleResponse{}, errors.New("not implemented")
}

func (s *stubRuleService) FindApplicable(_ context.Context, _, _, _ string, _ *time.Time) ([]model.TariffRule, error) {
	s.called = true
	return s.rules, s.err
}

func (s *stubRuleService) List(context.Context, int, int) ([]model.TariffRule, int64, error) {
	return nil, 0, errors.New("not implemented")
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestComputeDuty(t *testing.T) {
	tests := []struct {
		name         string
		ruleType     model.RuleType
		rate         string
		customsTotal string
		quantity     int
		want         string
	}{
		{
			name:         "ad valorem 5 percent of 1000",
			ruleType:     model.RuleTypeAdValorem,
			rate:         "5.0",
			customsTotal: "1000.00",
			quantity:     10,
			want:         "50.00",
		},
		{
			name:         "specific 2.50 per unit for 20 units ignores customs value",
			ruleType:     model.RuleTypeSpecific,
			rate:         "2.50",
			customsTotal: "999999.99",
			quantity:     20,
			want:         "50.00",
		},
		{
			name:         "compound percent part only, fixed part not persisted",
			ruleType:     model.RuleTypeCompound,
			rate:         "3.0",
			customsTotal: "200.00",
			quantity:     4,
			want:         "6.00",
		},
		{
			name:         "ad valorem intermediate rounds half-up at 6 places",
			ruleType:     model.RuleTypeAdValorem,
			rate:         "1.2345675",
			customsTotal: "100.00",
			quantity:     1,
			want:         "1.23",
		},
		{
			name:         "ad valorem final rounds half-up at 2 places",
			ruleType:     model.RuleTypeAdValorem,
			rate:         "1.255",
			customsTotal: "100.00",
			quantity:     1,
			want:         "1.26",
		},
		{
			name:         "zero rate yields zero duty",
			ruleType:     model.RuleTypeAdValorem,
			rate:         "0",
			customsTotal: "1000.00",
			quantity:     3,
			want:         "0.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeDuty(tt.ruleType, dec(tt.rate), dec(tt.customsTotal), tt.quantity)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.StringFixed(2))
		})
	}
}

func TestComputeDuty_UnsupportedType(t *testing.T) {
	_, err := ComputeDuty(model.RuleType("mixed"), dec("5"), dec("100"), 1)

	var unsupported *UnsupportedRuleTypeError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, model.RuleType("mixed"), unsupported.Type)
}

func TestComputeDuty_RoundingIdempotent(t *testing.T) {
	duty, err := ComputeDuty(model.RuleTypeAdValorem, dec("7.5"), dec("133.33"), 1)
	require.NoError(t, err)
	assert.True(t, duty.Equal(duty.Round(2)), "rounding an already-rounded value must not change it")
}

func TestCalculationService_Calculate(t *testing.T) {
	clock := FixedClock(date("2025-09-17"))

	t.Run("ad valorem end to end", func(t *testing.T) {
		stub := &stubRuleService{rules: []model.TariffRule{{
			ID:   1,
			Type: model.RuleTypeAdValorem,
			Rate: dec("5.0"),
			Unit: model.UnitPercent,
		}}}
		svc := NewCalculationService(stub, clock)

		resp, err := svc.Calculate(context.Background(), CalculationRequest{
			Origin:       "SG",
			Dest:         "US",
			HS:           "8517.12",
			On:           "2025-09-17",
			CustomsValue: "100.00",
			Quantity:     10,
		})
		require.NoError(t, err)

		assert.Equal(t, "50.00", resp.BaseDuty)
		assert.Equal(t, "0.00", resp.IndirectTax)
		assert.Equal(t, "1050.00", resp.Total)
		assert.Equal(t, "ad_valorem (PERCENT)", resp.RuleApplied)
	})

	t.Run("total equals customs total plus duty plus indirect tax", func(t *testing.T) {
		stub := &stubRuleService{rules: []model.TariffRule{{
			Type: model.RuleTypeSpecific,
			Rate: dec("2.50"),
			Unit: model.UnitUSDPerUnit,
		}}}
		svc := NewCalculationService(stub, clock)

		resp, err := svc.Calculate(context.Background(), CalculationRequest{
			Origin:       "SG",
			Dest:         "US",
			HS:           "8517.12",
			CustomsValue: "13.37",
			Quantity:     20,
		})
		require.NoError(t, err)

		customsTotal := dec("13.37").Mul(dec("20")).Round(2)
		assert.Equal(t, "50.00", resp.BaseDuty)
		assert.Equal(t, customsTotal.Add(dec("50.00")).StringFixed(2), resp.Total)
	})

	t.Run("no applicable rule names the lookup parameters", func(t *testing.T) {
		stub := &stubRuleService{}
		svc := NewCalculationService(stub, clock)

		_, err := svc.Calculate(context.Background(), CalculationRequest{
			Origin:       "ZZ",
			Dest:         "US",
			HS:           "8517.12",
			On:           "2025-09-17",
			CustomsValue: "100.00",
			Quantity:     1,
		})

		var noRule *NoApplicableRuleError
		require.ErrorAs(t, err, &noRule)
		assert.Contains(t, err.Error(), "ZZ")
		assert.Contains(t, err.Error(), "US")
		assert.Contains(t, err.Error(), "8517.12")
		assert.Contains(t, err.Error(), "2025-09-17")
	})

	t.Run("omitted date defaults to clock today", func(t *testing.T) {
		stub := &stubRuleService{}
		svc := NewCalculationService(stub, clock)

		_, err := svc.Calculate(context.Background(), CalculationRequest{
			Origin:       "ZZ",
			Dest:         "US",
			HS:           "0101",
			CustomsValue: "1.00",
			Quantity:     1,
		})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "2025-09-17")
	})

	t.Run("simulation bypasses the rule store", func(t *testing.T) {
		stub := &stubRuleService{}
		svc := NewCalculationService(stub, clock)

		resp, err := svc.Calculate(context.Background(), CalculationRequest{
			Origin:       "SG",
			Dest:         "US",
			HS:           "8517.12",
			CustomsValue: "100.00",
			Quantity:     10,
			Simulation:   &SimulationDetails{TaxType: "AD_VALOREM", TaxRate: 5},
		})
		require.NoError(t, err)

		assert.False(t, stub.called, "simulation must not query the rule store")
		assert.Equal(t, "50.00", resp.BaseDuty)
		assert.Equal(t, "ad_valorem (PERCENT)", resp.RuleApplied)
	})

	t.Run("specific simulation infers USD_PER_UNIT", func(t *testing.T) {
		svc := NewCalculationService(&stubRuleService{}, clock)

		resp, err := svc.Calculate(context.Background(), CalculationRequest{
			Origin:       "SG",
			Dest:         "US",
			HS:           "8517.12",
			CustomsValue: "100.00",
			Quantity:     20,
			Simulation:   &SimulationDetails{TaxType: "SPECIFIC", TaxRate: 2.5},
		})
		require.NoError(t, err)

		assert.Equal(t, "50.00", resp.BaseDuty)
		assert.Equal(t, "specific (USD_PER_UNIT)", resp.RuleApplied)
	})

	t.Run("invalid customs value rejected", func(t *testing.T) {
		svc := NewCalculationService(&stubRuleService{}, clock)

		_, err := svc.Calculate(context.Background(), CalculationRequest{
			Origin:       "SG",
			Dest:         "US",
			HS:           "8517.12",
			CustomsValue: "abc",
			Quantity:     1,
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid customs value")
	})

	t.Run("negative customs value rejected", func(t *testing.T) {
		svc := NewCalculationService(&stubRuleService{}, clock)

		_, err := svc.Calculate(context.Background(), CalculationRequest{
			Origin:       "SG",
			Dest:         "US",
			HS:           "8517.12",
			CustomsValue: "-10.00",
			Quantity:     1,
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "customs value must not be negative")
	})
}
