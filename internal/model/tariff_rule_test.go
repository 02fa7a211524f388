package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func datePtr(s string) *time.Time {
	t := date(s)
	return &t
}

func TestParseRuleType(t *testing.T) {
	tests := []struct {
		input   string
		want    RuleType
		wantErr bool
	}{
		{input: "ad_valorem", want: RuleTypeAdValorem},
		{input: "specific", want: RuleTypeSpecific},
		{input: "compound", want: RuleTypeCompound},
		{input: "  AD_VALOREM  ", want: RuleTypeAdValorem},
		{input: "Specific", want: RuleTypeSpecific},
		{input: "", wantErr: true},
		{input: "advalorem", wantErr: true},
		{input: "mixed", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseRuleType(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "unknown rule type")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseRateUnit(t *testing.T) {
	tests := []struct {
		input   string
		want    RateUnit
		wantErr bool
	}{
		{input: "PERCENT", want: UnitPercent},
		{input: "%", want: UnitPercent},
		{input: "usd_per_unit", want: UnitUSDPerUnit},
		{input: "SGD_PER_UNIT", want: UnitSGDPerUnit},
		{input: "PERCENT+USD_PER_UNIT", want: UnitPercentPlusUSD},
		{input: "percent+sgd_per_unit", want: UnitPercentPlusSGD},
		{input: "", wantErr: true},
		{input: "EUR_PER_UNIT", wantErr: true},
		{input: "PERCENT_USD_PER_UNIT", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseRateUnit(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "unknown rate unit")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTariffRule_IsApplicableOn(t *testing.T) {
	tests := []struct {
		name      string
		validFrom string
		validTo   *time.Time
		on        string
		want      bool
	}{
		{name: "inside window", validFrom: "2025-01-01", validTo: datePtr("2025-12-31"), on: "2025-06-15", want: true},
		{name: "on lower bound", validFrom: "2025-01-01", validTo: datePtr("2025-12-31"), on: "2025-01-01", want: true},
		{name: "on upper bound", validFrom: "2025-01-01", validTo: datePtr("2025-12-31"), on: "2025-12-31", want: true},
		{name: "before window", validFrom: "2025-01-01", validTo: datePtr("2025-12-31"), on: "2024-12-31", want: false},
		{name: "after window", validFrom: "2025-01-01", validTo: datePtr("2025-12-31"), on: "2026-01-01", want: false},
		{name: "open-ended far future", validFrom: "2025-01-01", validTo: nil, on: "2099-01-01", want: true},
		{name: "open-ended before start", validFrom: "2025-01-01", validTo: nil, on: "2024-06-01", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule := TariffRule{ValidFrom: date(tt.validFrom), ValidTo: tt.validTo}
			assert.Equal(t, tt.want, rule.IsApplicableOn(date(tt.on)))
		})
	}
}
