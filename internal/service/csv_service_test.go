package service

import (
	"context"
	"strings"
	"testing"

	"tariff-backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// --- fakes ---

type fakeProductRepo struct {
	products map[int64]model.Product
}

func (f *fakeProductRepo) Create(_ context.Context, p *model.Product) error {
	f.products[p.ID] = *p
	return nil
}

func (f *fakeProductRepo) Update(_ context.Context, p *model.Product) error {
	f.products[p.ID] = *p
	return nil
}

func (f *fakeProductRepo) Delete(_ context.Context, id int64) error {
	delete(f.products, id)
	return nil
}

func (f *fakeProductRepo) FindByID(_ context.Context, id int64) (*model.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &p, nil
}

func (f *fakeProductRepo) FindByHSCode(_ context.Context, hsCode string) (*model.Product, error) {
	for _, p := range f.products {
		if p.HSCode == hsCode {
			return &p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeProductRepo) ExistsByHSCode(ctx context.Context, hsCode string) (bool, error) {
	_, err := f.FindByHSCode(ctx, hsCode)
	return err == nil, nil
}

func (f *fakeProductRepo) List(_ context.Context, _, _ int, _ string) ([]model.Product, int64, error) {
	out := make([]model.Product, 0, len(f.products))
	for _, p := range f.products {
		out = append(out, p)
	}
	return out, int64(len(out)), nil
}

func newTestCsvService(products map[int64]model.Product, rules []model.TariffRule) CsvService {
	clock := FixedClock(date("2025-09-17"))
	ruleRepo := &fakeRuleRepo{rules: rules}
	ruleService := NewTariffRuleService(ruleRepo, fakeTxManager{}, clock)
	return NewCsvService(&fakeProductRepo{products: products}, ruleService, clock)
}

// --- parse tests ---

func TestParseRows(t *testing.T) {
	t.Run("skips header and blank lines", func(t *testing.T) {
		input := "productId,originCountry,destCountry,quantity,customsValue\n" +
			"1,cn,us,100,500.00\n" +
			"\n" +
			"2,SG,US,50,1200.00\n"

		rows, err := parseRows(strings.NewReader(input))
		require.NoError(t, err)
		require.Len(t, rows, 2)

		assert.Equal(t, 2, rows[0].LineNumber)
		assert.Equal(t, int64(1), rows[0].ProductID)
		assert.Equal(t, "CN", rows[0].OriginCountry)
		assert.Equal(t, "US", rows[0].DestCountry)
		assert.Equal(t, 100, rows[0].Quantity)
		assert.Equal(t, "500", rows[0].CustomsValuePerUnit.String())

		assert.Equal(t, 4, rows[1].LineNumber, "blank line still counts toward line numbers")
	})

	tests := []struct {
		name     string
		row      string
		wantLine int
		wantMsg  string
	}{
		{name: "too few columns", row: "1,CN,US,100", wantLine: 2, wantMsg: "expected format"},
		{name: "bad product id", row: "abc,CN,US,100,500.00", wantLine: 2, wantMsg: "invalid product id"},
		{name: "bad country code", row: "1,CHN,US,100,500.00", wantLine: 2, wantMsg: "2-letter ISO codes"},
		{name: "bad quantity", row: "1,CN,US,ten,500.00", wantLine: 2, wantMsg: "invalid quantity"},
		{name: "zero quantity", row: "1,CN,US,0,500.00", wantLine: 2, wantMsg: "quantity must be positive"},
		{name: "bad customs value", row: "1,CN,US,100,oops", wantLine: 2, wantMsg: "invalid customs value"},
		{name: "zero customs value", row: "1,CN,US,100,0", wantLine: 2, wantMsg: "customs value must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := "productId,originCountry,destCountry,quantity,customsValue\n" + tt.row + "\n"

			_, err := parseRows(strings.NewReader(input))

			var parseErr *ParseError
			require.ErrorAs(t, err, &parseErr)
			assert.Equal(t, tt.wantLine, parseErr.Line)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}

	t.Run("malformed line aborts whole parse", func(t *testing.T) {
		input := "header\n" +
			"1,CN,US,100,500.00\n" +
			"2,CN,US,-5,500.00\n" +
			"3,CN,US,10,500.00\n"

		_, err := parseRows(strings.NewReader(input))

		var parseErr *ParseError
		require.ErrorAs(t, err, &parseErr)
		assert.Equal(t, 3, parseErr.Line)
	})

	t.Run("header only is an error", func(t *testing.T) {
		_, err := parseRows(strings.NewReader("productId,originCountry,destCountry,quantity,customsValue\n"))

		var parseErr *ParseError
		require.ErrorAs(t, err, &parseErr)
		assert.Contains(t, err.Error(), "no data rows")
	})
}

// --- batch tests ---

func TestCalculateFromCsv(t *testing.T) {
	products := map[int64]model.Product{
		1: {ID: 1, HSCode: "8517.12", Name: "Smartphone"},
		3: {ID: 3, HSCode: "8471.30", Name: "Laptop"},
	}
	rules := []model.TariffRule{
		{ID: 1, OriginCountry: "CN", DestCountry: "US", HSCode: "8517.12", Type: model.RuleTypeAdValorem, Rate: dec("5.0"), Unit: model.UnitPercent, ValidFrom: date("2025-01-01")},
		{ID: 2, OriginCountry: "CN", DestCountry: "US", HSCode: "8471.30", Type: model.RuleTypeSpecific, Rate: dec("2.50"), Unit: model.UnitUSDPerUnit, ValidFrom: date("2025-01-01")},
	}

	t.Run("isolates missing product to its row", func(t *testing.T) {
		svc := newTestCsvService(products, rules)

		input := "productId,originCountry,destCountry,quantity,customsValue\n" +
			"1,CN,US,10,100.00\n" + // ad valorem: total 1000.00, duty 50.00
			"2,CN,US,5,100.00\n" + // product 2 does not exist
			"3,CN,US,20,40.00\n" // specific: total 800.00, duty 50.00

		result, err := svc.CalculateFromCsv(context.Background(), strings.NewReader(input))
		require.NoError(t, err)

		assert.Equal(t, 3, result.ItemCount)
		assert.Equal(t, 2, result.SuccessfulCalculations)
		assert.Equal(t, 1, result.FailedCalculations)
		require.Len(t, result.Calculations, 3)

		first := result.Calculations[0]
		assert.True(t, first.Success)
		assert.Equal(t, "Smartphone", first.ProductName)
		assert.Equal(t, "8517.12", first.HSCode)
		assert.Equal(t, "ad_valorem", first.RuleType)
		assert.Equal(t, "1000.00", first.CustomsValueTotal.StringFixed(2))
		assert.Equal(t, "50.00", first.TariffAmount.StringFixed(2))
		assert.Equal(t, "1050.00", first.TotalWithTariff.StringFixed(2))

		second := result.Calculations[1]
		assert.False(t, second.Success)
		assert.Contains(t, second.ErrorMessage, "product not found with ID: 2")

		third := result.Calculations[2]
		assert.True(t, third.Success)
		assert.Equal(t, "specific", third.RuleType)
		assert.Equal(t, "50.00", third.TariffAmount.StringFixed(2))

		// Summary covers successful rows only.
		assert.Equal(t, "1800.00", result.Summary.TotalCustomsValue.StringFixed(2))
		assert.Equal(t, "100.00", result.Summary.TotalTariff.StringFixed(2))
		assert.Equal(t, "1900.00", result.Summary.GrandTotal.StringFixed(2))
	})

	t.Run("row without applicable rule fails with lookup details", func(t *testing.T) {
		svc := newTestCsvService(products, rules)

		input := "header\n1,SG,US,10,100.00\n"

		result, err := svc.CalculateFromCsv(context.Background(), strings.NewReader(input))
		require.NoError(t, err)

		require.Len(t, result.Calculations, 1)
		row := result.Calculations[0]
		assert.False(t, row.Success)
		assert.Contains(t, row.ErrorMessage, "no tariff rule found")
		assert.Contains(t, row.ErrorMessage, "SG")
		assert.Contains(t, row.ErrorMessage, "8517.12")
		assert.Contains(t, row.ErrorMessage, "2025-09-17")

		assert.Equal(t, 0, result.SuccessfulCalculations)
		assert.Equal(t, "0.00", result.Summary.GrandTotal.StringFixed(2))
	})

	t.Run("summary matches re-running each successful row", func(t *testing.T) {
		svc := newTestCsvService(products, rules)

		input := "header\n" +
			"1,CN,US,3,19.99\n" +
			"3,CN,US,7,33.33\n"

		result, err := svc.CalculateFromCsv(context.Background(), strings.NewReader(input))
		require.NoError(t, err)
		require.Equal(t, 2, result.SuccessfulCalculations)

		sum := result.Calculations[0].TotalWithTariff.Add(result.Calculations[1].TotalWithTariff)
		assert.True(t, sum.Round(2).Equal(result.Summary.GrandTotal))
	})

	t.Run("parse failure aborts the batch entirely", func(t *testing.T) {
		svc := newTestCsvService(products, rules)

		input := "header\n1,CN,US,10,100.00\nbogus line\n"

		_, err := svc.CalculateFromCsv(context.Background(), strings.NewReader(input))

		var parseErr *ParseError
		require.ErrorAs(t, err, &parseErr)
		assert.Equal(t, 3, parseErr.Line)
	})
}
