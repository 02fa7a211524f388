package service

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"tariff-backend/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// --- DTOs ---

// CsvRow is one parsed data line of a bulk calculation upload:
// productId,originCountry,destCountry,quantity,customsValue
type CsvRow struct {
	LineNumber          int
	ProductID           int64
	OriginCountry       string
	DestCountry         string
	Quantity            int
	CustomsValuePerUnit decimal.Decimal
}

// RowResult carries the outcome of one batch row. Failures are scoped to the
// row: ErrorMessage is set and Success is false, the batch keeps going.
type RowResult struct {
	LineNumber          int             `json:"lineNumber"`
	ProductID           int64           `json:"productId"`
	ProductName         string          `json:"productName,omitempty"`
	HSCode              string          `json:"hsCode,omitempty"`
	OriginCountry       string          `json:"originCountry"`
	DestCountry         string          `json:"destCountry"`
	Quantity            int             `json:"quantity"`
	CustomsValuePerUnit decimal.Decimal `json:"customsValuePerUnit"`
	CustomsValueTotal   decimal.Decimal `json:"customsValueTotal"`
	RuleType            string          `json:"ruleType,omitempty"`
	RateValue           decimal.Decimal `json:"rateValue"`
	RateUnit            string          `json:"rateUnit,omitempty"`
	TariffAmount        decimal.Decimal `json:"tariffAmount"`
	TotalWithTariff     decimal.Decimal `json:"totalWithTariff"`
	Success             bool            `json:"success"`
	ErrorMessage        string          `json:"errorMessage,omitempty"`
}

type BatchSummary struct {
	TotalCustomsValue decimal.Decimal `json:"totalCustomsValue"`
	TotalTariff       decimal.Decimal `json:"totalTariff"`
	GrandTotal        decimal.Decimal `json:"grandTotal"`
}

type BatchResult struct {
	ItemCount              int          `json:"itemCount"`
	SuccessfulCalculations int          `json:"successfulCalculations"`
	FailedCalculations     int          `json:"failedCalculations"`
	Summary                BatchSummary `json:"summary"`
	Calculations           []RowResult  `json:"calculations"`
}

// --- Interface ---

type CsvService interface {
	// CalculateFromCsv parses the upload and runs a duty calculation per row.
	// A malformed file fails as a whole with *ParseError; once parsed, row
	// failures are isolated and reported inside the result.
	CalculateFromCsv(ctx context.Context, r io.Reader) (BatchResult, error)
}

type csvService struct {
	products repository.ProductRepository
	rules    TariffRuleService
	clock    Clock
}

func NewCsvService(products repository.ProductRepository, rules TariffRuleService, clock Clock) CsvService {
	return &csvService{products: products, rules: rules, clock: clock}
}

// --- Implementation ---

func (s *csvService) CalculateFromCsv(ctx context.Context, r io.Reader) (BatchResult, error) {
	rows, err := parseRows(r)
	if err != nil {
		return BatchResult{}, err
	}

	results := s.processBatch(ctx, rows)

	summary := BatchSummary{
		TotalCustomsValue: decimal.Zero,
		TotalTariff:       decimal.Zero,
		GrandTotal:        decimal.Zero,
	}
	successful := 0
	for _, res := range results {
		if !res.Success {
			continue
		}
		successful++
		summary.TotalCustomsValue = summary.TotalCustomsValue.Add(res.CustomsValueTotal)
		summary.TotalTariff = summary.TotalTariff.Add(res.TariffAmount)
		summary.GrandTotal = summary.GrandTotal.Add(res.TotalWithTariff)
	}
	summary.TotalCustomsValue = summary.TotalCustomsValue.Round(2)
	summary.TotalTariff = summary.TotalTariff.Round(2)
	summary.GrandTotal = summary.GrandTotal.Round(2)

	return BatchResult{
		ItemCount:              len(results),
		SuccessfulCalculations: successful,
		FailedCalculations:     len(results) - successful,
		Summary:                summary,
		Calculations:           results,
	}, nil
}

// parseRows reads productId,originCountry,destCountry,quantity,customsValue
// lines. The first line is a header and is skipped, blank lines are skipped.
// Any malformed line aborts the parse with a *ParseError naming the line.
func parseRows(r io.Reader) ([]CsvRow, error) {
	var rows []CsvRow

	scanner := bufio.NewScanner(r)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := scanner.Text()

		// header
		if lineNumber == 1 {
			continue
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		parts := strings.Split(line, ",")
		if len(parts) < 5 {
			return nil, &ParseError{Line: lineNumber, Reason: "expected format: productId,originCountry,destCountry,quantity,customsValue"}
		}

		productID, err := strconv.ParseInt(strings.TrimSpace(parts[0]), 10, 64)
		if err != nil {
			return nil, &ParseError{Line: lineNumber, Reason: "invalid product id: " + strings.TrimSpace(parts[0])}
		}

		origin := strings.ToUpper(strings.TrimSpace(parts[1]))
		dest := strings.ToUpper(strings.TrimSpace(parts[2]))
		if len(origin) != 2 || len(dest) != 2 {
			return nil, &ParseError{Line: lineNumber, Reason: "country codes must be 2-letter ISO codes"}
		}

		quantity, err := strconv.Atoi(strings.TrimSpace(parts[3]))
		if err != nil {
			return nil, &ParseError{Line: lineNumber, Reason: "invalid quantity: " + strings.TrimSpace(parts[3])}
		}
		if quantity <= 0 {
			return nil, &ParseError{Line: lineNumber, Reason: "quantity must be positive"}
		}

		customsValue, err := decimal.NewFromString(strings.TrimSpace(parts[4]))
		if err != nil {
			return nil, &ParseError{Line: lineNumber, Reason: "invalid customs value: " + strings.TrimSpace(parts[4])}
		}
		if customsValue.LessThanOrEqual(decimal.Zero) {
			return nil, &ParseError{Line: lineNumber, Reason: "customs value must be positive"}
		}

		rows = append(rows, CsvRow{
			LineNumber:          lineNumber,
			ProductID:           productID,
			OriginCountry:       origin,
			DestCountry:         dest,
			Quantity:            quantity,
			CustomsValuePerUnit: customsValue,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read csv input: %w", err)
	}

	if len(rows) == 0 {
		return nil, &ParseError{Reason: "file contains no data rows"}
	}

	return rows, nil
}

// processBatch resolves and calculates each row independently against today's
// date. Results come back in input order; a failed row never stops the rest.
func (s *csvService) processBatch(ctx context.Context, rows []CsvRow) []RowResult {
	today := s.clock.Today()

	results := make([]RowResult, 0, len(rows))
	for _, row := range rows {
		result := RowResult{
			LineNumber:          row.LineNumber,
			ProductID:           row.ProductID,
			OriginCountry:       row.OriginCountry,
			DestCountry:         row.DestCountry,
			Quantity:            row.Quantity,
			CustomsValuePerUnit: row.CustomsValuePerUnit,
		}

		product, err := s.products.FindByID(ctx, row.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				result.ErrorMessage = fmt.Sprintf("product not found with ID: %d", row.ProductID)
			} else {
				result.ErrorMessage = "product lookup failed: " + err.Error()
			}
			results = append(results, result)
			continue
		}
		result.ProductName = product.Name
		result.HSCode = product.HSCode

		result.CustomsValueTotal = row.CustomsValuePerUnit.
			Mul(decimal.NewFromInt(int64(row.Quantity))).
			Round(2)

		rules, err := s.rules.FindApplicable(ctx, row.OriginCountry, row.DestCountry, product.HSCode, &today)
		if err != nil {
			result.ErrorMessage = "rule lookup failed: " + err.Error()
			results = append(results, result)
			continue
		}
		if len(rules) == 0 {
			result.ErrorMessage = fmt.Sprintf("no tariff rule found for %s → %s (HS: %s) on %s",
				row.OriginCountry, row.DestCountry, product.HSCode, today.Format("2006-01-02"))
			results = append(results, result)
			continue
		}

		rule := rules[0]
		result.RuleType = string(rule.Type)
		result.RateValue = rule.Rate
		result.RateUnit = string(rule.Unit)

		tariff, err := ComputeDuty(rule.Type, rule.Rate, result.CustomsValueTotal, row.Quantity)
		if err != nil {
			result.ErrorMessage = "calculation error: " + err.Error()
			results = append(results, result)
			continue
		}

		result.TariffAmount = tariff
		result.TotalWithTariff = result.CustomsValueTotal.Add(tariff)
		result.Success = true
		results = append(results, result)
	}

	return results
}
