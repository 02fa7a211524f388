package service

import (
	"fmt"
	"time"

	"tariff-backend/internal/model"
)

// CoherenceError reports a tariff rule whose unit is incompatible with its
// type. Raised at creation time only; rules in the store are assumed coherent.
type CoherenceError struct {
	Type model.RuleType
	Unit model.RateUnit
}

func (e *CoherenceError) Error() string {
	switch e.Type {
	case model.RuleTypeAdValorem:
		return fmt.Sprintf("ad_valorem rules must use unit = PERCENT, got %s", e.Unit)
	case model.RuleTypeSpecific:
		return fmt.Sprintf("specific rules must use unit = USD_PER_UNIT or SGD_PER_UNIT, got %s", e.Unit)
	case model.RuleTypeCompound:
		return fmt.Sprintf("compound rules must use unit = PERCENT+USD_PER_UNIT or PERCENT+SGD_PER_UNIT, got %s", e.Unit)
	default:
		return fmt.Sprintf("incompatible rule type %q and unit %q", e.Type, e.Unit)
	}
}

// NoApplicableRuleError reports that no tariff rule matched a single
// calculation's lookup parameters. User-correctable input, not retried.
type NoApplicableRuleError struct {
	Origin string
	Dest   string
	HSCode string
	On     time.Time
}

func (e *NoApplicableRuleError) Error() string {
	return fmt.Sprintf("no applicable tariff rule found for %s → %s (HS: %s) on %s",
		e.Origin, e.Dest, e.HSCode, e.On.Format("2006-01-02"))
}

// ParseError reports malformed bulk input. It aborts the whole batch; per-row
// calculation failures are captured in RowResult instead.
type ParseError struct {
	Line   int
	Reason string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("csv parse error at line %d: %s", e.Line, e.Reason)
	}
	return "csv parse error: " + e.Reason
}

// UnsupportedRuleTypeError indicates a rule with a type the calculator cannot
// dispatch on. It means an incoherent rule reached the store, so it is treated
// as a data-integrity fault rather than silently defaulted.
type UnsupportedRuleTypeError struct {
	Type model.RuleType
}

func (e *UnsupportedRuleTypeError) Error() string {
	return fmt.Sprintf("unsupported rule type: %q", string(e.Type))
}
