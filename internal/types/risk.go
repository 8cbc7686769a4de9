package types

import "time"

// RiskTier is derived from budget and duration on every read and write;
// it is never persisted.
type RiskTier string

const (
	RiskLow    RiskTier = "LOW"
	RiskMedium RiskTier = "MEDIUM"
	RiskHigh   RiskTier = "HIGH"
)

const (
	lowRiskBudgetCeiling  = 100000
	highRiskBudgetFloor   = 500000
	lowRiskMonthsCeiling  = 3
	highRiskMonthsCeiling = 6
)

// ClassifyRisk maps a project's budget and projected duration to a tier.
// LOW requires both conditions; HIGH triggers on either; everything in
// between is MEDIUM. Boundaries are inclusive on the LOW side.
func ClassifyRisk(budget float64, start, projectedEnd time.Time) RiskTier {
	months := MonthsBetween(start, projectedEnd)

	if budget <= lowRiskBudgetCeiling && months <= lowRiskMonthsCeiling {
		return RiskLow
	}
	if budget > highRiskBudgetFloor || months > highRiskMonthsCeiling {
		return RiskHigh
	}
	return RiskMedium
}

// MonthsBetween returns the whole-month difference between two dates,
// truncating partial months: 2 months and 20 days counts as 2.
func MonthsBetween(start, end time.Time) int {
	months := (end.Year()-start.Year())*12 + int(end.Month()) - int(start.Month())
	if end.Day() < start.Day() {
		months--
	}
	return months
}
