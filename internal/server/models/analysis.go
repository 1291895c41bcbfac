package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AnalysisResult is one persisted factor regression run. Results are never
// updated.
type AnalysisResult struct {
	ID           string
	UserID       string
	AnalysisDate time.Time

	Alpha   decimal.Decimal
	BetaMkt decimal.Decimal
	BetaSmb decimal.Decimal
	BetaHml decimal.Decimal
	BetaRmw decimal.Decimal
	BetaCma decimal.Decimal

	RSquared decimal.Decimal

	// TStats is only set on the result returned by the run that produced it;
	// it is not stored.
	TStats map[string]decimal.Decimal
}
