package analysisclient

import "github.com/shopspring/decimal"

type HoldingPayload struct {
	Ticker   string `json:"ticker"`
	Quantity int    `json:"quantity"`
}

// FactorRegressionRequest is the body sent to the engine. Dates are
// YYYY-MM-DD.
type FactorRegressionRequest struct {
	Holdings  []HoldingPayload `json:"holdings"`
	StartDate string           `json:"startDate"`
	EndDate   string           `json:"endDate"`
}

type FactorRegressionResponse struct {
	Alpha    decimal.Decimal            `json:"alpha"`
	BetaMkt  decimal.Decimal            `json:"betaMkt"`
	BetaSmb  decimal.Decimal            `json:"betaSmb"`
	BetaHml  decimal.Decimal            `json:"betaHml"`
	BetaRmw  decimal.Decimal            `json:"betaRmw"`
	BetaCma  decimal.Decimal            `json:"betaCma"`
	RSquared decimal.Decimal            `json:"rSquared"`
	TStats   map[string]decimal.Decimal `json:"tStats"`
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}
