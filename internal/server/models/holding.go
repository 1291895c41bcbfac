package models

import "github.com/shopspring/decimal"

// Holding is a position in a single ticker. A user holds a given ticker at
// most once.
type Holding struct {
	ID       string
	UserID   string
	Ticker   string
	Quantity decimal.Decimal
}
