package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// StockPrice records every live quote fetched from the market data API.
type StockPrice struct {
	gorm.Model
	Symbol    string          `gorm:"size:16;index" json:"symbol"`
	Price     decimal.Decimal `gorm:"type:numeric(15,2)" json:"price"`
	Timestamp time.Time       `json:"timestamp"`
}
