package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Transaction is one executed trade. Shares is signed: positive for a buy,
// negative for a sell. Total is always the unsigned trade value. Rows are
// append-only; corrections happen via new offsetting rows.
type Transaction struct {
	gorm.Model
	UserID    uint            `gorm:"index" json:"user_id"`
	Stock     string          `gorm:"size:16;index" json:"stock"`
	Shares    int64           `json:"shares"`
	UnitPrice decimal.Decimal `gorm:"type:numeric(15,2)" json:"unit_price"`
	Total     decimal.Decimal `gorm:"type:numeric(15,2)" json:"total"`
}

// Holding is the derived net position for one symbol. It is never stored;
// it is the result of summing signed share counts over the ledger.
type Holding struct {
	Stock  string `json:"stock"`
	Shares int64  `json:"shares"`
}
