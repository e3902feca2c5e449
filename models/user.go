package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Username     string          `gorm:"size:64;uniqueIndex;not null" json:"username"`
	PasswordHash string          `gorm:"size:255;not null" json:"-"`
	Cash         decimal.Decimal `gorm:"type:numeric(15,2);not null;default:10000.00" json:"cash"`
}
