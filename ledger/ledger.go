// Package ledger owns the per-user cash balance and the append-only trade
// ledger. Every mutation runs as one serializable database transaction so
// the balance and the ledger can never drift apart.
package ledger

import (
	"context"
	"database/sql"
	"errors"

	"stock-simulator/models"
	"stock-simulator/quotes"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Service struct {
	db     *gorm.DB
	quotes quotes.Source
}

func NewService(db *gorm.DB, src quotes.Source) *Service {
	return &Service{db: db, quotes: src}
}

var serializable = &sql.TxOptions{Isolation: sql.LevelSerializable}

// Deposit adds amount to the user's cash balance.
func (s *Service) Deposit(ctx context.Context, userID uint, amount decimal.Decimal) error {
	if amount.Sign() <= 0 {
		return ErrInvalidAmount
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.User{}).
			Where("id = ?", userID).
			Update("cash", gorm.Expr("cash + ?", amount.Round(2)))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	}, serializable)
}

// Buy purchases shares of symbol at the current market price. The funds
// check is a guarded UPDATE inside the same transaction as the ledger
// append, so a concurrent buy cannot spend the same cash twice.
func (s *Service) Buy(ctx context.Context, userID uint, symbol string, shares int64) (*models.Transaction, error) {
	if shares <= 0 {
		return nil, ErrInvalidShareCount
	}

	quote, err := s.quotes.Lookup(ctx, symbol)
	if err != nil {
		return nil, ErrUnknownSymbol
	}
	cost := quote.Price.Mul(decimal.NewFromInt(shares)).Round(2)

	entry := models.Transaction{
		UserID:    userID,
		Stock:     quote.Symbol,
		Shares:    shares,
		UnitPrice: quote.Price,
		Total:     cost,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.User{}).
			Where("id = ? AND cash >= ?", userID, cost).
			Update("cash", gorm.Expr("cash - ?", cost))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var user models.User
			if err := tx.First(&user, userID).Error; err != nil {
				return err
			}
			return ErrInsufficientFunds
		}
		return tx.Create(&entry).Error
	}, serializable)
	if err != nil {
		return nil, err
	}

	return &entry, nil
}

// Sell disposes of shares of symbol at the current market price. The net
// holding is re-derived from the ledger inside the transaction, so a
// concurrent sell cannot dispose of the same shares twice.
func (s *Service) Sell(ctx context.Context, userID uint, symbol string, shares int64) (*models.Transaction, error) {
	if shares <= 0 {
		return nil, ErrInvalidShareCount
	}

	quote, err := s.quotes.Lookup(ctx, symbol)
	if err != nil {
		return nil, ErrUnknownSymbol
	}
	proceeds := quote.Price.Mul(decimal.NewFromInt(shares)).Round(2)

	entry := models.Transaction{
		UserID:    userID,
		Stock:     quote.Symbol,
		Shares:    -shares,
		UnitPrice: quote.Price,
		Total:     proceeds,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		owned, err := netShares(tx, userID, quote.Symbol)
		if err != nil {
			return err
		}
		if owned <= 0 {
			return ErrNoHolding
		}
		if shares > owned {
			return ErrInsufficientShares
		}

		res := tx.Model(&models.User{}).
			Where("id = ?", userID).
			Update("cash", gorm.Expr("cash + ?", proceeds))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Create(&entry).Error
	}, serializable)
	if err != nil {
		return nil, err
	}

	return &entry, nil
}

// History returns every transaction for the user, oldest first.
func (s *Service) History(ctx context.Context, userID uint) ([]models.Transaction, error) {
	var history []models.Transaction
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&history).Error
	return history, err
}

// Holdings returns the user's net position per symbol, computed from the
// ledger. Symbols whose position has returned to zero are filtered out.
func (s *Service) Holdings(ctx context.Context, userID uint) ([]models.Holding, error) {
	var holdings []models.Holding
	err := s.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Select("stock, SUM(shares) AS shares").
		Where("user_id = ?", userID).
		Group("stock").
		Having("SUM(shares) <> 0").
		Order("stock ASC").
		Scan(&holdings).Error
	return holdings, err
}

// Cash returns the user's current balance.
func (s *Service) Cash(ctx context.Context, userID uint) (decimal.Decimal, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		return decimal.Zero, err
	}
	return user.Cash, nil
}

func netShares(tx *gorm.DB, userID uint, symbol string) (int64, error) {
	var owned sql.NullInt64
	err := tx.Model(&models.Transaction{}).
		Select("SUM(shares)").
		Where("user_id = ? AND stock = ?", userID, symbol).
		Scan(&owned).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, err
	}
	return owned.Int64, nil
}
