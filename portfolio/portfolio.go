// Package portfolio values a user's holdings at live market prices.
package portfolio

import (
	"context"

	"stock-simulator/ledger"
	"stock-simulator/quotes"

	"github.com/shopspring/decimal"
)

// Line is one priced position in the portfolio view.
type Line struct {
	Stock     string          `json:"stock"`
	Shares    int64           `json:"shares"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Total     decimal.Decimal `json:"total"`
}

// Valuation is the full portfolio view: one line per quotable holding,
// the cash balance, and a grand total of lines plus cash. Symbols whose
// live quote could not be fetched are listed in Warnings and contribute
// nothing to the total.
type Valuation struct {
	Lines      []Line          `json:"lines"`
	Cash       decimal.Decimal `json:"cash"`
	GrandTotal decimal.Decimal `json:"grand_total"`
	Warnings   []string        `json:"warnings,omitempty"`
}

type Valuer struct {
	ledger *ledger.Service
	quotes quotes.Source
}

func NewValuer(svc *ledger.Service, src quotes.Source) *Valuer {
	return &Valuer{ledger: svc, quotes: src}
}

// Value prices every active holding. A failed lookup skips that symbol
// rather than failing the whole valuation.
func (v *Valuer) Value(ctx context.Context, userID uint) (*Valuation, error) {
	holdings, err := v.ledger.Holdings(ctx, userID)
	if err != nil {
		return nil, err
	}
	cash, err := v.ledger.Cash(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := &Valuation{
		Lines: make([]Line, 0, len(holdings)),
		Cash:  cash,
	}

	total := decimal.Zero
	for _, h := range holdings {
		if h.Shares <= 0 {
			continue
		}
		quote, err := v.quotes.Lookup(ctx, h.Stock)
		if err != nil {
			result.Warnings = append(result.Warnings, h.Stock)
			continue
		}
		lineTotal := quote.Price.Mul(decimal.NewFromInt(h.Shares)).Round(2)
		result.Lines = append(result.Lines, Line{
			Stock:     h.Stock,
			Shares:    h.Shares,
			UnitPrice: quote.Price,
			Total:     lineTotal,
		})
		total = total.Add(lineTotal)
	}

	result.GrandTotal = total.Add(cash)
	return result, nil
}
