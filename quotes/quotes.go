// Package quotes looks up live market prices from the Alpha Vantage API,
// with a cache in front and an audit row recorded per live fetch.
package quotes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"stock-simulator/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ErrQuoteUnavailable covers every lookup failure: unknown symbol, network
// error, or an unparseable payload. Callers never see a partial quote.
var ErrQuoteUnavailable = errors.New("quote unavailable")

type Quote struct {
	Symbol string          `json:"symbol"`
	Price  decimal.Decimal `json:"price"`
}

// Source is the quote collaborator used by the ledger and valuation layers.
type Source interface {
	Lookup(ctx context.Context, symbol string) (*Quote, error)
}

type globalQuoteResponse struct {
	GlobalQuote struct {
		Symbol string `json:"01. symbol"`
		Price  string `json:"05. price"`
	} `json:"Global Quote"`
}

// Client fetches quotes from Alpha Vantage. A Cache, when set, is consulted
// first; on a miss the fetched price is cached and a StockPrice row is
// written for auditing. Cache and audit failures never fail the lookup.
type Client struct {
	APIKey   string
	BaseURL  string
	HTTP     *http.Client
	Cache    Cache
	CacheTTL time.Duration
	DB       *gorm.DB
}

func NewClient(apiKey string, cache Cache, ttl time.Duration, db *gorm.DB) *Client {
	return &Client{
		APIKey:   apiKey,
		BaseURL:  "https://www.alphavantage.co",
		HTTP:     &http.Client{Timeout: 10 * time.Second},
		Cache:    cache,
		CacheTTL: ttl,
		DB:       db,
	}
}

// Lookup returns the current price for symbol. The symbol is trimmed and
// upper-cased before use so "aapl" and "AAPL " hit the same cache key.
func (c *Client) Lookup(ctx context.Context, symbol string) (*Quote, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, ErrQuoteUnavailable
	}

	if c.Cache != nil {
		if cached, err := c.Cache.Get(ctx, symbol); err == nil {
			return &Quote{Symbol: symbol, Price: cached}, nil
		}
	}

	price, err := c.fetch(ctx, symbol)
	if err != nil {
		return nil, err
	}

	if c.Cache != nil {
		_ = c.Cache.Set(ctx, symbol, price, c.CacheTTL)
	}
	if c.DB != nil {
		entry := models.StockPrice{Symbol: symbol, Price: price, Timestamp: time.Now()}
		c.DB.WithContext(ctx).Create(&entry)
	}

	return &Quote{Symbol: symbol, Price: price}, nil
}

func (c *Client) fetch(ctx context.Context, symbol string) (decimal.Decimal, error) {
	url := fmt.Sprintf("%s/query?function=GLOBAL_QUOTE&symbol=%s&apikey=%s",
		c.BaseURL, symbol, c.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return decimal.Zero, ErrQuoteUnavailable
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return decimal.Zero, ErrQuoteUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, ErrQuoteUnavailable
	}

	var result globalQuoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return decimal.Zero, ErrQuoteUnavailable
	}
	if result.GlobalQuote.Price == "" {
		return decimal.Zero, ErrQuoteUnavailable
	}

	price, err := decimal.NewFromString(result.GlobalQuote.Price)
	if err != nil || price.Sign() <= 0 {
		return decimal.Zero, ErrQuoteUnavailable
	}

	return price.Round(2), nil
}
