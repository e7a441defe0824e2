package models

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

type InvestmentType string

const (
	InvestmentStock      InvestmentType = "stock"
	InvestmentBond       InvestmentType = "bond"
	InvestmentFund       InvestmentType = "fund"
	InvestmentCrypto     InvestmentType = "crypto"
	InvestmentRealEstate InvestmentType = "real_estate"
	InvestmentOther      InvestmentType = "other"
)

func (t InvestmentType) Valid() bool {
	switch t {
	case InvestmentStock, InvestmentBond, InvestmentFund, InvestmentCrypto, InvestmentRealEstate, InvestmentOther:
		return true
	}
	return false
}

type Investment struct {
	ID            int             `json:"id" db:"id"`
	UserID        int             `json:"user_id" db:"user_id"`
	Name          string          `json:"name" db:"name"`
	Type          InvestmentType  `json:"type" db:"type"`
	Quantity      decimal.Decimal `json:"quantity" db:"quantity"`
	PurchasePrice decimal.Decimal `json:"purchase_price" db:"purchase_price"`
	CurrentPrice  decimal.Decimal `json:"current_price" db:"current_price"`
	PurchaseDate  Date            `json:"purchase_date" db:"purchase_date"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at" db:"updated_at"`
}

func (i *Investment) CostBasis() decimal.Decimal {
	return i.PurchasePrice.Mul(i.Quantity)
}

func (i *Investment) MarketValue() decimal.Decimal {
	return i.CurrentPrice.Mul(i.Quantity)
}

func (i *Investment) Gain() decimal.Decimal {
	return i.MarketValue().Sub(i.CostBasis())
}

// GainPercent is the gain relative to the cost basis, rounded to two places.
func (i *Investment) GainPercent() decimal.Decimal {
	basis := i.CostBasis()
	if basis.IsZero() {
		return decimal.Zero
	}
	return i.Gain().Div(basis).Mul(decimal.NewFromInt(100)).Round(2)
}

// InvestmentView is the response shape of an investment with its derived values.
type InvestmentView struct {
	Investment
	MarketValue decimal.Decimal `json:"market_value"`
	Gain        decimal.Decimal `json:"gain"`
	GainPercent decimal.Decimal `json:"gain_percent"`
}

func NewInvestmentView(i Investment) InvestmentView {
	return InvestmentView{
		Investment:  i,
		MarketValue: i.MarketValue(),
		Gain:        i.Gain(),
		GainPercent: i.GainPercent(),
	}
}

type PortfolioSummary struct {
	Count       int             `json:"count"`
	CostBasis   decimal.Decimal `json:"cost_basis"`
	MarketValue decimal.Decimal `json:"market_value"`
	Gain        decimal.Decimal `json:"gain"`
	GainPercent decimal.Decimal `json:"gain_percent"`
}

// SummarizePortfolio totals a set of investments.
func SummarizePortfolio(items []Investment) PortfolioSummary {
	s := PortfolioSummary{Count: len(items)}
	for i := range items {
		s.CostBasis = s.CostBasis.Add(items[i].CostBasis())
		s.MarketValue = s.MarketValue.Add(items[i].MarketValue())
	}
	s.Gain = s.MarketValue.Sub(s.CostBasis)
	if !s.CostBasis.IsZero() {
		s.GainPercent = s.Gain.Div(s.CostBasis).Mul(decimal.NewFromInt(100)).Round(2)
	}
	return s
}

type InvestmentInput struct {
	Name          *string          `json:"name"`
	Type          *InvestmentType  `json:"type"`
	Quantity      *decimal.Decimal `json:"quantity"`
	PurchasePrice *decimal.Decimal `json:"purchase_price"`
	CurrentPrice  *decimal.Decimal `json:"current_price"`
	PurchaseDate  *Date            `json:"purchase_date"`
}

func (in *InvestmentInput) validateFields() error {
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return required("name")
		}
		if utf8.RuneCountInString(name) > 100 {
			return invalid("name", "must be at most 100 characters")
		}
	}
	if in.Type != nil && !in.Type.Valid() {
		return invalid("type", "must be one of stock, bond, fund, crypto, real_estate, other")
	}
	if in.Quantity != nil && !in.Quantity.IsPositive() {
		return invalid("quantity", "must be greater than zero")
	}
	if in.PurchasePrice != nil && (in.PurchasePrice.IsNegative() || in.PurchasePrice.GreaterThan(MaxAmount)) {
		return invalid("purchase_price", "must be between 0 and %s", MaxAmount)
	}
	if in.CurrentPrice != nil && (in.CurrentPrice.IsNegative() || in.CurrentPrice.GreaterThan(MaxAmount)) {
		return invalid("current_price", "must be between 0 and %s", MaxAmount)
	}
	if in.PurchaseDate != nil && in.PurchaseDate.IsZero() {
		return required("purchase_date")
	}
	return nil
}

func (in *InvestmentInput) ValidateCreate() error {
	switch {
	case in.Name == nil:
		return required("name")
	case in.Type == nil:
		return required("type")
	case in.PurchasePrice == nil:
		return required("purchase_price")
	case in.PurchaseDate == nil:
		return required("purchase_date")
	}
	return in.validateFields()
}

func (in *InvestmentInput) ValidateUpdate() error {
	return in.validateFields()
}

// NewInvestment builds a row from a validated create request. Quantity
// defaults to one and the current price to the purchase price.
func (in *InvestmentInput) NewInvestment(userID int) Investment {
	i := Investment{UserID: userID, Quantity: decimal.NewFromInt(1)}
	in.Apply(&i)
	if in.CurrentPrice == nil {
		i.CurrentPrice = i.PurchasePrice
	}
	return i
}

func (in *InvestmentInput) Apply(i *Investment) {
	if in.Name != nil {
		i.Name = strings.TrimSpace(*in.Name)
	}
	if in.Type != nil {
		i.Type = *in.Type
	}
	if in.Quantity != nil {
		i.Quantity = *in.Quantity
	}
	if in.PurchasePrice != nil {
		i.PurchasePrice = *in.PurchasePrice
	}
	if in.CurrentPrice != nil {
		i.CurrentPrice = *in.CurrentPrice
	}
	if in.PurchaseDate != nil {
		i.PurchaseDate = *in.PurchaseDate
	}
}
