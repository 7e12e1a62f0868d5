package core

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	Income  TransactionType = "income"
	Outcome TransactionType = "outcome"
)

type (
	TransactionType string

	Category struct {
		ID    string `json:"id"`
		Title string `json:"title"`
	}

	Transaction struct {
		ID         string          `json:"id"`
		Title      string          `json:"title"`
		Value      decimal.Decimal `json:"value"`
		CategoryID string          `json:"category_id"`
		Type       TransactionType `json:"type"`
		Category   Category        `json:"category"`
	}

	// NewTransaction is what the client submits; Category carries the
	// category title, not its id.
	NewTransaction struct {
		Title    string
		Value    decimal.Decimal
		Category string
		Type     TransactionType
	}

	Balance struct {
		Income  decimal.Decimal `json:"income"`
		Outcome decimal.Decimal `json:"outcome"`
		Total   decimal.Decimal `json:"total"`
	}
)

var (
	ErrEmptyTitle     = errors.New("empty title")
	ErrZeroValue      = errors.New("value must not be zero")
	ErrEmptyCategory  = errors.New("empty category")
	ErrInvalidValue   = errors.New("invalid value")
	ErrInvalidType    = errors.New("invalid transaction type")
	ErrNonPositive    = errors.New("value must be positive")
	ErrIncompleteForm = errors.New("incomplete form")

	ErrTransactionNotFound = errors.New("transaction not found")
)

// Valid reports whether t is one of the known transaction types.
func (t TransactionType) Valid() bool {
	return t == Income || t == Outcome
}

func (t TransactionType) String() string {
	return string(t)
}

// Validate applies the client-side submission rule: title, a non-zero value
// and a category name are required. The type is left to the server.
func (n NewTransaction) Validate() error {
	var errs []error
	if n.Title == "" {
		errs = append(errs, ErrEmptyTitle)
	}
	if n.Value.IsZero() {
		errs = append(errs, ErrZeroValue)
	}
	if n.Category == "" {
		errs = append(errs, ErrEmptyCategory)
	}
	if len(errs) > 0 {
		return errors.Join(append([]error{ErrIncompleteForm}, errs...)...)
	}
	return nil
}

// ValidateStrict is the server-side rule set.
func (n NewTransaction) ValidateStrict() error {
	if strings.TrimSpace(n.Title) == "" {
		return ErrEmptyTitle
	}
	if len(n.Title) > 200 {
		return errors.New("title too long (max 200 characters)")
	}
	if !n.Value.IsPositive() {
		return ErrNonPositive
	}
	if strings.TrimSpace(n.Category) == "" {
		return ErrEmptyCategory
	}
	if !n.Type.Valid() {
		return ErrInvalidType
	}
	return nil
}

// ComputeBalance sums incomes and outcomes; Total is income minus outcome.
func ComputeBalance(txs []Transaction) Balance {
	b := Balance{Income: decimal.Zero, Outcome: decimal.Zero}
	for _, t := range txs {
		switch t.Type {
		case Income:
			b.Income = b.Income.Add(t.Value)
		case Outcome:
			b.Outcome = b.Outcome.Add(t.Value)
		}
	}
	b.Total = b.Income.Sub(b.Outcome)
	return b
}
