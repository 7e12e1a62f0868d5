package api

import (
	"context"

	"gofinances/internal/core"
)

// Ports used by the client-side flows. *Client implements all of them.
type (
	CategoryReader interface {
		ListCategories(ctx context.Context) ([]core.Category, error)
	}

	TransactionCreator interface {
		CreateTransaction(ctx context.Context, n core.NewTransaction) (core.Transaction, error)
	}

	TransactionDeleter interface {
		DeleteTransaction(ctx context.Context, id string) error
	}

	TransactionLister interface {
		ListTransactions(ctx context.Context) (TransactionList, error)
	}
)

// TransactionList is the body of GET transactions.
type TransactionList struct {
	Transactions []core.Transaction `json:"transactions"`
	Balance      core.Balance       `json:"balance"`
}

var (
	_ CategoryReader     = (*Client)(nil)
	_ TransactionCreator = (*Client)(nil)
	_ TransactionDeleter = (*Client)(nil)
	_ TransactionLister  = (*Client)(nil)
)
