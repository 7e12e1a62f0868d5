package sheets

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Row is one mirrored transaction: [id, date, title, category, type, value].
type Row struct {
	ID       string
	Date     time.Time
	Title    string
	Category string
	Type     string
	Value    decimal.Decimal
}

// Ports for outbound adapters.
type (
	// TransactionMirror keeps a spreadsheet in step with the API's
	// transactions.
	TransactionMirror interface {
		// AppendTransaction adds row unless a row with the same id exists.
		AppendTransaction(ctx context.Context, row Row) error
		// DeleteTransaction removes the row with id; a missing row is not an
		// error.
		DeleteTransaction(ctx context.Context, id string) error
	}
)
