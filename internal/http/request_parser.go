package http

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"gofinances/internal/core"
)

const maxBodyBytes = 1 << 16

// createRequest is the POST /transactions body. value may be a JSON number
// or a numeric string.
type createRequest struct {
	Title    string          `json:"title"`
	Value    decimal.Decimal `json:"value"`
	Category string          `json:"category"`
	Type     string          `json:"type"`
}

func parseCreateRequest(r *http.Request) (core.NewTransaction, error) {
	var req createRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		return core.NewTransaction{}, fmt.Errorf("decode create request: %w", err)
	}
	return core.NewTransaction{
		Title:    sanitizeInput(req.Title),
		Value:    req.Value,
		Category: sanitizeInput(req.Category),
		Type:     core.TransactionType(strings.ToLower(strings.TrimSpace(req.Type))),
	}, nil
}

// sanitizeInput drops control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' {
			return -1
		}
		return r
	}, s)
}
