package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"gofinances/internal/core"
	applog "gofinances/internal/log"
)

func newTestClient(t *testing.T, h http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := NewClient(srv.URL, append([]Option{WithLogger(applog.Discard())}, opts...)...)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

func TestNewClientRejectsBadURL(t *testing.T) {
	for _, u := range []string{"", "ftp://x", "localhost:3333", "http://"} {
		if _, err := NewClient(u); err == nil {
			t.Fatalf("expected error for %q", u)
		}
	}
}

func TestListCategories(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/categories" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		_, _ = io.WriteString(w, `[{"id":"1","title":"Contas"},{"id":"2","title":"Salário"}]`)
	})

	cats, err := c.ListCategories(context.Background())
	if err != nil {
		t.Fatalf("ListCategories: %v", err)
	}
	if len(cats) != 2 || cats[1].Title != "Salário" || cats[0].ID != "1" {
		t.Fatalf("unexpected categories: %+v", cats)
	}
}

func TestListTransactionsDecodesNumbersAndStrings(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"transactions":[
			{"id":"a","title":"Salary","value":1000,"category_id":"c1","type":"income","category":{"id":"c1","title":"Income"}},
			{"id":"b","title":"Rent","value":"350.5","category_id":"c2","type":"outcome","category":{"id":"c2","title":"Casa"}}
		],"balance":{"income":1000,"outcome":350.5,"total":649.5}}`)
	})

	list, err := c.ListTransactions(context.Background())
	if err != nil {
		t.Fatalf("ListTransactions: %v", err)
	}
	if len(list.Transactions) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(list.Transactions))
	}
	if !list.Transactions[1].Value.Equal(decimal.RequireFromString("350.5")) {
		t.Fatalf("unexpected value %s", list.Transactions[1].Value)
	}
	if list.Transactions[0].Category.Title != "Income" || list.Transactions[0].Type != core.Income {
		t.Fatalf("unexpected transaction %+v", list.Transactions[0])
	}
	if !list.Balance.Total.Equal(decimal.RequireFromString("649.5")) {
		t.Fatalf("unexpected balance %+v", list.Balance)
	}
}

func TestCreateTransactionSendsBody(t *testing.T) {
	var got map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/transactions" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("unexpected content type %q", ct)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer secret" {
			t.Errorf("unexpected authorization %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}, WithToken("secret"))

	n := core.NewTransaction{Title: "Salary", Value: decimal.RequireFromString("1234.56"), Category: "Income", Type: core.Income}
	tx, err := c.CreateTransaction(context.Background(), n)
	if err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}
	if got["title"] != "Salary" || got["category"] != "Income" || got["type"] != "income" {
		t.Fatalf("unexpected body %v", got)
	}
	// value travels as a JSON number
	if v, ok := got["value"].(float64); !ok || v != 1234.56 {
		t.Fatalf("unexpected value %#v", got["value"])
	}
	if tx.Title != "Salary" || tx.Category.Title != "Income" || !tx.Value.Equal(n.Value) {
		t.Fatalf("unexpected result %+v", tx)
	}
}

func TestCreateTransactionDecodesCreated(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"id":"x1","title":"Salary","value":1000,"category_id":"c1","type":"income","category":{"id":"c1","title":"Income"}}`)
	})
	tx, err := c.CreateTransaction(context.Background(), core.NewTransaction{Title: "Salary", Value: decimal.NewFromInt(1000), Category: "Income", Type: core.Income})
	if err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}
	if tx.ID != "x1" || tx.CategoryID != "c1" {
		t.Fatalf("expected decoded transaction, got %+v", tx)
	}
}

func TestCreateTransactionServerError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"message":"Invalid category","status":"error"}`)
	})
	_, err := c.CreateTransaction(context.Background(), core.NewTransaction{Title: "t", Value: decimal.NewFromInt(1), Category: "x"})
	if err == nil {
		t.Fatal("expected error")
	}
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if apiErr.StatusCode != http.StatusBadRequest || apiErr.Status != "error" {
		t.Fatalf("unexpected error %+v", apiErr)
	}
	if msg, ok := ServerMessage(err); !ok || msg != "Invalid category" {
		t.Fatalf("ServerMessage = %q, %v", msg, ok)
	}
}

func TestServerMessageAbsent(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, "<html>oops</html>")
	})
	_, err := c.CreateTransaction(context.Background(), core.NewTransaction{Title: "t", Value: decimal.NewFromInt(1), Category: "x"})
	if err == nil {
		t.Fatal("expected error")
	}
	if _, ok := ServerMessage(err); ok {
		t.Fatal("expected no server message")
	}
	if _, ok := ServerMessage(errors.New("plain")); ok {
		t.Fatal("expected no server message for plain error")
	}
}

func TestDeleteTransaction(t *testing.T) {
	var path string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("unexpected method %s", r.Method)
		}
		path = r.URL.EscapedPath()
		if strings.HasSuffix(path, "/missing") {
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"message":"Transação não encontrada","status":"error"}`)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	if err := c.DeleteTransaction(context.Background(), "abc 1"); err != nil {
		t.Fatalf("DeleteTransaction: %v", err)
	}
	if path != "/transactions/abc%201" {
		t.Fatalf("unexpected path %q", path)
	}

	err := c.DeleteTransaction(context.Background(), "missing")
	if !IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := c.DeleteTransaction(context.Background(), " "); err == nil {
		t.Fatal("expected error for empty id")
	}
}

func TestBaseURLWithPathPrefix(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/categories" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		_, _ = io.WriteString(w, `[]`)
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL+"/v1/", WithLogger(applog.Discard()))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if _, err := c.ListCategories(context.Background()); err != nil {
		t.Fatalf("ListCategories: %v", err)
	}
}

func TestTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, WithLogger(applog.Discard()), WithTimeout(20*time.Millisecond))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	_, err = c.ListCategories(context.Background())
	if err == nil {
		t.Fatal("expected timeout error")
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		t.Fatalf("transport failure must not look like an API error: %v", err)
	}
}
