package google

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	applog "gofinances/internal/log"
	ports "gofinances/internal/sheets"

	"github.com/shopspring/decimal"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// fakeSheets serves the handful of Sheets v4 endpoints the client calls.
type fakeSheets struct {
	mu      sync.Mutex
	column  [][]any
	appends [][]any
	deletes []*gsheet.DimensionRange
	gets    int
}

func (f *fakeSheets) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	path := r.URL.Path
	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.Method == http.MethodPost && strings.HasSuffix(path, ":append"):
		var vr gsheet.ValueRange
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &vr)
		f.appends = append(f.appends, vr.Values...)
		for _, row := range vr.Values {
			f.column = append(f.column, []any{row[0]})
		}
		_, _ = io.WriteString(w, `{"updates":{"updatedRange":"Transacoes!A2:F2"}}`)
	case r.Method == http.MethodPost && strings.HasSuffix(path, ":batchUpdate"):
		var req gsheet.BatchUpdateSpreadsheetRequest
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &req)
		for _, rq := range req.Requests {
			if rq.DeleteDimension != nil {
				f.deletes = append(f.deletes, rq.DeleteDimension.Range)
			}
		}
		_, _ = io.WriteString(w, `{}`)
	case r.Method == http.MethodGet && strings.Contains(path, "/values/"):
		_ = json.NewEncoder(w).Encode(map[string]any{"range": "Transacoes!A:A", "values": f.column})
	case r.Method == http.MethodGet:
		f.gets++
		_, _ = io.WriteString(w, `{"sheets":[{"properties":{"sheetId":3,"title":"Other"}},{"properties":{"sheetId":7,"title":"Transacoes"}}]}`)
	default:
		http.Error(w, "unexpected", http.StatusNotFound)
	}
}

func newTestClient(t *testing.T, fake *fakeSheets) *Client {
	t.Helper()
	ts := httptest.NewServer(fake)
	t.Cleanup(ts.Close)

	svc, err := gsheet.NewService(context.Background(),
		goption.WithEndpoint(ts.URL+"/"),
		goption.WithHTTPClient(ts.Client()))
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return newWithService(svc, "sheet-id", "Transacoes", applog.Discard())
}

func testRow(id string) ports.Row {
	return ports.Row{
		ID:       id,
		Date:     time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		Title:    "Salário",
		Category: "Trabalho",
		Type:     "income",
		Value:    decimal.NewFromInt(5000),
	}
}

func TestAppendTransaction(t *testing.T) {
	fake := &fakeSheets{column: [][]any{{"id"}}}
	c := newTestClient(t, fake)

	if err := c.AppendTransaction(context.Background(), testRow("tx-1")); err != nil {
		t.Fatalf("AppendTransaction: %v", err)
	}
	if len(fake.appends) != 1 {
		t.Fatalf("appends = %d, want 1", len(fake.appends))
	}
	if got := fake.appends[0][0]; got != "tx-1" {
		t.Errorf("id cell = %v", got)
	}
	if got := fake.appends[0][5]; got != "5000" {
		t.Errorf("value cell = %v, want 5000", got)
	}
}

func TestAppendTransaction_SkipsExistingID(t *testing.T) {
	fake := &fakeSheets{column: [][]any{{"id"}, {"tx-1"}}}
	c := newTestClient(t, fake)

	if err := c.AppendTransaction(context.Background(), testRow("tx-1")); err != nil {
		t.Fatalf("AppendTransaction: %v", err)
	}
	if len(fake.appends) != 0 {
		t.Errorf("appends = %d, want 0", len(fake.appends))
	}
}

func TestDeleteTransaction(t *testing.T) {
	fake := &fakeSheets{column: [][]any{{"id"}, {"tx-1"}, {"tx-2"}}}
	c := newTestClient(t, fake)

	if err := c.DeleteTransaction(context.Background(), "tx-2"); err != nil {
		t.Fatalf("DeleteTransaction: %v", err)
	}
	if len(fake.deletes) != 1 {
		t.Fatalf("deletes = %d, want 1", len(fake.deletes))
	}
	rng := fake.deletes[0]
	if rng.SheetId != 7 || rng.StartIndex != 2 || rng.EndIndex != 3 || rng.Dimension != "ROWS" {
		t.Errorf("range = %+v", rng)
	}

	// sheet id is resolved once
	if err := c.DeleteTransaction(context.Background(), "tx-1"); err != nil {
		t.Fatalf("DeleteTransaction: %v", err)
	}
	if fake.gets != 1 {
		t.Errorf("spreadsheet gets = %d, want 1", fake.gets)
	}
}

func TestDeleteTransaction_MissingRowIsNoop(t *testing.T) {
	fake := &fakeSheets{column: [][]any{{"id"}}}
	c := newTestClient(t, fake)

	if err := c.DeleteTransaction(context.Background(), "nope"); err != nil {
		t.Fatalf("DeleteTransaction: %v", err)
	}
	if len(fake.deletes) != 0 || fake.gets != 0 {
		t.Errorf("unexpected calls: deletes=%d gets=%d", len(fake.deletes), fake.gets)
	}
}

func TestNewFromConfig_Errors(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{"missing spreadsheet", Config{SheetName: "T", CredentialsJSON: "{}"}, "spreadsheet id"},
		{"missing sheet", Config{SpreadsheetID: "s", CredentialsJSON: "{}"}, "sheet name"},
		{"missing credentials", Config{SpreadsheetID: "s", SheetName: "T"}, "credentials"},
		{"unreadable file", Config{SpreadsheetID: "s", SheetName: "T", CredentialsFile: "/does/not/exist.json"}, "read service account file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewFromConfig(context.Background(), tt.cfg, applog.Discard())
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestLoadCredentials_PrefersInlineJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sa.json")
	if err := os.WriteFile(path, []byte(`{"from":"file"}`), 0o600); err != nil {
		t.Fatal(err)
	}

	got, err := loadCredentials(Config{CredentialsJSON: `{"from":"env"}`, CredentialsFile: path})
	if err != nil || string(got) != `{"from":"env"}` {
		t.Errorf("got %s, %v", got, err)
	}

	got, err = loadCredentials(Config{CredentialsFile: path})
	if err != nil || string(got) != `{"from":"file"}` {
		t.Errorf("got %s, %v", got, err)
	}
}
