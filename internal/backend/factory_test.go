package backend

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"gofinances/internal/config"
	"gofinances/internal/core"
	applog "gofinances/internal/log"
)

func TestFromAppConfig(t *testing.T) {
	cfg := &config.Config{DataBackend: "sqlite", SQLiteDBPath: "x.db", DataDir: "seed"}
	got, err := FromAppConfig(cfg)
	if err != nil {
		t.Fatalf("FromAppConfig: %v", err)
	}
	if got.Type != SQLiteBackend || got.SQLiteDBPath != "x.db" || got.DataDirectory != "seed" {
		t.Errorf("FromAppConfig() = %+v", got)
	}

	if _, err := FromAppConfig(&config.Config{DataBackend: "sheets"}); err == nil {
		t.Error("expected error for unknown backend")
	}
	if _, err := FromAppConfig(nil); err == nil {
		t.Error("expected error for nil config")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"memory", Config{Type: MemoryBackend}, false},
		{"sqlite", Config{Type: SQLiteBackend, SQLiteDBPath: "a.db"}, false},
		{"sqlite without path", Config{Type: SQLiteBackend}, true},
		{"amqp without queue", Config{Type: MemoryBackend, AMQPURL: "amqp://x", AMQPExchange: "e"}, true},
		{"unknown", Config{Type: "nope"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCreateBackend(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "seed_categories.txt"), []byte("Casa\nSalário\n"), 0o644); err != nil {
		t.Fatalf("write seed: %v", err)
	}

	for _, cfg := range []Config{
		{Type: MemoryBackend, DataDirectory: dir},
		{Type: SQLiteBackend, SQLiteDBPath: filepath.Join(dir, "db", "test.db"), DataDirectory: dir},
	} {
		t.Run(cfg.Type.String(), func(t *testing.T) {
			ctx := context.Background()
			res, err := NewFactory(applog.Discard()).CreateBackend(ctx, cfg)
			if err != nil {
				t.Fatalf("CreateBackend: %v", err)
			}
			defer res.Cleanup()

			if err := res.Backend.Ready(ctx); err != nil {
				t.Fatalf("Ready: %v", err)
			}
			cats, err := res.Backend.ListCategories(ctx)
			if err != nil || len(cats) != 2 {
				t.Fatalf("ListCategories = %v, %v", cats, err)
			}

			_, err = res.Backend.CreateTransaction(ctx, core.NewTransaction{
				Title: "Salary", Value: decimal.NewFromInt(10), Category: "salário", Type: core.Income,
			})
			if err != nil {
				t.Fatalf("CreateTransaction: %v", err)
			}
			txs, balance, err := res.Backend.ListTransactions(ctx)
			if err != nil || len(txs) != 1 || !balance.Total.Equal(decimal.NewFromInt(10)) {
				t.Fatalf("ListTransactions = %v, %+v, %v", txs, balance, err)
			}
			if txs[0].Category.Title != "Salário" {
				t.Errorf("expected existing category reused, got %+v", txs[0].Category)
			}
		})
	}
}
