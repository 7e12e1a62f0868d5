// Package memory is the in-process store used by the memory backend and by
// tests.
package memory

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"

	"gofinances/internal/core"
)

// DefaultCategories seed the store when no seed file is present.
var DefaultCategories = []string{"Alimentação", "Casa", "Salário", "Transporte"}

type Store struct {
	mu    sync.Mutex
	cats  []core.Category
	items []core.Transaction
}

// New seeds the store with the given category titles.
func New(titles []string) *Store {
	s := &Store{}
	for _, t := range dedupe(titles) {
		s.cats = append(s.cats, core.Category{ID: uuid.NewString(), Title: t})
	}
	return s
}

// NewFromFiles seeds the store from base/seed_categories.txt.
func NewFromFiles(base string) *Store {
	return New(SeedTitles(filepath.Join(base, "seed_categories.txt")))
}

// SeedTitles reads one category title per line, skipping blanks and
// #-comments. DefaultCategories is returned when the file is missing or empty.
func SeedTitles(path string) []string {
	titles := readLines(path)
	if len(titles) == 0 {
		return append([]string(nil), DefaultCategories...)
	}
	return titles
}

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) Close() error { return nil }

func (s *Store) ListCategories(_ context.Context) ([]core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Category(nil), s.cats...), nil
}

func (s *Store) FindCategoryByTitle(_ context.Context, title string) (core.Category, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	title = strings.TrimSpace(title)
	for _, c := range s.cats {
		if strings.EqualFold(c.Title, title) {
			return c, true, nil
		}
	}
	return core.Category{}, false, nil
}

func (s *Store) CreateCategory(_ context.Context, c core.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cats = append(s.cats, c)
	return nil
}

func (s *Store) CreateTransaction(_ context.Context, tx core.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, tx)
	return nil
}

// ListTransactions returns insertion order with categories resolved.
func (s *Store) ListTransactions(_ context.Context) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	byID := make(map[string]core.Category, len(s.cats))
	for _, c := range s.cats {
		byID[c.ID] = c
	}
	out := make([]core.Transaction, len(s.items))
	for i, tx := range s.items {
		tx.Category = byID[tx.CategoryID]
		out[i] = tx
	}
	return out, nil
}

func (s *Store) DeleteTransaction(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, tx := range s.items {
		if tx.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}
	return core.ErrTransactionNotFound
}

func readLines(path string) []string {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return dedupe(out)
}

// dedupe keeps the first occurrence of each title, compared case-insensitively.
func dedupe(in []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		key := strings.ToLower(v)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, v)
	}
	return out
}
