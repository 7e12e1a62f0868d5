package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"gofinances/internal/amqp"
	"gofinances/internal/core"
	applog "gofinances/internal/log"
)

var ErrInsufficientBalance = errors.New("insufficient balance")

// userMessages are the texts sent back to API clients for rejected requests.
var userMessages = map[error]string{
	ErrInsufficientBalance: "Saldo insuficiente",
	core.ErrEmptyTitle:     "Título obrigatório",
	core.ErrNonPositive:    "Valor deve ser maior que zero",
	core.ErrEmptyCategory:  "Categoria obrigatória",
	core.ErrInvalidType:    "Tipo de transação inválido",
}

// Message is the user-facing text for err.
func Message(err error) string {
	for sentinel, msg := range userMessages {
		if errors.Is(err, sentinel) {
			return msg
		}
	}
	return err.Error()
}

// ValidationError marks a request the client must fix.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string { return e.Err.Error() }

func (e *ValidationError) Unwrap() error { return e.Err }

// Store is the persistence the service needs; storage.SQLiteRepository and
// memory.Store both implement it.
type Store interface {
	ListCategories(ctx context.Context) ([]core.Category, error)
	FindCategoryByTitle(ctx context.Context, title string) (core.Category, bool, error)
	CreateCategory(ctx context.Context, c core.Category) error
	CreateTransaction(ctx context.Context, tx core.Transaction) error
	ListTransactions(ctx context.Context) ([]core.Transaction, error)
	DeleteTransaction(ctx context.Context, id string) error
	Ping(ctx context.Context) error
	Close() error
}

// EventPublisher is implemented by *amqp.Client.
type EventPublisher interface {
	PublishTransactionEvent(ctx context.Context, msg *amqp.TransactionEventMessage) error
	Close() error
}

// TransactionService orchestrates transaction operations across the store and
// AMQP. Publishing is best effort: a stored change is never rolled back.
type TransactionService struct {
	store     Store
	publisher EventPublisher
	logger    *applog.Logger
	newID     func() string

	// Serialises writes so the balance check sees every insert and delete.
	writeMu sync.Mutex
}

func NewTransactionService(store Store, publisher EventPublisher, logger *applog.Logger) *TransactionService {
	if logger == nil {
		logger = applog.Default()
	}
	return &TransactionService{
		store:     store,
		publisher: publisher,
		logger:    logger.WithComponent(applog.ComponentTransaction),
		newID:     uuid.NewString,
	}
}

func (s *TransactionService) ListCategories(ctx context.Context) ([]core.Category, error) {
	cats, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	if cats == nil {
		cats = []core.Category{}
	}
	return cats, nil
}

// ListTransactions returns every transaction and the balance over them.
func (s *TransactionService) ListTransactions(ctx context.Context) ([]core.Transaction, core.Balance, error) {
	txs, err := s.store.ListTransactions(ctx)
	if err != nil {
		return nil, core.Balance{}, fmt.Errorf("list transactions: %w", err)
	}
	if txs == nil {
		txs = []core.Transaction{}
	}
	return txs, core.ComputeBalance(txs), nil
}

// CreateTransaction validates n, resolves or creates its category by title and
// stores the transaction. Outcomes above the current total are refused with
// ErrInsufficientBalance.
func (s *TransactionService) CreateTransaction(ctx context.Context, n core.NewTransaction) (core.Transaction, error) {
	n.Title = strings.TrimSpace(n.Title)
	n.Category = strings.TrimSpace(n.Category)
	if err := n.ValidateStrict(); err != nil {
		return core.Transaction{}, &ValidationError{Err: err}
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if n.Type == core.Outcome {
		_, balance, err := s.ListTransactions(ctx)
		if err != nil {
			return core.Transaction{}, err
		}
		if n.Value.GreaterThan(balance.Total) {
			return core.Transaction{}, &ValidationError{Err: ErrInsufficientBalance}
		}
	}

	category, err := s.resolveCategory(ctx, n.Category)
	if err != nil {
		return core.Transaction{}, err
	}

	tx := core.Transaction{
		ID:         s.newID(),
		Title:      n.Title,
		Value:      n.Value,
		CategoryID: category.ID,
		Type:       n.Type,
		Category:   category,
	}
	if err := s.store.CreateTransaction(ctx, tx); err != nil {
		return core.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}

	if err := s.publish(ctx, amqp.NewCreatedMessage(tx)); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish created event",
			applog.FieldTransactionID, tx.ID, applog.FieldError, err)
	}
	return tx, nil
}

func (s *TransactionService) resolveCategory(ctx context.Context, title string) (core.Category, error) {
	c, found, err := s.store.FindCategoryByTitle(ctx, title)
	if err != nil {
		return core.Category{}, fmt.Errorf("find category: %w", err)
	}
	if found {
		return c, nil
	}

	c = core.Category{ID: s.newID(), Title: title}
	if err := s.store.CreateCategory(ctx, c); err != nil {
		return core.Category{}, fmt.Errorf("save category: %w", err)
	}
	s.logger.InfoContext(ctx, "Category created", applog.FieldCategory, title)
	return c, nil
}

// DeleteTransaction removes id; unknown ids yield core.ErrTransactionNotFound.
func (s *TransactionService) DeleteTransaction(ctx context.Context, id string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.store.DeleteTransaction(ctx, id); err != nil {
		if errors.Is(err, core.ErrTransactionNotFound) {
			return err
		}
		return fmt.Errorf("delete transaction: %w", err)
	}

	if err := s.publish(ctx, amqp.NewDeletedMessage(id)); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish deleted event",
			applog.FieldTransactionID, id, applog.FieldError, err)
	}
	return nil
}

func (s *TransactionService) publish(ctx context.Context, msg *amqp.TransactionEventMessage) error {
	if s.publisher == nil {
		s.logger.DebugContext(ctx, "AMQP client not available, skipping event", applog.FieldEvent, msg.Event)
		return nil
	}
	return s.publisher.PublishTransactionEvent(ctx, msg)
}

// Ready reports whether the store answers.
func (s *TransactionService) Ready(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// Close closes both storage and AMQP connections
func (s *TransactionService) Close() error {
	var errs []error

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}
	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}
	return errors.Join(errs...)
}
