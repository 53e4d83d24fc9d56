package sales

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"pos_reports/internal/domain"
	"pos_reports/internal/recordstore"
)

// ErrNotFound is returned when a sale with the given ID is not found.
var ErrNotFound = errors.New("sale not found")

// ErrEmptyID is returned when trying to store a record with an empty ID.
var ErrEmptyID = errors.New("empty record ID")

// ErrCorruptBlob is returned when a stored blob is not a JSON array.
var ErrCorruptBlob = errors.New("stored records are not a JSON array")

// Storage is the main interface for our sales storage layer.
type Storage interface {
	AddSale(ctx context.Context, sale domain.Sale) error
	Read(ctx context.Context, id string) (*domain.Sale, error)
	GetAll(ctx context.Context) ([]domain.Sale, error)
	AddExpense(ctx context.Context, expense domain.Expense) error
	Expenses(ctx context.Context) ([]domain.Expense, error)
}

// BlobStorage keeps sales and expenses as JSON arrays in a record store,
// rewriting the whole array on every append.
type BlobStorage struct {
	mu      sync.Mutex
	records recordstore.Store
	logger  *zap.Logger
}

// NewBlobStorage wraps a record store.
func NewBlobStorage(records recordstore.Store, logger *zap.Logger) *BlobStorage {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BlobStorage{records: records, logger: logger}
}

// NewLocalStorage instantiates a BlobStorage backed by process memory.
func NewLocalStorage() *BlobStorage {
	return NewBlobStorage(recordstore.NewMemoryStore(), nil)
}

// AddSale appends a sale. Returns ErrEmptyID if the sale has an empty ID.
func (b *BlobStorage) AddSale(ctx context.Context, sale domain.Sale) error {
	if sale.ID == "" {
		return ErrEmptyID
	}
	return b.appendRecord(ctx, recordstore.Sales, sale)
}

// Read retrieves a sale by ID.
// Returns ErrNotFound if the sale is not found.
func (b *BlobStorage) Read(ctx context.Context, id string) (*domain.Sale, error) {
	all, err := b.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].ID == id {
			return &all[i], nil
		}
	}
	return nil, ErrNotFound
}

// GetAll returns every decodable sale in stored order.
func (b *BlobStorage) GetAll(ctx context.Context) ([]domain.Sale, error) {
	return loadRecords[domain.Sale](ctx, b.records, recordstore.Sales, b.logger)
}

func (b *BlobStorage) AddExpense(ctx context.Context, expense domain.Expense) error {
	if expense.ID == "" {
		return ErrEmptyID
	}
	return b.appendRecord(ctx, recordstore.Expenses, expense)
}

func (b *BlobStorage) Expenses(ctx context.Context) ([]domain.Expense, error) {
	return loadRecords[domain.Expense](ctx, b.records, recordstore.Expenses, b.logger)
}

// appendRecord keeps existing elements as raw JSON so entries this version
// cannot decode are written back untouched.
func (b *BlobStorage) appendRecord(ctx context.Context, name string, record any) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	raw, err := loadRaw(ctx, b.records, name)
	if err != nil {
		return err
	}
	encoded, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode %s record: %w", name, err)
	}
	raw = append(raw, encoded)

	blob, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	if err := b.records.Put(ctx, name, blob); err != nil {
		return fmt.Errorf("save %s: %w", name, err)
	}
	return nil
}

func loadRaw(ctx context.Context, records recordstore.Store, name string) ([]json.RawMessage, error) {
	blob, err := records.Get(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	if len(blob) == 0 {
		return nil, nil
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(blob, &raw); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorruptBlob, name, err)
	}
	return raw, nil
}

func loadRecords[T any](ctx context.Context, records recordstore.Store, name string, logger *zap.Logger) ([]T, error) {
	raw, err := loadRaw(ctx, records, name)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(raw))
	for i, element := range raw {
		var rec T
		if err := json.Unmarshal(element, &rec); err != nil {
			logger.Warn("skipping undecodable record",
				zap.String("blob", name),
				zap.Int("index", i),
				zap.Error(err),
			)
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}
