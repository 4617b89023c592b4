package storage

import (
	"path/filepath"
	"testing"
	"time"

	"price-quoter/src/logger"
	"price-quoter/src/models"

	"github.com/google/uuid"
)

func newTestStore(t *testing.T) *SQLiteQuoteStore {
	t.Helper()
	cfg := &models.MConfig{Storage: models.MStorageConfig{
		DBType:        "sqlite",
		DBPath:        filepath.Join(t.TempDir(), "quotes.db"),
		RetentionDays: 7,
	}}
	store, err := NewSQLiteQuoteStore(cfg, logger.NewNop())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if err := store.Initialize(); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func quote(position string, ask float64, at time.Time) models.MQuoteRecord {
	return models.MQuoteRecord{
		ID:           uuid.NewString(),
		FormID:       3,
		Position:     position,
		ContractType: "CALL",
		ProposalID:   "p-" + position,
		Symbol:       "R_100",
		Currency:     "USD",
		AskPrice:     ask,
		DisplayValue: "5.20",
		Payout:       10,
		Longcode:     "Win payout if ...",
		Params:       `{"contract_type":"CALL"}`,
		CreatedAt:    at,
	}
}

func TestSaveAndLatestQuote(t *testing.T) {
	store := newTestStore(t)
	now := time.Now().UTC().Truncate(time.Millisecond)

	if q, err := store.LatestQuote("top"); err != nil || q != nil {
		t.Fatalf("empty store returned %v, %v", q, err)
	}

	older := quote("top", 5.1, now.Add(-time.Minute))
	newer := quote("top", 5.2, now)
	for _, q := range []models.MQuoteRecord{older, newer, quote("bottom", 4.0, now)} {
		if err := store.SaveQuote(q); err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	got, err := store.LatestQuote("top")
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if got == nil || got.ID != newer.ID || got.AskPrice != 5.2 || !got.CreatedAt.Equal(now) {
		t.Errorf("latest = %+v, want %+v", got, newer)
	}
	if got.Params != newer.Params || got.FormID != 3 {
		t.Errorf("fields not round-tripped: %+v", got)
	}
}

func TestDuplicateIDRejected(t *testing.T) {
	store := newTestStore(t)
	q := quote("top", 5, time.Now())
	if err := store.SaveQuote(q); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.SaveQuote(q); err == nil {
		t.Error("expected primary key violation")
	}
}

func TestCleanupOldData(t *testing.T) {
	store := newTestStore(t)
	old := quote("top", 1, time.Now().AddDate(0, 0, -30))
	if err := store.SaveQuote(old); err != nil {
		t.Fatalf("save: %v", err)
	}

	if err := store.CleanupOldData(); err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	if q, _ := store.LatestQuote("top"); q != nil {
		t.Errorf("old quote survived cleanup: %+v", q)
	}
}

func TestNewQuoteStoreSelectsBackend(t *testing.T) {
	cfg := &models.MConfig{}
	cfg.Storage.DBType = "none"
	if s, err := NewQuoteStore(cfg, logger.NewNop()); err != nil || s != nil {
		t.Errorf("none: %v, %v", s, err)
	}

	cfg.Storage.DBType = "postgres"
	s, err := NewQuoteStore(cfg, logger.NewNop())
	if err != nil {
		t.Fatalf("postgres: %v", err)
	}
	if _, ok := s.(*PostgresQuoteStore); !ok {
		t.Errorf("got %T", s)
	}
}
