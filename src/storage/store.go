package storage

import (
	"database/sql"
	"errors"
	"time"

	"price-quoter/src/interfaces"
	"price-quoter/src/logger"
	"price-quoter/src/models"
)

// NewQuoteStore picks the backend from storage.db_type. "none" disables the
// quote log and returns a nil store.
func NewQuoteStore(cfg *models.MConfig, log *logger.Logger) (interfaces.IQuoteStore, error) {
	switch cfg.Storage.DBType {
	case "none":
		return nil, nil
	case "postgres":
		return NewPostgresQuoteStore(cfg, log)
	default:
		// Default to SQLite
		return NewSQLiteQuoteStore(cfg, log)
	}
}

// -----------------------------------------------------------------------------

func scanQuote(row *sql.Row) (*models.MQuoteRecord, error) {
	var q models.MQuoteRecord
	var createdAt int64
	err := row.Scan(&q.ID, &q.FormID, &q.Position, &q.ContractType, &q.ProposalID, &q.Symbol, &q.Currency,
		&q.AskPrice, &q.DisplayValue, &q.Payout, &q.Longcode, &q.Params, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	q.CreatedAt = time.UnixMilli(createdAt).UTC()
	return &q, nil
}
