package storage

import (
	"database/sql"
	"time"

	"price-quoter/src/helpers"
	"price-quoter/src/interfaces"
	"price-quoter/src/logger"
	"price-quoter/src/models"

	_ "modernc.org/sqlite"
)

// -----------------------------------------------------------------------------

type SQLiteQuoteStore struct {
	Config *models.MConfig
	DB     *sql.DB
	Logger *logger.Logger
}

var _ interfaces.IQuoteStore = (*SQLiteQuoteStore)(nil)

// -----------------------------------------------------------------------------

func NewSQLiteQuoteStore(cfg *models.MConfig, log *logger.Logger) (*SQLiteQuoteStore, error) {
	return &SQLiteQuoteStore{
		Config: cfg,
		Logger: log,
	}, nil
}

// -----------------------------------------------------------------------------

func (d *SQLiteQuoteStore) Initialize() error {
	dsn := d.Config.Storage.DBPath

	// Open DB
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return helpers.NewStorageError("failed to open "+dsn, err)
	}

	if err := db.Ping(); err != nil {
		return helpers.NewStorageError("failed to reach "+dsn, err)
	}

	d.DB = db

	// PRAGMA optimizations
	if _, err := db.Exec("PRAGMA journal_mode = WAL;"); err != nil {
		d.Logger.Warning("Failed to set WAL mode: %v", err)
	}
	if _, err := db.Exec("PRAGMA synchronous = NORMAL;"); err != nil {
		d.Logger.Warning("Failed to set synchronous mode: %v", err)
	}

	return d.createTables()
}

// -----------------------------------------------------------------------------

func (d *SQLiteQuoteStore) createTables() error {
	// SQLite types: INTEGER for int64, REAL for float64, TEXT for string
	query := `
		CREATE TABLE IF NOT EXISTS quotes (
			id TEXT PRIMARY KEY,
			form_id INTEGER,
			position TEXT,
			contract_type TEXT,
			proposal_id TEXT,
			symbol TEXT,
			currency TEXT,
			ask_price REAL,
			display_value TEXT,
			payout REAL,
			longcode TEXT,
			params TEXT,
			created_at INTEGER
		);
	`
	if _, err := d.DB.Exec(query); err != nil {
		return helpers.NewStorageError("failed to create quotes", err)
	}
	if _, err := d.DB.Exec(`CREATE INDEX IF NOT EXISTS idx_quotes_position ON quotes (position, created_at)`); err != nil {
		return helpers.NewStorageError("failed to index quotes", err)
	}
	return nil
}

// -----------------------------------------------------------------------------

func (d *SQLiteQuoteStore) SaveQuote(q models.MQuoteRecord) error {
	_, err := d.DB.Exec(`
		INSERT INTO quotes (id, form_id, position, contract_type, proposal_id, symbol, currency, ask_price, display_value, payout, longcode, params, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, q.ID, q.FormID, q.Position, q.ContractType, q.ProposalID, q.Symbol, q.Currency,
		q.AskPrice, q.DisplayValue, q.Payout, q.Longcode, q.Params, q.CreatedAt.UTC().UnixMilli())
	if err != nil {
		return helpers.NewStorageError("failed to save quote "+q.ID, err)
	}
	return nil
}

// -----------------------------------------------------------------------------

// LatestQuote returns nil without error when position has no quotes.
func (d *SQLiteQuoteStore) LatestQuote(position string) (*models.MQuoteRecord, error) {
	row := d.DB.QueryRow(`
		SELECT id, form_id, position, contract_type, proposal_id, symbol, currency, ask_price, display_value, payout, longcode, params, created_at
		FROM quotes WHERE position = ?
		ORDER BY created_at DESC, rowid DESC LIMIT 1
	`, position)
	return scanQuote(row)
}

// -----------------------------------------------------------------------------

func (d *SQLiteQuoteStore) CleanupOldData() error {
	retentionDays := d.Config.Storage.RetentionDays
	cutoff := time.Now().UTC().AddDate(0, 0, -retentionDays).UnixMilli()

	d.Logger.Info("Cleaning up quotes older than %d days", retentionDays)

	res, err := d.DB.Exec("DELETE FROM quotes WHERE created_at < ?", cutoff)
	if err != nil {
		return helpers.NewStorageError("cleanup quotes", err)
	}
	if n, err := res.RowsAffected(); err == nil {
		d.Logger.Info("Cleanup completed, %d quotes removed", n)
	}
	return nil
}

// -----------------------------------------------------------------------------

func (d *SQLiteQuoteStore) Close() error {
	if d.DB != nil {
		return d.DB.Close()
	}
	return nil
}
