package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"price-quoter/src/helpers"
	"price-quoter/src/interfaces"
	"price-quoter/src/logger"
	"price-quoter/src/models"

	_ "github.com/lib/pq"
)

// -----------------------------------------------------------------------------

type PostgresQuoteStore struct {
	Config *models.MConfig
	DB     *sql.DB
	Schema string
	Logger *logger.Logger
}

var _ interfaces.IQuoteStore = (*PostgresQuoteStore)(nil)

// -----------------------------------------------------------------------------

// NewPostgresQuoteStore keeps its tables in a schema named after the executable.
func NewPostgresQuoteStore(cfg *models.MConfig, log *logger.Logger) (*PostgresQuoteStore, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to get executable name: %w", err)
	}
	name := filepath.Base(exe)
	name = strings.TrimSuffix(name, filepath.Ext(name))

	return &PostgresQuoteStore{
		Config: cfg,
		Schema: name,
		Logger: log,
	}, nil
}

// -----------------------------------------------------------------------------

func (d *PostgresQuoteStore) Initialize() error {
	dsn := d.Config.Storage.DBConnectionString
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return helpers.NewStorageError("failed to open postgres", err)
	}

	if err := db.Ping(); err != nil {
		return helpers.NewStorageError("failed to reach postgres", err)
	}

	d.DB = db

	// Create Schema
	if _, err := d.DB.Exec(fmt.Sprintf(`CREATE SCHEMA IF NOT EXISTS "%s"`, d.Schema)); err != nil {
		return helpers.NewStorageError("failed to create schema "+d.Schema, err)
	}

	if err := d.createTables(); err != nil {
		return err
	}

	d.Logger.Info("PostgresQuoteStore initialized successfully (Schema: %s)", d.Schema)
	return nil
}

// -----------------------------------------------------------------------------

func (d *PostgresQuoteStore) table() string {
	return fmt.Sprintf(`"%s"."quotes"`, d.Schema)
}

func (d *PostgresQuoteStore) createTables() error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id UUID PRIMARY KEY,
			form_id BIGINT,
			position TEXT,
			contract_type TEXT,
			proposal_id TEXT,
			symbol TEXT,
			currency TEXT,
			ask_price DOUBLE PRECISION,
			display_value TEXT,
			payout DOUBLE PRECISION,
			longcode TEXT,
			params TEXT,
			created_at BIGINT
		);
	`, d.table())
	if _, err := d.DB.Exec(query); err != nil {
		return helpers.NewStorageError("failed to create quotes", err)
	}

	index := fmt.Sprintf(`CREATE INDEX IF NOT EXISTS quotes_position_idx ON %s (position, created_at)`, d.table())
	if _, err := d.DB.Exec(index); err != nil {
		return helpers.NewStorageError("failed to index quotes", err)
	}
	return nil
}

// -----------------------------------------------------------------------------

func (d *PostgresQuoteStore) SaveQuote(q models.MQuoteRecord) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, form_id, position, contract_type, proposal_id, symbol, currency, ask_price, display_value, payout, longcode, params, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`, d.table())
	_, err := d.DB.Exec(query, q.ID, q.FormID, q.Position, q.ContractType, q.ProposalID, q.Symbol, q.Currency,
		q.AskPrice, q.DisplayValue, q.Payout, q.Longcode, q.Params, q.CreatedAt.UTC().UnixMilli())
	if err != nil {
		return helpers.NewStorageError("failed to save quote "+q.ID, err)
	}
	return nil
}

// -----------------------------------------------------------------------------

func (d *PostgresQuoteStore) LatestQuote(position string) (*models.MQuoteRecord, error) {
	query := fmt.Sprintf(`
		SELECT id, form_id, position, contract_type, proposal_id, symbol, currency, ask_price, display_value, payout, longcode, params, created_at
		FROM %s WHERE position = $1
		ORDER BY created_at DESC LIMIT 1
	`, d.table())
	return scanQuote(d.DB.QueryRow(query, position))
}

// -----------------------------------------------------------------------------

func (d *PostgresQuoteStore) CleanupOldData() error {
	retentionDays := d.Config.Storage.RetentionDays
	cutoff := time.Now().UTC().AddDate(0, 0, -retentionDays).UnixMilli()

	d.Logger.Info("Cleaning up quotes older than %d days", retentionDays)

	if _, err := d.DB.Exec(fmt.Sprintf(`DELETE FROM %s WHERE created_at < $1`, d.table()), cutoff); err != nil {
		return helpers.NewStorageError("cleanup quotes", err)
	}
	return nil
}

// -----------------------------------------------------------------------------

func (d *PostgresQuoteStore) Close() error {
	if d.DB != nil {
		return d.DB.Close()
	}
	return nil
}
