package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"time"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/elannasinada/AutoPrix/pkg/autoprix/dal"
)

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// OpenPostgres opens a postgres connection pool for the listings table.
func OpenPostgres(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}
	db.SetMaxOpenConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)
	return db, nil
}

// QueryListings reads every (make, model, condition) row of table.
func QueryListings(ctx context.Context, db *sql.DB, table string) ([]dal.Listing, error) {
	if !identifier.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	query := fmt.Sprintf("SELECT %s, %s, COALESCE(%s, '') FROM %s",
		MakeColumn, ModelColumn, ConditionColumn, table)

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query listings: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var listings []dal.Listing
	for rows.Next() {
		var l dal.Listing
		if err := rows.Scan(&l.Make, &l.Model, &l.Condition); err != nil {
			return nil, fmt.Errorf("scan listing: %w", err)
		}
		listings = append(listings, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate listings: %w", err)
	}
	return listings, nil
}

// LoadSQL builds the catalog from a database table. Like LoadFile it fails
// softly and returns an empty catalog on any error.
func LoadSQL(ctx context.Context, db *sql.DB, table string, log *zap.Logger) *Catalog {
	listings, err := QueryListings(ctx, db, table)
	if err != nil {
		log.Error("catalog table unreadable", zap.String("table", table), zap.Error(err))
		return Empty()
	}
	c := Build(listings)
	log.Info("catalog loaded", zap.String("table", table), zap.Int("makes", c.Len()))
	return c
}
