package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/mercadito/search-engine/internal/spanish"
)

// DB is the subset of *sql.DB the store uses. Declared as an interface so
// tests can substitute a connection.
type DB interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// SQLStore implements Store over SQLite or Postgres.
type SQLStore struct {
	db DB
}

// NewSQLStore creates a store over an open database connection.
func NewSQLStore(db DB) *SQLStore {
	return &SQLStore{db: db}
}

// OpenConfig holds the settings needed to open a database connection.
type OpenConfig struct {
	Driver          string // sqlite or postgres
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Open opens a database connection and verifies it with a ping.
func Open(ctx context.Context, cfg OpenConfig) (*sql.DB, error) {
	driverName := cfg.Driver
	if driverName == "sqlite" {
		driverName = "sqlite3"
	} else if driverName == "postgres" {
		driverName = "postgres"
	} else {
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}

	db, err := sql.Open(driverName, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return db, nil
}

// EnsureSchema creates the product and synonym tables if they are missing.
func (s *SQLStore) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS products (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			normalized_name TEXT NOT NULL UNIQUE,
			category TEXT NOT NULL,
			price REAL NOT NULL,
			stock INTEGER NOT NULL DEFAULT 0,
			tags TEXT NOT NULL DEFAULT '',
			popularity INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_products_category ON products (category)`,
		`CREATE INDEX IF NOT EXISTS idx_products_price ON products (price)`,
		`CREATE TABLE IF NOT EXISTS synonyms (
			term TEXT NOT NULL,
			normalized_term TEXT NOT NULL,
			target_name TEXT NOT NULL,
			target_type TEXT NOT NULL,
			confidence REAL NOT NULL DEFAULT 1.0,
			usage_count INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (normalized_term, target_name)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_synonyms_term ON synonyms (normalized_term)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// FindProducts queries products by term, category, brand, and price range.
// Ordering: exact normalized-name match first, then prefix match, then
// ascending price.
func (s *SQLStore) FindProducts(ctx context.Context, filter ProductFilter) ([]Product, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	var conds []string
	var args []interface{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	term := spanish.Normalize(filter.Term)
	if term != "" {
		conds = append(conds, fmt.Sprintf("normalized_name LIKE %s", arg("%"+term+"%")))
	}
	if filter.Category != "" {
		conds = append(conds, fmt.Sprintf("category = %s", arg(spanish.Normalize(filter.Category))))
	}
	if filter.Brand != "" {
		conds = append(conds, fmt.Sprintf("normalized_name LIKE %s", arg(spanish.Normalize(filter.Brand)+"%")))
	}
	if filter.PriceMin != nil {
		conds = append(conds, fmt.Sprintf("price >= %s", arg(*filter.PriceMin)))
	}
	if filter.PriceMax != nil {
		conds = append(conds, fmt.Sprintf("price <= %s", arg(*filter.PriceMax)))
	}

	query := `SELECT id, name, normalized_name, category, price, stock, tags, popularity FROM products`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}

	exactArg := arg(term)
	prefixArg := arg(term + "%")
	query += fmt.Sprintf(`
		ORDER BY
			CASE
				WHEN normalized_name = %s THEN 0
				WHEN normalized_name LIKE %s THEN 1
				ELSE 2
			END,
			price ASC
		LIMIT %s`, exactArg, prefixArg, arg(limit))

	return s.queryProducts(ctx, query, args...)
}

// FindByAttribute returns products tagged with the attribute, falling
// back to a name-contains match. Tag hits sort before name hits.
func (s *SQLStore) FindByAttribute(ctx context.Context, attribute string, limit int) ([]Product, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	attr := spanish.Normalize(attribute)

	query := `
		SELECT id, name, normalized_name, category, price, stock, tags, popularity
		FROM products
		WHERE tags LIKE $1 OR normalized_name LIKE $2
		ORDER BY
			CASE WHEN tags LIKE $1 THEN 0 ELSE 1 END,
			popularity DESC, price ASC
		LIMIT $3`

	return s.queryProducts(ctx, query, "%"+tagKey(attr)+"%", "%"+strings.ReplaceAll(attr, "_", " ")+"%", limit)
}

// FindByCategory returns products in the given canonical category.
func (s *SQLStore) FindByCategory(ctx context.Context, category string, limit int) ([]Product, error) {
	if limit <= 0 {
		limit = defaultLimit
	}

	query := `
		SELECT id, name, normalized_name, category, price, stock, tags, popularity
		FROM products
		WHERE category = $1
		ORDER BY popularity DESC, price ASC
		LIMIT $2`

	return s.queryProducts(ctx, query, spanish.Normalize(category), limit)
}

// PopularProducts returns the most popular in-stock products.
func (s *SQLStore) PopularProducts(ctx context.Context, limit int) ([]Product, error) {
	if limit <= 0 {
		limit = defaultLimit
	}

	query := `
		SELECT id, name, normalized_name, category, price, stock, tags, popularity
		FROM products
		WHERE stock > 0
		ORDER BY popularity DESC, price ASC
		LIMIT $1`

	return s.queryProducts(ctx, query, limit)
}

// LookupSynonym returns synonym entries for a term, ranked by confidence
// descending, then usage count descending.
func (s *SQLStore) LookupSynonym(ctx context.Context, term string) ([]SynonymEntry, error) {
	query := `
		SELECT term, normalized_term, target_name, target_type, confidence, usage_count
		FROM synonyms
		WHERE normalized_term = $1
		ORDER BY confidence DESC, usage_count DESC`

	rows, err := s.db.QueryContext(ctx, query, spanish.Normalize(term))
	if err != nil {
		return nil, fmt.Errorf("lookup synonym: %w", err)
	}
	defer rows.Close()

	var entries []SynonymEntry
	for rows.Next() {
		var e SynonymEntry
		if err := rows.Scan(&e.Term, &e.NormalizedTerm, &e.TargetName, &e.TargetType, &e.Confidence, &e.UsageCount); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Stats returns product and synonym counts plus the distinct category list.
func (s *SQLStore) Stats(ctx context.Context) (Stats, error) {
	var stats Stats

	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&stats.ProductCount); err != nil {
		return stats, fmt.Errorf("count products: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM synonyms`).Scan(&stats.SynonymCount); err != nil {
		return stats, fmt.Errorf("count synonyms: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT category FROM products ORDER BY category`)
	if err != nil {
		return stats, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return stats, err
		}
		stats.Categories = append(stats.Categories, c)
	}
	return stats, rows.Err()
}

// AllProducts returns every product, for snapshot builds.
func (s *SQLStore) AllProducts(ctx context.Context) ([]Product, error) {
	query := `SELECT id, name, normalized_name, category, price, stock, tags, popularity FROM products ORDER BY normalized_name`
	return s.queryProducts(ctx, query)
}

// AllSynonyms returns every synonym entry, for snapshot builds.
func (s *SQLStore) AllSynonyms(ctx context.Context) ([]SynonymEntry, error) {
	query := `SELECT term, normalized_term, target_name, target_type, confidence, usage_count FROM synonyms ORDER BY normalized_term`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list synonyms: %w", err)
	}
	defer rows.Close()

	var entries []SynonymEntry
	for rows.Next() {
		var e SynonymEntry
		if err := rows.Scan(&e.Term, &e.NormalizedTerm, &e.TargetName, &e.TargetType, &e.Confidence, &e.UsageCount); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// UpsertProduct inserts or replaces a product keyed by normalized name.
// Used by the seeding CLI; the query pipeline never writes.
func (s *SQLStore) UpsertProduct(ctx context.Context, p Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.NormalizedName == "" {
		p.NormalizedName = spanish.Normalize(p.Name)
	}

	query := `
		INSERT INTO products (id, name, normalized_name, category, price, stock, tags, popularity)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (normalized_name) DO UPDATE SET
			name = excluded.name,
			category = excluded.category,
			price = excluded.price,
			stock = excluded.stock,
			tags = excluded.tags,
			popularity = excluded.popularity`

	_, err := s.db.ExecContext(ctx, query,
		p.ID.String(), p.Name, p.NormalizedName, spanish.Normalize(p.Category),
		p.Price, p.Stock, joinTags(p.Tags), p.Popularity,
	)
	if err != nil {
		return fmt.Errorf("upsert product %q: %w", p.Name, err)
	}
	return nil
}

// UpsertSynonym inserts or replaces a synonym entry.
func (s *SQLStore) UpsertSynonym(ctx context.Context, e SynonymEntry) error {
	if e.NormalizedTerm == "" {
		e.NormalizedTerm = spanish.Normalize(e.Term)
	}

	query := `
		INSERT INTO synonyms (term, normalized_term, target_name, target_type, confidence, usage_count)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (normalized_term, target_name) DO UPDATE SET
			confidence = excluded.confidence,
			usage_count = excluded.usage_count`

	_, err := s.db.ExecContext(ctx, query,
		e.Term, e.NormalizedTerm, e.TargetName, string(e.TargetType), e.Confidence, e.UsageCount,
	)
	if err != nil {
		return fmt.Errorf("upsert synonym %q: %w", e.Term, err)
	}
	return nil
}

func (s *SQLStore) queryProducts(ctx context.Context, query string, args ...interface{}) ([]Product, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		var p Product
		var id, tags string
		if err := rows.Scan(&id, &p.Name, &p.NormalizedName, &p.Category, &p.Price, &p.Stock, &tags, &p.Popularity); err != nil {
			return nil, err
		}
		if parsed, err := uuid.Parse(id); err == nil {
			p.ID = parsed
		}
		p.Tags = splitTags(tags)
		products = append(products, p)
	}
	return products, rows.Err()
}

// tagKey converts an attribute to the stored tag form ("sin azucar" and
// "sin_azucar" both map to "sin_azucar").
func tagKey(attr string) string {
	return strings.ReplaceAll(spanish.Normalize(attr), " ", "_")
}

func joinTags(tags []string) string {
	keys := make([]string, 0, len(tags))
	for _, t := range tags {
		if k := tagKey(t); k != "" {
			keys = append(keys, k)
		}
	}
	return strings.Join(keys, ",")
}

func splitTags(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tags = append(tags, p)
		}
	}
	return tags
}
