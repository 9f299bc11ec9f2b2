package database

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"net"
	"net/url"
	"sort"
	"strconv"

	"github.com/lib/pq"
	"github.com/semmidev/zabbix-backup/internal/config"
	"github.com/semmidev/zabbix-backup/internal/domain"
)

const (
	pgSchemaExists = `SELECT 1 FROM information_schema.schemata WHERE schema_name = $1`
	pgListTables   = `SELECT table_name FROM information_schema.tables
WHERE table_schema = $1 AND table_type = 'BASE TABLE'`
)

type PostgreSQLDatabase struct {
	config   *config.DatabaseConfig
	binary   string
	db       *sql.DB
	tx       *sql.Tx
	snapshot string
}

func NewPostgreSQL(cfg *config.DatabaseConfig) *PostgreSQLDatabase {
	binary := cfg.DumpBinary
	if binary == "" {
		binary = "pg_dump"
	}
	return &PostgreSQLDatabase{config: cfg, binary: binary}
}

func (p *PostgreSQLDatabase) dsn() string {
	q := url.Values{}
	q.Set("sslmode", p.config.SSLMode)
	q.Set("connect_timeout", "10")

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(p.config.Username, p.config.Password),
		Host:     net.JoinHostPort(p.config.Host, strconv.Itoa(p.config.Port)),
		Path:     "/" + p.config.Database,
		RawQuery: q.Encode(),
	}
	return u.String()
}

func (p *PostgreSQLDatabase) conn(ctx context.Context) (*sql.DB, error) {
	if p.db != nil {
		return p.db, nil
	}

	db, err := sql.Open("postgres", p.dsn())
	if err != nil {
		return nil, fmt.Errorf("failed to open postgresql connection: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("postgresql connect to %s failed: %w", p.config.Host, err)
	}

	p.db = db
	return db, nil
}

func (p *PostgreSQLDatabase) CheckDumpTool() error {
	return lookupBinary(p.binary)
}

func (p *PostgreSQLDatabase) ListTables(ctx context.Context) ([]string, error) {
	db, err := p.conn(ctx)
	if err != nil {
		return nil, err
	}

	var one int
	err = db.QueryRowContext(ctx, pgSchemaExists, p.config.Schema).Scan(&one)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("schema %q not found in database %s", p.config.Schema, p.config.Database)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up schema: %w", err)
	}

	rows, err := db.QueryContext(ctx, pgListTables, p.config.Schema)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	defer rows.Close()

	tables, err := scanNames(rows)
	if err != nil {
		return nil, err
	}

	sort.Strings(tables)
	return tables, nil
}

// BeginSnapshot opens a read-only repeatable read transaction and exports
// its snapshot. Every following pg_dump call reads from that snapshot; the
// transaction stays open until EndSnapshot or Close. A previous snapshot is
// released first.
func (p *PostgreSQLDatabase) BeginSnapshot(ctx context.Context) (string, error) {
	if err := p.EndSnapshot(); err != nil {
		return "", err
	}

	db, err := p.conn(ctx)
	if err != nil {
		return "", err
	}

	tx, err := db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return "", fmt.Errorf("failed to begin snapshot transaction: %w", err)
	}

	var snapshot string
	if err := tx.QueryRowContext(ctx, "SELECT pg_export_snapshot()").Scan(&snapshot); err != nil {
		tx.Rollback()
		return "", fmt.Errorf("failed to export snapshot: %w", err)
	}

	p.tx = tx
	p.snapshot = snapshot
	return snapshot, nil
}

func (p *PostgreSQLDatabase) DumpTable(ctx context.Context, table string, mode domain.DumpMode, w io.Writer) error {
	env := []string{fmt.Sprintf("PGPASSWORD=%s", p.config.Password)}
	return runDump(ctx, p.binary, p.dumpArgs(table, mode), env, w)
}

func (p *PostgreSQLDatabase) dumpArgs(table string, mode domain.DumpMode) []string {
	args := []string{
		fmt.Sprintf("--host=%s", p.config.Host),
		fmt.Sprintf("--port=%d", p.config.Port),
		fmt.Sprintf("--username=%s", p.config.Username),
		"--no-password",
		"--no-owner",
		fmt.Sprintf("--table=%s.%s", pq.QuoteIdentifier(p.config.Schema), pq.QuoteIdentifier(table)),
	}

	if p.snapshot != "" {
		args = append(args, fmt.Sprintf("--snapshot=%s", p.snapshot))
	}

	if mode == domain.DumpSchemaOnly {
		args = append(args, "--schema-only")
	} else {
		args = append(args, "--inserts")
	}

	return append(args, p.config.Database)
}

func (p *PostgreSQLDatabase) GetName() string {
	return p.config.Database
}

func (p *PostgreSQLDatabase) GetType() string {
	return config.TypePostgreSQL
}

func (p *PostgreSQLDatabase) EndSnapshot() error {
	if p.tx == nil {
		return nil
	}
	err := p.tx.Rollback()
	p.tx = nil
	p.snapshot = ""
	if err != nil && err != sql.ErrTxDone {
		return fmt.Errorf("failed to release snapshot: %w", err)
	}
	return nil
}

func (p *PostgreSQLDatabase) Close() error {
	_ = p.EndSnapshot()
	if p.db == nil {
		return nil
	}
	err := p.db.Close()
	p.db = nil
	return err
}
