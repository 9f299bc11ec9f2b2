package database

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"net"
	"sort"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/semmidev/zabbix-backup/internal/config"
	"github.com/semmidev/zabbix-backup/internal/domain"
)

const mysqlListTables = `SELECT table_name FROM information_schema.tables
WHERE table_schema = ? AND table_type = 'BASE TABLE'`

type MySQLDatabase struct {
	config *config.DatabaseConfig
	binary string
	db     *sql.DB
}

func NewMySQL(cfg *config.DatabaseConfig) *MySQLDatabase {
	binary := cfg.DumpBinary
	if binary == "" {
		binary = "mysqldump"
	}
	return &MySQLDatabase{config: cfg, binary: binary}
}

func (m *MySQLDatabase) dsn() string {
	c := mysql.NewConfig()
	c.User = m.config.Username
	c.Passwd = m.config.Password
	c.Net = "tcp"
	c.Addr = net.JoinHostPort(m.config.Host, strconv.Itoa(m.config.Port))
	c.DBName = m.config.Database
	c.Timeout = 10 * time.Second
	return c.FormatDSN()
}

func (m *MySQLDatabase) conn(ctx context.Context) (*sql.DB, error) {
	if m.db != nil {
		return m.db, nil
	}

	db, err := sql.Open("mysql", m.dsn())
	if err != nil {
		return nil, fmt.Errorf("failed to open mysql connection: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("mysql connect to %s failed: %w", m.config.Host, err)
	}

	m.db = db
	return db, nil
}

func (m *MySQLDatabase) CheckDumpTool() error {
	return lookupBinary(m.binary)
}

// ListTables returns the sorted base tables of the configured database.
func (m *MySQLDatabase) ListTables(ctx context.Context) ([]string, error) {
	db, err := m.conn(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, mysqlListTables, m.config.Database)
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

func (m *MySQLDatabase) DumpTable(ctx context.Context, table string, mode domain.DumpMode, w io.Writer) error {
	var env []string
	if m.config.Password != "" {
		env = append(env, "MYSQL_PWD="+m.config.Password)
	}
	return runDump(ctx, m.binary, m.dumpArgs(table, mode), env, w)
}

// dumpArgs builds the mysqldump command line for one table. Rows are written
// one INSERT per row; --single-transaction reads from a consistent snapshot
// without locking tables of the running server.
func (m *MySQLDatabase) dumpArgs(table string, mode domain.DumpMode) []string {
	var args []string

	// must come first on the mysqldump command line
	if m.config.CredentialsFile != "" {
		args = append(args, fmt.Sprintf("--defaults-extra-file=%s", m.config.CredentialsFile))
	}

	args = append(args,
		fmt.Sprintf("--host=%s", m.config.Host),
		fmt.Sprintf("--port=%d", m.config.Port),
		fmt.Sprintf("--user=%s", m.config.Username),
		"--opt",
		"--single-transaction",
		"--skip-lock-tables",
	)

	if mode == domain.DumpSchemaOnly {
		args = append(args, "--no-data")
	} else {
		args = append(args, "--extended-insert=FALSE")
	}

	return append(args, m.config.Database, table)
}

func (m *MySQLDatabase) GetName() string {
	return m.config.Database
}

func (m *MySQLDatabase) GetType() string {
	return config.TypeMySQL
}

func (m *MySQLDatabase) Close() error {
	if m.db == nil {
		return nil
	}
	err := m.db.Close()
	m.db = nil
	return err
}

func scanNames(rows *sql.Rows) ([]string, error) {
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan table name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read table list: %w", err)
	}
	return names, nil
}
