package database

import (
	"fmt"

	"github.com/semmidev/zabbix-backup/internal/config"
	"github.com/semmidev/zabbix-backup/internal/domain"
)

// New returns the adapter for the configured database engine.
func New(cfg *config.DatabaseConfig) (domain.Database, error) {
	switch cfg.Type {
	case config.TypeMySQL:
		return NewMySQL(cfg), nil
	case config.TypePostgreSQL:
		return NewPostgreSQL(cfg), nil
	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.Type)
	}
}
