package config

import (
	"fmt"

	"github.com/semmidev/zabbix-backup/internal/domain"
	"gopkg.in/ini.v1"
)

// Credentials holds what a MySQL style option file provides in its
// [client] section.
type Credentials struct {
	User     string
	Password string
}

func ReadCredentialsFile(path string) (*Credentials, error) {
	file, err := ini.LoadSources(ini.LoadOptions{
		AllowBooleanKeys:        true,
		SkipUnrecognizableLines: true,
	}, path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read credentials file %s: %v", domain.ErrConfig, path, err)
	}

	section, err := file.GetSection("client")
	if err != nil {
		return nil, fmt.Errorf("%w: credentials file %s has no [client] section", domain.ErrConfig, path)
	}

	return &Credentials{
		User:     section.Key("user").String(),
		Password: section.Key("password").String(),
	}, nil
}

// Apply overrides user and password of db with the non-empty values of c.
func (c *Credentials) Apply(db *DatabaseConfig) {
	if c.User != "" {
		db.Username = c.User
	}
	if c.Password != "" {
		db.Password = c.Password
	}
}
