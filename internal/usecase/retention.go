package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/semmidev/zabbix-backup/internal/domain"
)

type Retention struct {
	logger Logger
	keep   int
}

func NewRetention(logger Logger, keep int) *Retention {
	return &Retention{
		logger: logger,
		keep:   keep,
	}
}

// Apply keeps the newest backups of host on store and deletes the rest.
// Only names of the form zabbix_cfg_<host>_<YYYYMMDD-HHMM>.sql[.gz|.zst]
// count. Newest means latest modification time, then greatest name. A keep
// count of zero disables rotation. The first failed delete aborts.
func (uc *Retention) Apply(ctx context.Context, name string, store domain.Catalog, host string) ([]string, error) {
	if uc.keep <= 0 {
		return nil, nil
	}

	listed, err := store.List(ctx, BackupPrefix(host))
	if err != nil {
		return nil, fmt.Errorf("list %s backups: %w", name, err)
	}

	pattern := backupPattern(host)
	files := make([]domain.FileInfo, 0, len(listed))
	for _, f := range listed {
		if pattern.MatchString(f.Name) {
			files = append(files, f)
		}
	}

	stale := SelectStale(files, uc.keep)
	if len(stale) == 0 {
		uc.logger.Debugf("Retention on %s: %d backup(s), nothing to delete", name, len(files))
		return nil, nil
	}

	deleted := make([]string, 0, len(stale))
	for _, f := range stale {
		uc.logger.Infof("Deleting old backup from %s: %s", name, f.Name)
		if err := store.Delete(ctx, f.Name); err != nil {
			return deleted, fmt.Errorf("delete %s from %s: %w", f.Name, name, err)
		}
		deleted = append(deleted, f.Name)
	}

	uc.logger.Infof("Deleted %d old backup(s) from %s, kept %d", len(deleted), name, uc.keep)
	return deleted, nil
}

// SelectStale returns the files that fall outside the keep newest.
func SelectStale(files []domain.FileInfo, keep int) []domain.FileInfo {
	if keep <= 0 || len(files) <= keep {
		return nil
	}

	sorted := make([]domain.FileInfo, len(files))
	copy(sorted, files)
	sort.Slice(sorted, func(i, j int) bool {
		if !sorted[i].ModTime.Equal(sorted[j].ModTime) {
			return sorted[i].ModTime.After(sorted[j].ModTime)
		}
		return sorted[i].Name > sorted[j].Name
	})

	return sorted[keep:]
}
