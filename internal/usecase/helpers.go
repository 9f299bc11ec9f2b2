package usecase

import (
	"fmt"
	"regexp"
	"time"
)

const (
	filePrefix      = "zabbix_cfg_"
	timestampLayout = "20060102-1504"
	dumpExt         = ".sql"
)

// BackupPrefix is the filename prefix shared by every backup of host.
// Storages are listed by it; backupPattern then decides what is a backup.
func BackupPrefix(host string) string {
	return filePrefix + host + "_"
}

// backupPattern matches only complete artifacts of host, so hosts sharing
// a prefix (db, db_replica) and foreign files are never rotated together.
func backupPattern(host string) *regexp.Regexp {
	return regexp.MustCompile(`^` + regexp.QuoteMeta(BackupPrefix(host)) +
		`\d{8}-\d{4}` + regexp.QuoteMeta(dumpExt) + `(\.gz|\.zst)?$`)
}

func backupFilename(host string, ts time.Time) string {
	return fmt.Sprintf("%s%s%s", BackupPrefix(host), ts.Format(timestampLayout), dumpExt)
}

func formatMB(size int64) float64 {
	return float64(size) / (1024 * 1024)
}
