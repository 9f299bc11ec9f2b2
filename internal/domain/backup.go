package domain

import (
	"context"
	"time"
)

// BackupRun describes a single invocation of the backup pipeline. It lives
// only for the duration of the run.
type BackupRun struct {
	HostIdentifier string
	Timestamp      time.Time
	OutputPath     string
	Tables         []TableResult
	Size           int64
	Duration       time.Duration
}

type TableResult struct {
	Name     string
	Category Category
}

// SchemaOnlyTables returns the names of tables that were dumped without rows.
func (r *BackupRun) SchemaOnlyTables() []string {
	var names []string
	for _, t := range r.Tables {
		if t.Category == CategoryData {
			names = append(names, t.Name)
		}
	}
	return names
}

type BackupExecutor interface {
	Execute(ctx context.Context) error
}
