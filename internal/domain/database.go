package domain

import (
	"context"
	"io"
)

// DumpMode selects what the dump utility emits for a table.
type DumpMode int

const (
	DumpFull DumpMode = iota
	DumpSchemaOnly
)

func (m DumpMode) String() string {
	if m == DumpSchemaOnly {
		return "schema-only"
	}
	return "full"
}

// ModeFor maps a table category to the dump mode used for it.
func ModeFor(c Category) DumpMode {
	if c == CategoryData {
		return DumpSchemaOnly
	}
	return DumpFull
}

type Database interface {
	// CheckDumpTool verifies the external dump utility is available.
	CheckDumpTool() error
	ListTables(ctx context.Context) ([]string, error)
	DumpTable(ctx context.Context, table string, mode DumpMode, w io.Writer) error
	GetName() string
	GetType() string
	Close() error
}

// Snapshotter is implemented by databases that can pin every table dump of
// a run to one shared snapshot.
type Snapshotter interface {
	BeginSnapshot(ctx context.Context) (string, error)
	EndSnapshot() error
}
