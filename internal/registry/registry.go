package registry

import (
	"fmt"
	"sort"

	"github.com/semmidev/zabbix-backup/internal/domain"
)

// MinDataTables is the lowest number of data tables a sane registry holds.
// Fewer means the embedded list was truncated and history tables would be
// dumped with all their rows.
const MinDataTables = 5

type Registry struct {
	entries []domain.TableEntry
	index   map[string]domain.Category
}

// New builds a registry from entries. Duplicates are kept in the entry list
// so Validate can report them.
func New(entries []domain.TableEntry) *Registry {
	index := make(map[string]domain.Category, len(entries))
	for _, e := range entries {
		if _, ok := index[e.Name]; !ok {
			index[e.Name] = e.Category
		}
	}
	return &Registry{entries: entries, index: index}
}

// Zabbix returns the registry of tables known from Zabbix 1.3.1 to 2.4.0.
func Zabbix() *Registry {
	return New(zabbixTables)
}

// Classify returns the category of table. Tables the registry does not know
// are treated as configuration and dumped in full.
func (r *Registry) Classify(table string) domain.Category {
	if c, ok := r.index[table]; ok {
		return c
	}
	return domain.CategoryConfig
}

func (r *Registry) Known(table string) bool {
	_, ok := r.index[table]
	return ok
}

func (r *Registry) Len() int {
	return len(r.entries)
}

// DataTables returns the sorted names of all data tables.
func (r *Registry) DataTables() []string {
	var names []string
	for name, c := range r.index {
		if c == domain.CategoryData {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Validate checks the registry invariants: names are unique and at least
// MinDataTables entries are data tables.
func (r *Registry) Validate() error {
	seen := make(map[string]struct{}, len(r.entries))
	for _, e := range r.entries {
		if e.Name == "" {
			return fmt.Errorf("%w: entry with empty table name", domain.ErrRegistry)
		}
		if _, dup := seen[e.Name]; dup {
			return fmt.Errorf("%w: duplicate table %q", domain.ErrRegistry, e.Name)
		}
		seen[e.Name] = struct{}{}
	}

	if n := len(r.DataTables()); n < MinDataTables {
		return fmt.Errorf("%w: only %d data tables registered, need at least %d",
			domain.ErrRegistry, n, MinDataTables)
	}

	return nil
}
