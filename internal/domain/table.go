package domain

// Category tells how much of a table ends up in the backup.
type Category int

const (
	// CategoryConfig tables are dumped with schema and rows.
	CategoryConfig Category = iota
	// CategoryData tables hold monitoring history and are dumped schema-only.
	CategoryData
)

func (c Category) String() string {
	switch c {
	case CategoryData:
		return "data"
	default:
		return "config"
	}
}

// TableEntry is one row of the known-table registry. Since and Until record
// the Zabbix versions the table exists in; they are informational only.
type TableEntry struct {
	Name     string
	Category Category
	Since    string
	Until    string
}
