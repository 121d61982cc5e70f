package models

// DatabaseType identifies a supported backend. The set is closed: every
// switch over it in internal/db handles all three members.
type DatabaseType string

const (
	DatabaseTypePostgres DatabaseType = "postgres"
	DatabaseTypeMySQL    DatabaseType = "mysql"
	DatabaseTypeSQLite   DatabaseType = "sqlite"
)

// Connection is a named connection descriptor from the config file.
// Network backends use User/Host/Port/Database/Password; sqlite uses Path.
type Connection struct {
	Type     DatabaseType `mapstructure:"type"`
	Name     string       `mapstructure:"name"`
	User     string       `mapstructure:"user"`
	Host     string       `mapstructure:"host"`
	Port     int          `mapstructure:"port"`
	Database string       `mapstructure:"database"`
	Password string       `mapstructure:"password"`
	Path     string       `mapstructure:"path"`
}

// Records is one page of table data, every cell already stringified.
type Records struct {
	Columns []string
	Rows    [][]string
}

// ColumnProperty describes one column of a table.
type ColumnProperty struct {
	Name       string
	DataType   string
	Nullable   bool
	Default    *string
	PrimaryKey bool
}

// TableProperties is the ordered column metadata for a table.
type TableProperties struct {
	Columns []ColumnProperty
}
