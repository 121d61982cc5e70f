package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/rebeliceyang/lazydbm/internal/models"
	"github.com/rebeliceyang/lazydbm/internal/navtree"
)

type sqliteClient struct {
	db   *sql.DB
	name string
}

func connectSQLite(conn models.Connection) (Client, error) {
	path, err := expandPath(conn.Path)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("sqlite file %s: %w", path, err)
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite file: %w", err)
	}

	name := conn.Name
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if name == "" {
		name = "sqlite"
	}
	return &sqliteClient{db: db, name: name}, nil
}

func (c *sqliteClient) Close() {
	if c.db != nil {
		c.db.Close()
	}
}

// ListStructure returns the single file as one database whose children
// are the user tables.
func (c *sqliteClient) ListStructure(ctx context.Context) ([]navtree.Database, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT name FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
		ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var children []navtree.Child
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		children = append(children, navtree.TableChild(navtree.Table{Name: name}))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return []navtree.Database{{Name: c.name, Children: children}}, nil
}

func (c *sqliteClient) FetchRecords(ctx context.Context, _, _, table string, limit, offset int) (models.Records, error) {
	props, err := c.FetchProperties(ctx, "", "", table)
	if err != nil {
		return models.Records{}, err
	}
	cols := make([]string, len(props.Columns))
	for i, col := range props.Columns {
		cols[i] = col.Name
	}

	q := fmt.Sprintf("SELECT * FROM %s LIMIT ? OFFSET ?", quoteIdent(table))
	rows, err := c.db.QueryContext(ctx, q, limit, offset)
	if err != nil {
		return models.Records{}, err
	}
	defer rows.Close()

	fields, err := rows.Columns()
	if err != nil {
		return models.Records{}, err
	}

	var out [][]string
	for rows.Next() {
		values := make([]any, len(fields))
		dest := make([]any, len(fields))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return models.Records{}, err
		}
		row := make([]string, len(values))
		for i, v := range values {
			row[i] = renderCell(v)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return models.Records{}, err
	}
	return models.Records{Columns: cols, Rows: out}, nil
}

// FetchProperties reads PRAGMA table_info, which reports columns in
// declaration order.
func (c *sqliteClient) FetchProperties(ctx context.Context, _, _, table string) (models.TableProperties, error) {
	q := fmt.Sprintf("PRAGMA table_info(%s)", quoteIdent(table))
	rows, err := c.db.QueryContext(ctx, q)
	if err != nil {
		return models.TableProperties{}, err
	}
	defer rows.Close()

	var props models.TableProperties
	for rows.Next() {
		var (
			cid     int
			col     models.ColumnProperty
			notNull int
			pk      int
		)
		if err := rows.Scan(&cid, &col.Name, &col.DataType, &notNull, &col.Default, &pk); err != nil {
			return models.TableProperties{}, err
		}
		col.Nullable = notNull == 0
		col.PrimaryKey = pk > 0
		props.Columns = append(props.Columns, col)
	}
	return props, rows.Err()
}

// renderCell stringifies a driver value conservatively. Blobs show
// their size instead of raw bytes.
func renderCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case []byte:
		if isPrintable(x) {
			return string(x)
		}
		return fmt.Sprintf("<blob %d bytes>", len(x))
	case string:
		return x
	default:
		return fmt.Sprintf("%v", x)
	}
}

func isPrintable(b []byte) bool {
	for _, c := range b {
		if c < 0x09 {
			return false
		}
	}
	return true
}
