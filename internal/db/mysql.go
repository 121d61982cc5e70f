package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/rebeliceyang/lazydbm/internal/models"
	"github.com/rebeliceyang/lazydbm/internal/navtree"
)

// Schemas MySQL maintains for itself, kept out of the tree.
var mysqlSystemSchemas = map[string]bool{
	"information_schema": true,
	"mysql":              true,
	"performance_schema": true,
	"sys":                true,
}

type mysqlClient struct {
	db   *sql.DB
	conn models.Connection
}

func connectMySQL(ctx context.Context, conn models.Connection) (Client, error) {
	if conn.User == "" {
		return nil, fmt.Errorf("type mysql needs the user field")
	}
	if conn.Host == "" {
		return nil, fmt.Errorf("type mysql needs the host field")
	}
	if conn.Port == 0 {
		return nil, fmt.Errorf("type mysql needs the port field")
	}

	cfg := mysql.NewConfig()
	cfg.User = conn.User
	cfg.Passwd = conn.Password
	cfg.Net = "tcp"
	cfg.Addr = fmt.Sprintf("%s:%d", conn.Host, conn.Port)
	cfg.DBName = conn.Database

	db, err := sql.Open("mysql", cfg.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("open mysql connection: %w", err)
	}
	db.SetMaxOpenConns(5)
	db.SetConnMaxLifetime(time.Hour)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &mysqlClient{db: db, conn: conn}, nil
}

func (c *mysqlClient) Close() {
	if c.db != nil {
		c.db.Close()
	}
}

// ListStructure lists every non-system database (or just the configured
// one) with its tables as direct children.
func (c *mysqlClient) ListStructure(ctx context.Context) ([]navtree.Database, error) {
	var names []string
	if c.conn.Database != "" {
		names = []string{c.conn.Database}
	} else {
		rows, err := c.db.QueryContext(ctx, "SHOW DATABASES")
		if err != nil {
			return nil, err
		}
		defer rows.Close()
		for rows.Next() {
			var name string
			if err := rows.Scan(&name); err != nil {
				return nil, err
			}
			names = append(names, name)
		}
		if err := rows.Err(); err != nil {
			return nil, err
		}
	}

	var out []navtree.Database
	for _, name := range names {
		if mysqlSystemSchemas[name] {
			continue
		}
		tables, err := c.tablesOf(ctx, name)
		if err != nil {
			return nil, err
		}
		out = append(out, navtree.Database{Name: name, Children: tables})
	}
	return out, nil
}

func (c *mysqlClient) tablesOf(ctx context.Context, database string) ([]navtree.Child, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT TABLE_NAME
		FROM information_schema.TABLES
		WHERE TABLE_SCHEMA = ?
		ORDER BY TABLE_NAME`, database)
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
	return children, rows.Err()
}

func (c *mysqlClient) FetchRecords(ctx context.Context, database, _, table string, limit, offset int) (models.Records, error) {
	cols, err := c.columnNames(ctx, database, table)
	if err != nil {
		return models.Records{}, err
	}

	q := fmt.Sprintf("SELECT * FROM %s.%s LIMIT ? OFFSET ?",
		quoteBacktick(database), quoteBacktick(table))
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
		values := make([]sql.NullString, len(fields))
		dest := make([]any, len(values))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return models.Records{}, err
		}
		row := make([]string, len(values))
		for i, v := range values {
			if v.Valid {
				row[i] = v.String
			}
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return models.Records{}, err
	}
	return models.Records{Columns: cols, Rows: out}, nil
}

func (c *mysqlClient) FetchProperties(ctx context.Context, database, _, table string) (models.TableProperties, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT COLUMN_NAME, COLUMN_TYPE, IS_NULLABLE, COLUMN_DEFAULT, COLUMN_KEY
		FROM information_schema.COLUMNS
		WHERE TABLE_SCHEMA = ? AND TABLE_NAME = ?
		ORDER BY ORDINAL_POSITION`, database, table)
	if err != nil {
		return models.TableProperties{}, err
	}
	defer rows.Close()

	var props models.TableProperties
	for rows.Next() {
		var (
			col      models.ColumnProperty
			nullable string
			key      sql.NullString
		)
		if err := rows.Scan(&col.Name, &col.DataType, &nullable, &col.Default, &key); err != nil {
			return models.TableProperties{}, err
		}
		col.Nullable = strings.EqualFold(nullable, "YES")
		col.PrimaryKey = key.String == "PRI"
		props.Columns = append(props.Columns, col)
	}
	return props, rows.Err()
}

func (c *mysqlClient) columnNames(ctx context.Context, database, table string) ([]string, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT COLUMN_NAME
		FROM information_schema.COLUMNS
		WHERE TABLE_SCHEMA = ? AND TABLE_NAME = ?
		ORDER BY ORDINAL_POSITION`, database, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		cols = append(cols, name)
	}
	return cols, rows.Err()
}

func quoteBacktick(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}
