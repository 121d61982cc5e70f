package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rebeliceyang/lazydbm/internal/models"
	"github.com/rebeliceyang/lazydbm/internal/navtree"
)

type postgresClient struct {
	pool *pgxpool.Pool
	conn models.Connection
}

func connectPostgres(ctx context.Context, conn models.Connection) (Client, error) {
	u, err := URL(conn)
	if err != nil {
		return nil, err
	}
	poolConfig, err := pgxpool.ParseConfig(u)
	if err != nil {
		return nil, fmt.Errorf("parse connection config: %w", err)
	}
	poolConfig.MaxConns = 5
	poolConfig.MinConns = 1
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &postgresClient{pool: pool, conn: conn}, nil
}

func (c *postgresClient) Close() {
	if c.pool != nil {
		c.pool.Close()
	}
}

// ListStructure groups the connected database's tables by schema,
// skipping the catalog schemas.
func (c *postgresClient) ListStructure(ctx context.Context) ([]navtree.Database, error) {
	rows, err := c.pool.Query(ctx, `
		SELECT table_schema, table_name
		FROM information_schema.tables
		WHERE table_type = 'BASE TABLE'
		  AND table_schema NOT IN ('pg_catalog', 'information_schema')
		ORDER BY table_schema, table_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var order []string
	tables := make(map[string][]navtree.Table)
	for rows.Next() {
		var schema, table string
		if err := rows.Scan(&schema, &table); err != nil {
			return nil, err
		}
		if _, seen := tables[schema]; !seen {
			order = append(order, schema)
		}
		tables[schema] = append(tables[schema], navtree.Table{Name: table, Schema: schema})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	dbName := c.conn.Database
	if dbName == "" {
		dbName = "postgres"
	}
	children := make([]navtree.Child, 0, len(order))
	for _, schema := range order {
		children = append(children, navtree.SchemaChild(navtree.Schema{
			Name:   schema,
			Tables: tables[schema],
		}))
	}
	return []navtree.Database{{Name: dbName, Children: children}}, nil
}

// FetchRecords casts every column to text so cells arrive as strings
// regardless of their declared type.
func (c *postgresClient) FetchRecords(ctx context.Context, _, schema, table string, limit, offset int) (models.Records, error) {
	cols, err := c.columnNames(ctx, schema, table)
	if err != nil {
		return models.Records{}, err
	}

	selectList := "*"
	if len(cols) > 0 {
		quoted := make([]string, len(cols))
		for i, col := range cols {
			quoted[i] = quoteIdent(col) + "::text"
		}
		selectList = strings.Join(quoted, ", ")
	}
	q := fmt.Sprintf("SELECT %s FROM %s.%s LIMIT $1 OFFSET $2",
		selectList, quoteIdent(schema), quoteIdent(table))

	rows, err := c.pool.Query(ctx, q, limit, offset)
	if err != nil {
		return models.Records{}, err
	}
	defer rows.Close()

	var out [][]string
	for rows.Next() {
		values := make([]*string, len(rows.FieldDescriptions()))
		dest := make([]any, len(values))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return models.Records{}, err
		}
		row := make([]string, len(values))
		for i, v := range values {
			if v != nil {
				row[i] = *v
			}
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return models.Records{}, err
	}

	if len(cols) == 0 {
		cols = []string{"(no columns)"}
	}
	return models.Records{Columns: cols, Rows: out}, nil
}

func (c *postgresClient) FetchProperties(ctx context.Context, _, schema, table string) (models.TableProperties, error) {
	rows, err := c.pool.Query(ctx, `
		SELECT c.column_name, c.data_type, c.is_nullable, c.column_default,
		       EXISTS (
		           SELECT 1
		           FROM information_schema.table_constraints tc
		           JOIN information_schema.key_column_usage kcu
		             ON tc.constraint_name = kcu.constraint_name
		            AND tc.table_schema = kcu.table_schema
		           WHERE tc.constraint_type = 'PRIMARY KEY'
		             AND tc.table_schema = c.table_schema
		             AND tc.table_name = c.table_name
		             AND kcu.column_name = c.column_name
		       ) AS primary_key
		FROM information_schema.columns c
		WHERE c.table_schema = $1 AND c.table_name = $2
		ORDER BY c.ordinal_position`, schema, table)
	if err != nil {
		return models.TableProperties{}, err
	}
	defer rows.Close()

	var props models.TableProperties
	for rows.Next() {
		var (
			col      models.ColumnProperty
			nullable string
		)
		if err := rows.Scan(&col.Name, &col.DataType, &nullable, &col.Default, &col.PrimaryKey); err != nil {
			return models.TableProperties{}, err
		}
		col.Nullable = strings.EqualFold(nullable, "YES")
		props.Columns = append(props.Columns, col)
	}
	return props, rows.Err()
}

func (c *postgresClient) columnNames(ctx context.Context, schema, table string) ([]string, error) {
	rows, err := c.pool.Query(ctx, `
		SELECT column_name
		FROM information_schema.columns
		WHERE table_schema = $1 AND table_name = $2
		ORDER BY ordinal_position`, schema, table)
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

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
