// Package db holds the backend drivers behind one small capability
// set: list the structure, page through records, describe a table, and
// hand the terminal to the backend's interactive CLI. The variant set
// is closed, so every dispatch is an exhaustive switch on the type.
package db

import (
	"context"
	"fmt"
	"net/url"
	"os/exec"

	"github.com/rebeliceyang/lazydbm/internal/models"
	"github.com/rebeliceyang/lazydbm/internal/navtree"
)

// DefaultRecordLimit is the page size for record fetches.
const DefaultRecordLimit = 200

// Client is one open connection. Implementations are safe to call from
// a background worker; Close releases the underlying pool or handle.
type Client interface {
	// ListStructure returns the full database > schema > table tree.
	ListStructure(ctx context.Context) ([]navtree.Database, error)
	// FetchRecords pages through a table, every cell rendered to text.
	FetchRecords(ctx context.Context, database, schema, table string, limit, offset int) (models.Records, error)
	// FetchProperties describes a table's columns in declaration order.
	FetchProperties(ctx context.Context, database, schema, table string) (models.TableProperties, error)
	Close()
}

// Connect validates the connection definition, resolves a missing
// password from the system keyring, dials, and pings. A password that
// came from the config is written back to the keyring once the
// connection is known to work.
func Connect(ctx context.Context, conn models.Connection) (Client, error) {
	switch conn.Type {
	case models.DatabaseTypePostgres:
		client, err := connectPostgres(ctx, withStoredPassword(conn))
		if err != nil {
			return nil, err
		}
		rememberConnected(conn)
		return client, nil
	case models.DatabaseTypeMySQL:
		client, err := connectMySQL(ctx, withStoredPassword(conn))
		if err != nil {
			return nil, err
		}
		rememberConnected(conn)
		return client, nil
	case models.DatabaseTypeSQLite:
		return connectSQLite(conn)
	}
	return nil, fmt.Errorf("unsupported database type %q", conn.Type)
}

// URL builds the backend's native connection URL, password included.
// It is what the interactive CLI tools accept as their first argument.
func URL(conn models.Connection) (string, error) {
	switch conn.Type {
	case models.DatabaseTypePostgres:
		return networkURL("postgres", conn)
	case models.DatabaseTypeMySQL:
		return networkURL("mysql", conn)
	case models.DatabaseTypeSQLite:
		path, err := expandPath(conn.Path)
		if err != nil {
			return "", err
		}
		return "sqlite://" + path, nil
	}
	return "", fmt.Errorf("unsupported database type %q", conn.Type)
}

// Descriptor is the display form of a connection: the native URL with
// the password elided, shown in the picker and the dashboard title.
func Descriptor(conn models.Connection) string {
	masked := conn
	masked.Password = ""
	u, err := URL(masked)
	if err != nil {
		return "invalid config"
	}
	return u
}

// CLIToolName returns the interactive client for the backend.
func CLIToolName(t models.DatabaseType) string {
	switch t {
	case models.DatabaseTypePostgres:
		return "pgcli"
	case models.DatabaseTypeMySQL:
		return "mycli"
	case models.DatabaseTypeSQLite:
		return "litecli"
	}
	return ""
}

// CLIToolAvailable reports whether the backend's CLI is on PATH.
func CLIToolAvailable(t models.DatabaseType) bool {
	_, err := exec.LookPath(CLIToolName(t))
	return err == nil
}

// CLICommand builds the command that takes over the terminal.
func CLICommand(conn models.Connection) (*exec.Cmd, error) {
	tool := CLIToolName(conn.Type)
	if tool == "" {
		return nil, fmt.Errorf("unsupported database type %q", conn.Type)
	}
	path, err := exec.LookPath(tool)
	if err != nil {
		return nil, fmt.Errorf("%s is not installed: %w", tool, err)
	}
	if conn.Type == models.DatabaseTypeSQLite {
		file, err := expandPath(conn.Path)
		if err != nil {
			return nil, err
		}
		return exec.Command(path, file), nil
	}
	u, err := URL(withStoredPassword(conn))
	if err != nil {
		return nil, err
	}
	return exec.Command(path, u), nil
}

func networkURL(scheme string, conn models.Connection) (string, error) {
	if conn.User == "" {
		return "", fmt.Errorf("type %s needs the user field", scheme)
	}
	if conn.Host == "" {
		return "", fmt.Errorf("type %s needs the host field", scheme)
	}
	if conn.Port == 0 {
		return "", fmt.Errorf("type %s needs the port field", scheme)
	}
	u := url.URL{
		Scheme: scheme,
		User:   url.User(conn.User),
		Host:   fmt.Sprintf("%s:%d", conn.Host, conn.Port),
	}
	if conn.Password != "" {
		u.User = url.UserPassword(conn.User, conn.Password)
	}
	if conn.Database != "" {
		u.Path = "/" + conn.Database
	}
	return u.String(), nil
}
