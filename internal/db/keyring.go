package db

import (
	"fmt"
	"runtime"

	"github.com/99designs/keyring"

	"github.com/rebeliceyang/lazydbm/internal/models"
)

const keyringService = "lazydbm"

// PasswordStore keeps network connection passwords in the OS keyring so
// they can stay out of the config files.
type PasswordStore struct {
	ring keyring.Keyring
}

// OpenPasswordStore opens the platform keyring, falling back to nothing
// rather than a file store: a missing keyring only means passwords must
// live in the config.
func OpenPasswordStore() (*PasswordStore, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName:     keyringService,
		AllowedBackends: keyringBackends(),
	})
	if err != nil {
		return nil, fmt.Errorf("open keyring: %w", err)
	}
	return &PasswordStore{ring: ring}, nil
}

func keyringBackends() []keyring.BackendType {
	switch runtime.GOOS {
	case "darwin":
		return []keyring.BackendType{keyring.KeychainBackend}
	case "linux":
		return []keyring.BackendType{keyring.SecretServiceBackend, keyring.KWalletBackend}
	case "windows":
		return []keyring.BackendType{keyring.WinCredBackend}
	default:
		return nil
	}
}

// Save stores a password under the connection's identity key.
func (ps *PasswordStore) Save(conn models.Connection, password string) error {
	if password == "" {
		return nil
	}
	return ps.ring.Set(keyring.Item{
		Key:   passwordKey(conn),
		Data:  []byte(password),
		Label: fmt.Sprintf("lazydbm: %s@%s:%d/%s", conn.User, conn.Host, conn.Port, conn.Database),
	})
}

// Get returns the stored password, or empty when none is stored.
func (ps *PasswordStore) Get(conn models.Connection) string {
	item, err := ps.ring.Get(passwordKey(conn))
	if err != nil {
		return ""
	}
	return string(item.Data)
}

func passwordKey(conn models.Connection) string {
	return fmt.Sprintf("%s:%s:%d:%s:%s", conn.Type, conn.Host, conn.Port, conn.Database, conn.User)
}

type passwordSaver interface {
	Save(conn models.Connection, password string) error
}

// rememberConnected writes a config-supplied network password to the
// keyring after a successful connect. Storage is best effort; a failed
// save leaves the config as the source of the password.
func rememberConnected(conn models.Connection) {
	store, err := OpenPasswordStore()
	if err != nil {
		return
	}
	savePassword(store, conn)
}

func savePassword(saver passwordSaver, conn models.Connection) {
	if conn.Type == models.DatabaseTypeSQLite || conn.Password == "" {
		return
	}
	_ = saver.Save(conn, conn.Password)
}

// withStoredPassword fills an empty password for network backends from
// the keyring. SQLite connections pass through untouched.
func withStoredPassword(conn models.Connection) models.Connection {
	if conn.Type == models.DatabaseTypeSQLite || conn.Password != "" {
		return conn
	}
	store, err := OpenPasswordStore()
	if err != nil {
		return conn
	}
	conn.Password = store.Get(conn)
	return conn
}
