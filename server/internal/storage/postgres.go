package storage

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

// DB wraps the database connection and provides query methods
type DB struct {
	conn *sql.DB
}

// Config contains database connection configuration
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// DSN builds a lib/pq connection string
func (c Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// New creates a new database connection
func New(cfg Config) (*DB, error) {
	conn, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, err
	}

	// Test the connection
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, err
	}

	return &DB{conn: conn}, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// InitSchema creates all database tables
func (db *DB) InitSchema() error {
	schema := `
	-- Named keys for the gateway keyring
	CREATE TABLE IF NOT EXISTS named_keys (
		key_id VARCHAR(64) PRIMARY KEY,
		key_text TEXT NOT NULL,
		created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
		updated_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT
	);
	`

	_, err := db.conn.Exec(schema)
	return err
}

// Keyring operations

// SaveKey inserts or replaces a named key
func (db *DB) SaveKey(keyID, key string) error {
	_, err := db.conn.Exec(
		`INSERT INTO named_keys (key_id, key_text) VALUES ($1, $2)
		ON CONFLICT (key_id) DO UPDATE
		SET key_text = EXCLUDED.key_text, updated_at = EXTRACT(EPOCH FROM NOW())::BIGINT`,
		keyID, key,
	)
	return err
}

// DeleteKey removes a named key. Deleting a missing key is not an error.
func (db *DB) DeleteKey(keyID string) error {
	_, err := db.conn.Exec("DELETE FROM named_keys WHERE key_id = $1", keyID)
	return err
}

// LoadKeys returns every stored key by id
func (db *DB) LoadKeys() (map[string]string, error) {
	rows, err := db.conn.Query("SELECT key_id, key_text FROM named_keys ORDER BY key_id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	keys := make(map[string]string)
	for rows.Next() {
		var id, key string
		if err := rows.Scan(&id, &key); err != nil {
			return nil, err
		}
		keys[id] = key
	}
	return keys, rows.Err()
}
