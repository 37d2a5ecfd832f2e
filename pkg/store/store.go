package store

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/xhad/vidnotes/internal/types"
)

const (
	DriverNone     = "none"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	DefaultTableName = "notes"
)

// Open returns the notes archive selected by config.Driver. The "none"
// driver (or an empty one) yields a nil store and no error.
func Open(ctx context.Context, config types.StoreConfig) (types.NotesStore, error) {
	switch strings.ToLower(config.Driver) {
	case "", DriverNone:
		return nil, nil
	case DriverSQLite:
		s, err := NewSQLiteStore(SQLiteConfig{Path: config.URL, TableName: config.TableName})
		if err != nil {
			return nil, err
		}
		return s, nil
	case DriverPostgres:
		s, err := NewPostgresStore(ctx, PostgresConfig{ConnString: config.URL, TableName: config.TableName})
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", config.Driver)
	}
}

// sanitizeUTF8 drops invalid bytes so the text column accepts model output.
func sanitizeUTF8(s string) string {
	if !utf8.ValidString(s) {
		v := make([]rune, 0, len(s))
		for i, r := range s {
			if r == utf8.RuneError {
				_, size := utf8.DecodeRuneInString(s[i:])
				if size == 1 {
					continue
				}
			}
			v = append(v, r)
		}
		return string(v)
	}
	return s
}
