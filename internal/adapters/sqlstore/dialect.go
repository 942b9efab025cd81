package sqlstore

import (
	"database/sql"
	"strconv"
	"strings"

	"github.com/lib/pq"
)

// Dialect selects placeholder style and schema files for a connection.
type Dialect int

const (
	// SQLite covers both the local modernc driver and libsql.
	SQLite Dialect = iota
	Postgres
)

// DialectOf reports the dialect of the driver behind db.
func DialectOf(db *sql.DB) Dialect {
	if _, ok := db.Driver().(*pq.Driver); ok {
		return Postgres
	}
	return SQLite
}

func (d Dialect) String() string {
	if d == Postgres {
		return "postgres"
	}
	return "sqlite"
}

// MigrationsDir is the directory under the embedded migrations that holds
// this dialect's schema.
func (d Dialect) MigrationsDir() string {
	return d.String()
}

// Rebind rewrites ? placeholders to $1, $2, ... for Postgres. Question marks
// inside single-quoted literals are left alone.
func (d Dialect) Rebind(query string) string {
	if d != Postgres || !strings.Contains(query, "?") {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	quoted := false
	for i := 0; i < len(query); i++ {
		c := query[i]
		switch {
		case c == '\'':
			quoted = !quoted
			b.WriteByte(c)
		case c == '?' && !quoted:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
