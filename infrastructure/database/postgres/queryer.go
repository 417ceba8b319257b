package postgres

import "database/sql"

// Queryer is the query surface the repositories depend on. Connection
// satisfies it through the embedded *sql.DB.
type Queryer interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	Query(query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(query string, args ...interface{}) *sql.Row
}

var (
	_ Queryer = (*Connection)(nil)
	_ Conn    = (*Connection)(nil)
)
