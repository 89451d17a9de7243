package database

import (
	"database/sql"

	"sunrise-school/app/services"
)

// querier is satisfied by both *sql.DB and *sql.Tx so every query method
// works inside and outside a transaction.
type querier interface {
	Query(query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(query string, args ...interface{}) *sql.Row
	Exec(query string, args ...interface{}) (sql.Result, error)
}

// Store is the Postgres implementation of the fee engine's store contract.
type Store struct {
	db *sql.DB
	q  querier
}

var _ services.EngineStore = (*Store)(nil)

func NewStore(db *sql.DB) *Store {
	return &Store{db: db, q: db}
}

// InTransaction runs fn against a transaction-bound copy of the store.
// Nested calls reuse the transaction already in flight.
func (s *Store) InTransaction(fn func(services.EngineStore) error) error {
	if _, ok := s.q.(*sql.Tx); ok {
		return fn(s)
	}
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(&Store{db: s.db, q: tx}); err != nil {
		return err
	}
	return tx.Commit()
}
