package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store bundles the catalog and ledger repositories over one database handle
type Store interface {
	Categories() CategoryRepository
	Products() ProductRepository
	Transactions() TransactionRepository
	Users() UserRepository

	// Atomic runs fn as a single unit of work. Every repository reached through
	// the Store handed to fn shares one database transaction: fn returning an
	// error (or panicking) rolls all of it back, returning nil commits it.
	Atomic(ctx context.Context, fn func(tx Store) error) error
}

type store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) Store {
	return &store{db}
}

func (s *store) Categories() CategoryRepository {
	return NewCategoryRepo(s.db)
}

func (s *store) Products() ProductRepository {
	return NewProductRepo(s.db)
}

func (s *store) Transactions() TransactionRepository {
	return NewTransactionRepo(s.db)
}

func (s *store) Users() UserRepository {
	return NewUserRepo(s.db)
}

func (s *store) Atomic(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&store{tx})
	})
}

// forUpdate adds a row lock for dialects that have one.
// SQLite serializes writers on the whole database instead.
func forUpdate(db *gorm.DB) *gorm.DB {
	if db.Dialector.Name() == "sqlite" {
		return db
	}
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// containsPattern builds a LIKE pattern matching term literally anywhere in
// the value. Use it with ESCAPE '\'.
func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}
