package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
)

type ctxTxKey struct{}

// SQLTransactor implements domain.Transactor over sqlx. The open transaction
// travels through the context, so repositories called inside WithinTx issue
// their statements on it without any signature changes.
type SQLTransactor struct {
	db *sqlx.DB
}

func NewSQLTransactor(db *sqlx.DB) *SQLTransactor {
	return &SQLTransactor{db: db}
}

func (t *SQLTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if txFromContext(ctx) != nil {
		// Nested call joins the ambient transaction.
		return fn(ctx)
	}

	tx, err := t.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	if err := fn(context.WithValue(ctx, ctxTxKey{}, tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
			log.Printf("[TX] rollback failed: %v", rbErr)
		}
		return err
	}

	return tx.Commit()
}

func txFromContext(ctx context.Context) *sqlx.Tx {
	tx, _ := ctx.Value(ctxTxKey{}).(*sqlx.Tx)
	return tx
}

// ext returns the ambient transaction when one is open, the pool otherwise.
func ext(ctx context.Context, db *sqlx.DB) sqlx.ExtContext {
	if tx := txFromContext(ctx); tx != nil {
		return tx
	}
	return db
}
