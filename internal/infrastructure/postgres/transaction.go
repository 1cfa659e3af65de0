package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// PostgreSQL のエラーコード
const (
	codeUniqueViolation      = "23505"
	codeForeignKeyViolation  = "23503"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
)

// readCommitted は予約台帳の読み書きで使う分離レベル
var readCommitted = &sql.TxOptions{Isolation: sql.LevelReadCommitted}

// withTx は fn を1つのトランザクションで実行する。
// fn がエラーを返した場合、または ctx がキャンセルされた場合はロールバックされ、何も残らない
func withTx(ctx context.Context, db *sqlx.DB, opts *sql.TxOptions, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, opts)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck // コミット後のロールバックは ErrTxDone を返すだけ

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// pqError はエラーチェーンから *pq.Error を取り出す
func pqError(err error) (*pq.Error, bool) {
	var pgErr *pq.Error
	if errors.As(err, &pgErr) {
		return pgErr, true
	}
	return nil, false
}
