package reporting

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	logger "github.com/sirupsen/logrus"
)

const insertReading = `INSERT INTO readings (node, reading, value, recorded_at) VALUES ($1, $2, $3, $4)`

// tx is the part of *sql.Tx a report write uses.
type tx interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	Commit() error
	Rollback() error
}

// Postgres writes one row per reading, all rows of a report in one
// transaction.
//
//	CREATE TABLE readings (
//	    node        text,
//	    reading     text,
//	    value       double precision,
//	    recorded_at timestamptz
//	);
type Postgres struct {
	begin func(ctx context.Context) (tx, error)
}

func OpenPostgres(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	return db, nil
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{begin: func(ctx context.Context) (tx, error) {
		return db.BeginTx(ctx, nil)
	}}
}

func (p *Postgres) Name() string {
	return "postgres"
}

func (p *Postgres) Record(ctx context.Context, r Report) error {
	t, err := p.begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	for _, x := range r.All() {
		if _, err := t.ExecContext(ctx, insertReading, r.Node, x.ID, x.Value, r.Time.UTC()); err != nil {
			if rbErr := t.Rollback(); rbErr != nil {
				logger.Warnf("Rollback failed [%v]", rbErr)
			}
			return fmt.Errorf("insert [%v]: %w", x.ID, err)
		}
	}
	return t.Commit()
}
