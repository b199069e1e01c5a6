/*
Package postgres loads records into a PostgreSQL jsonb column with COPY.
*/
package postgres

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/omniscale/osmjson/database"
	"github.com/omniscale/osmjson/logging"
	"github.com/pkg/errors"
)

var log = logging.NewLogger("postgres")

const (
	DefaultSchema = "public"
	DefaultTable  = "osm_records"
	column        = "record"
)

func init() {
	database.Register("postgres", New)
	database.Register("postgresql", New)
}

type Postgres struct {
	Db     *sql.DB
	Params string
	Schema string
	Table  string
	tx     *sql.Tx
	stmt   *sql.Stmt
}

// New connects to the database of the postgres:// URL in conf.
func New(conf database.Config) (database.DB, error) {
	params, err := pq.ParseURL(conf.ConnectionParams)
	if err != nil {
		return nil, errors.Wrap(err, "parsing connection URL")
	}
	params = disableDefaultSslOnLocalhost(params)

	pg := &Postgres{
		Params: params,
		Schema: conf.Schema,
		Table:  conf.Table,
	}
	if pg.Schema == "" {
		pg.Schema = DefaultSchema
	}
	if pg.Table == "" {
		pg.Table = DefaultTable
	}

	pg.Db, err = sql.Open("postgres", pg.Params)
	if err != nil {
		return nil, err
	}
	if err := pg.Db.Ping(); err != nil {
		pg.Db.Close()
		return nil, errors.Wrap(err, "connecting to database")
	}
	return pg, nil
}

// FullName returns the quoted schema and table name.
func (pg *Postgres) FullName() string {
	return pq.QuoteIdentifier(pg.Schema) + "." + pq.QuoteIdentifier(pg.Table)
}

func (pg *Postgres) Init() error {
	stmts := []string{
		fmt.Sprintf(`CREATE SCHEMA IF NOT EXISTS %s`, pq.QuoteIdentifier(pg.Schema)),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (%s jsonb NOT NULL)`, pg.FullName(), column),
	}
	for _, stmt := range stmts {
		if _, err := pg.Db.Exec(stmt); err != nil {
			return errors.Wrapf(err, "initializing %s", pg.FullName())
		}
	}
	return nil
}

func (pg *Postgres) Begin() error {
	tx, err := pg.Db.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare(pq.CopyInSchema(pg.Schema, pg.Table, column))
	if err != nil {
		tx.Rollback()
		return errors.Wrapf(err, "starting COPY into %s", pg.FullName())
	}
	pg.tx = tx
	pg.stmt = stmt
	log.Printf("loading records into %s", pg.FullName())
	return nil
}

func (pg *Postgres) Insert(record []byte) error {
	if pg.stmt == nil {
		return errors.New("insert without transaction")
	}
	_, err := pg.stmt.Exec(string(record))
	return err
}

// End flushes the COPY and commits.
func (pg *Postgres) End() error {
	if pg.tx == nil {
		return errors.New("no transaction")
	}
	if _, err := pg.stmt.Exec(); err != nil {
		pg.Abort()
		return errors.Wrap(err, "finishing COPY")
	}
	if err := pg.stmt.Close(); err != nil {
		pg.Abort()
		return err
	}
	pg.stmt = nil
	err := pg.tx.Commit()
	pg.tx = nil
	return err
}

func (pg *Postgres) Abort() error {
	if pg.stmt != nil {
		pg.stmt.Close()
		pg.stmt = nil
	}
	if pg.tx == nil {
		return nil
	}
	err := pg.tx.Rollback()
	pg.tx = nil
	return err
}

func (pg *Postgres) Close() error {
	return pg.Db.Close()
}

// disableDefaultSslOnLocalhost adds sslmode=disable to localhost connections
// without explicit sslmode.
func disableDefaultSslOnLocalhost(params string) string {
	parts := strings.Fields(params)
	isLocalHost := false
	for _, p := range parts {
		if strings.HasPrefix(p, "sslmode=") {
			return params
		}
		if p == "host=localhost" || p == "host=127.0.0.1" {
			isLocalHost = true
		}
	}

	if !isLocalHost {
		return params
	}

	return params + " sslmode=disable"
}
