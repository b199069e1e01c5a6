/*
Package database provides sinks that bulk-load records into databases.
*/
package database

import (
	"strings"

	"github.com/pkg/errors"
)

type Config struct {
	ConnectionParams string
	Schema           string
	Table            string
}

// DB loads records within a single transaction:
// Init, Begin, Insert..., End (or Abort), Close.
type DB interface {
	// Init creates the target table if it does not exist.
	Init() error
	Begin() error
	// Insert adds a single JSON encoded record.
	Insert(record []byte) error
	End() error
	Abort() error
	Close() error
}

var databases = make(map[string]func(Config) (DB, error))

func Register(name string, f func(Config) (DB, error)) {
	databases[name] = f
}

// Open returns the DB registered for the scheme of the connection URL.
func Open(conf Config) (DB, error) {
	connType := ConnectionType(conf.ConnectionParams)
	newFunc, ok := databases[connType]
	if !ok {
		return nil, errors.New("unsupported database type: " + connType)
	}

	db, err := newFunc(conf)
	if err != nil {
		return nil, err
	}
	return db, nil
}

// ConnectionType returns the scheme of a connection URL, e.g. postgres.
func ConnectionType(param string) string {
	parts := strings.SplitN(param, ":", 2)
	return parts[0]
}
