package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"

	"github.com/roomstock/inventory/pkg/errors"
	"github.com/roomstock/inventory/pkg/logging"
)

// Badger stores values in an embedded badger database.
type Badger struct {
	db *badger.DB
}

// NewBadger opens (or creates) a badger database at path. An empty path
// opens an in-memory database.
func NewBadger(path string, logger *zerolog.Logger) (*Badger, error) {
	if logger == nil {
		logger = logging.Default()
	}
	opts := badger.DefaultOptions(path).WithLogger(badgerLogger{logger})
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.WrapIO("open", path, err)
	}
	return &Badger{db: db}, nil
}

// Get implements patches.Durable.
func (b *Badger) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var value []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return nil
			}
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, errors.WrapIO("read", key, err)
	}
	return value, nil
}

// Put implements patches.Durable.
func (b *Badger) Put(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), value)
	})
	return errors.WrapIO("write", key, err)
}

// Delete implements patches.Durable. Deleting a missing key is not an error.
func (b *Badger) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
	return errors.WrapIO("delete", key, err)
}

// Close implements io.Closer.
func (b *Badger) Close() error {
	return b.db.Close()
}

// badgerLogger routes badger's internal messages to zerolog. Info and debug
// chatter is demoted to debug.
type badgerLogger struct {
	l *zerolog.Logger
}

func (b badgerLogger) Errorf(format string, args ...any) {
	b.l.Error().Str("component", "badger").Msg(trim(format, args))
}

func (b badgerLogger) Warningf(format string, args ...any) {
	b.l.Warn().Str("component", "badger").Msg(trim(format, args))
}

func (b badgerLogger) Infof(format string, args ...any) {
	b.l.Debug().Str("component", "badger").Msg(trim(format, args))
}

func (b badgerLogger) Debugf(format string, args ...any) {
	b.l.Trace().Str("component", "badger").Msg(trim(format, args))
}

func trim(format string, args []any) string {
	return strings.TrimSpace(fmt.Sprintf(format, args...))
}
