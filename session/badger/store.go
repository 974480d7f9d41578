package badger

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	"github.com/poiesic/groundit/core"
	"github.com/poiesic/groundit/session"
)

// Store implements session.TranscriptStore on BadgerDB.
type Store struct {
	db     *badger.DB
	logger *slog.Logger
}

var _ session.TranscriptStore = (*Store)(nil)

// badgerLoggerAdapter adapts slog.Logger to badger.Logger interface.
type badgerLoggerAdapter struct {
	logger *slog.Logger
}

var _ badger.Logger = (*badgerLoggerAdapter)(nil)

func (bl *badgerLoggerAdapter) Errorf(msg string, items ...any) {
	bl.logger.Error(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Warningf(msg string, items ...any) {
	bl.logger.Warn(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Infof(msg string, items ...any) {
	bl.logger.Info(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Debugf(msg string, items ...any) {
	bl.logger.Debug(fmt.Sprintf(msg, items...))
}

// OpenStore opens a BadgerDB-backed transcript store at the specified path.
// Creates the directory if it doesn't exist. Pass inMemory to keep the
// transcript ephemeral.
func OpenStore(filePath string, inMemory bool) (*Store, error) {
	var opts badger.Options

	if inMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		info, err := os.Stat(filePath)
		if err != nil {
			if os.IsNotExist(err) {
				if err := os.MkdirAll(filePath, 0755); err != nil {
					return nil, err
				}
				info, err = os.Stat(filePath)
				if err != nil {
					return nil, err
				}
			} else {
				return nil, err
			}
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("%s is not a directory", filePath)
		}
		opts = badger.DefaultOptions(filePath)
	}

	opts.Logger = &badgerLoggerAdapter{logger: slog.Default()}
	opts.Compression = options.None

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &Store{
		db:     db,
		logger: slog.Default(),
	}, nil
}

// Close closes the BadgerDB database.
func (s *Store) Close() error {
	return s.db.Close()
}

// IsClosed returns true if the database is closed.
func (s *Store) IsClosed() bool {
	return s.db.IsClosed()
}

// withTx executes a function within a BadgerDB transaction.
// The transaction is automatically discarded if fn returns an error.
func (s *Store) withTx(fn func(tx *badger.Txn) error, isWrite bool) error {
	tx := s.db.NewTransaction(isWrite)
	defer tx.Discard()
	return fn(tx)
}

// AddTurns appends turns to the transcript. IDs are derived from turn
// content, so replaying the same turn is idempotent.
func (s *Store) AddTurns(ctx context.Context, turns ...*core.Turn) ([]*core.Turn, error) {
	for _, turn := range turns {
		if err := core.ValidateTurn(turn); err != nil {
			return nil, err
		}
	}

	err := s.withTx(func(tx *badger.Txn) error {
		for _, turn := range turns {
			if turn.CreatedAt.IsZero() {
				turn.CreatedAt = time.Now().UTC()
			}
			turn.Id = core.IDFromContent(turn.Content)

			key := makeTurnKey(turn.Id)
			value := session.MarshalTurn(turn)
			if err := tx.Set(key, value); err != nil {
				return err
			}

			dateKey := makeTurnDateKey(turn.CreatedAt, turn.Id)
			if err := tx.Set(dateKey, session.MarshalID(turn.Id)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return turns, err
}

// GetTurn retrieves a single turn by ID.
func (s *Store) GetTurn(ctx context.Context, id core.ID) (*core.Turn, error) {
	var result *core.Turn
	err := s.withTx(func(tx *badger.Txn) error {
		key := makeTurnKey(id)
		var err error
		result, err = readTurn(tx, key)
		if err != nil {
			return err
		}
		if result == nil {
			return session.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// RecentTurns retrieves up to limit turns in chronological order, ending
// with the most recent.
func (s *Store) RecentTurns(ctx context.Context, limit int) ([]*core.Turn, error) {
	if limit <= 0 {
		return nil, session.ErrInvalidLimit
	}

	var results []*core.Turn
	err := s.withTx(func(tx *badger.Txn) error {
		// Walk the date index backwards so the newest turns come first
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true

		iter := tx.NewIterator(opts)
		defer iter.Close()

		// Seek to the last possible key in the date index
		startKey := makePartialTurnDateKey(time.Date(9999, 12, 31, 23, 59, 59, 999999999, time.UTC))

		prefix := []byte(turnDatePrefix + ":")

		count := 0
		for iter.Seek(startKey); iter.Valid() && count < limit; iter.Next() {
			key := iter.Item().Key()

			if len(key) < len(prefix) || slices.Compare(key[:len(prefix)], prefix) != 0 {
				break
			}

			var turnID core.ID
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				turnID, err = session.UnmarshalID(val)
				return err
			}); err != nil {
				return err
			}

			turnKey := makeTurnKey(turnID)
			turn, err := readTurn(tx, turnKey)
			if err != nil {
				return err
			}
			if turn != nil {
				results = append(results, turn)
				count++
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	// Reverse so callers see oldest-first ordering
	slices.Reverse(results)
	return results, nil
}

// readTurn reads a turn from the transaction. Missing keys return nil
// without error.
func readTurn(tx *badger.Txn, key []byte) (*core.Turn, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var turn *core.Turn
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		turn, unmarshalErr = session.UnmarshalTurn(val)
		return unmarshalErr
	})
	return turn, err
}
