package vault

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"go.uber.org/zap"
)

const keyPrefix = "secret:"

// BadgerStore keeps secrets in a local BadgerDB. It is the fallback backend
// for hosts with no OS keyring available.
type BadgerStore struct {
	db     *badger.DB
	logger *zap.Logger
}

func NewBadgerStore(dataDir string, logger *zap.Logger) (*BadgerStore, error) {
	opts := badger.DefaultOptions(dataDir).
		WithLogger(newBadgerLogger(logger))

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open vault database: %w", err)
	}

	return &BadgerStore{
		db:     db,
		logger: logger,
	}, nil
}

func (s *BadgerStore) Get(_ context.Context, service, key string) (string, error) {
	var value string

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(storageKey(service, key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("%w: %s/%s", ErrNotFound, service, key)
		}
		if err != nil {
			return fmt.Errorf("%w: %w", ErrBackendFailure, err)
		}

		return item.Value(func(val []byte) error {
			value = string(val)
			return nil
		})
	})
	if err != nil {
		return "", err
	}

	return value, nil
}

func (s *BadgerStore) Set(_ context.Context, service, key, value string) error {
	if strings.TrimSpace(value) == "" {
		return ErrEmptyValue
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(storageKey(service, key), []byte(value))
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBackendFailure, err)
	}

	s.logger.Debug("secret stored",
		zap.String("service", service),
		zap.String("key", key))

	return nil
}

func (s *BadgerStore) Delete(_ context.Context, service, key string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		delErr := txn.Delete(storageKey(service, key))
		if delErr != nil && !errors.Is(delErr, badger.ErrKeyNotFound) {
			return delErr
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBackendFailure, err)
	}

	return nil
}

// Close releases the underlying database.
func (s *BadgerStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close vault database: %w", err)
	}
	return nil
}

func storageKey(service, key string) []byte {
	return []byte(keyPrefix + service + ":" + key)
}

var _ Store = (*BadgerStore)(nil)
