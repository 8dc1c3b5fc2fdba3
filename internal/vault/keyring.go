package vault

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"
	"go.uber.org/zap"
)

// KeyringStore keeps secrets in the OS credential store (Secret Service,
// Keychain, Credential Manager). Entries are namespaced under a single
// keyring service name so unrelated applications never collide.
type KeyringStore struct {
	service string
	logger  *zap.Logger
}

func NewKeyringStore(service string, logger *zap.Logger) *KeyringStore {
	return &KeyringStore{
		service: service,
		logger:  logger,
	}
}

func (s *KeyringStore) Get(_ context.Context, service, key string) (string, error) {
	value, err := keyring.Get(s.service, entryName(service, key))
	if errors.Is(err, keyring.ErrNotFound) {
		return "", fmt.Errorf("%w: %s/%s", ErrNotFound, service, key)
	}
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrBackendFailure, err)
	}

	return value, nil
}

func (s *KeyringStore) Set(_ context.Context, service, key, value string) error {
	if strings.TrimSpace(value) == "" {
		return ErrEmptyValue
	}

	if err := keyring.Set(s.service, entryName(service, key), value); err != nil {
		return fmt.Errorf("%w: %w", ErrBackendFailure, err)
	}

	s.logger.Debug("secret stored",
		zap.String("service", service),
		zap.String("key", key))

	return nil
}

func (s *KeyringStore) Delete(_ context.Context, service, key string) error {
	err := keyring.Delete(s.service, entryName(service, key))
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("%w: %w", ErrBackendFailure, err)
	}

	return nil
}

func entryName(service, key string) string {
	return service + "/" + key
}

var _ Store = (*KeyringStore)(nil)
