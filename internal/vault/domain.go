// Package vault adapts an external secure-credential backend behind a
// narrow get/set interface. Secret values are owned by the backend; the
// repository core never persists them itself.
package vault

import "context"

// Store is the SecretStore contract consumed by the repository core.
type Store interface {
	// Get returns the secret stored under service+key.
	Get(ctx context.Context, service, key string) (string, error)

	// Set stores a secret under service+key, replacing any previous value.
	Set(ctx context.Context, service, key, value string) error

	// Delete removes the secret under service+key. Deleting a missing
	// secret is not an error.
	Delete(ctx context.Context, service, key string) error
}

// Well-known service and key names shared by the components that store
// and consume credentials.
const (
	ServiceGitHub = "github"
	KeyToken      = "token"
	KeyUsername   = "username"
)

// Backend selects the vault implementation.
type Backend string

const (
	// BackendKeyring stores secrets in the OS credential store.
	BackendKeyring Backend = "keyring"
	// BackendBadger stores secrets in a local BadgerDB, for headless hosts
	// without a keyring daemon.
	BackendBadger Backend = "badger"
)

type Config struct {
	Backend Backend
	DataDir string
	Service string
}
