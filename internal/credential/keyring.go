package credential

import (
	"errors"
	"fmt"

	"github.com/99designs/keyring"

	"github.com/nhle/fapm/internal/model"
)

const (
	serviceName = "fapm"
	keyTokenA   = "session_token_a"
	keyTokenB   = "session_token_b"
)

// Keyring remembers session tokens between runs.
type Keyring struct {
	ring keyring.Keyring
}

// OpenKeyring opens the system keyring, falling back to an encrypted
// file under fileDir when no native backend is available.
func OpenKeyring(fileDir string) (*Keyring, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  fileDir,
		FilePasswordFunc:         keyring.FixedStringPrompt("fapm-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return &Keyring{ring: ring}, nil
}

// NewKeyring wraps an already opened keyring.
func NewKeyring(ring keyring.Keyring) *Keyring {
	return &Keyring{ring: ring}
}

// Recall returns the remembered tokens. Missing entries come back as
// empty strings so the caller can prompt for them.
func (k *Keyring) Recall() (a, b string, err error) {
	if a, err = k.get(keyTokenA); err != nil {
		return "", "", err
	}
	if b, err = k.get(keyTokenB); err != nil {
		return "", "", err
	}
	return a, b, nil
}

// Remember stores both tokens.
func (k *Keyring) Remember(creds model.Credentials) error {
	if err := k.set(keyTokenA, creds.TokenA()); err != nil {
		return err
	}
	return k.set(keyTokenB, creds.TokenB())
}

// Forget removes both tokens. Tokens that were never stored are ignored.
func (k *Keyring) Forget() error {
	for _, key := range []string{keyTokenA, keyTokenB} {
		err := k.ring.Remove(key)
		if err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
			return fmt.Errorf("deleting credential %q: %w", key, err)
		}
	}
	return nil
}

func (k *Keyring) get(key string) (string, error) {
	item, err := k.ring.Get(key)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("getting credential %q: %w", key, err)
	}
	return string(item.Data), nil
}

func (k *Keyring) set(key, value string) error {
	err := k.ring.Set(keyring.Item{
		Key:   key,
		Data:  []byte(value),
		Label: "fapm " + key,
	})
	if err != nil {
		return fmt.Errorf("setting credential %q: %w", key, err)
	}
	return nil
}
