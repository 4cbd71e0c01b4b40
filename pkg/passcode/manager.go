package passcode

import (
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

const (
	keyEnabled = "lockEnabled"
	keyHash    = "passcodeHash"

	// PINLength is the number of digits in a PIN.
	PINLength = 4
)

var (
	ErrLocked   = errors.New("trip is locked")
	ErrWrongPIN = errors.New("wrong PIN")
	ErrNoPIN    = errors.New("no PIN set")
	ErrWeakPIN  = fmt.Errorf("PIN must be exactly %d digits", PINLength)
)

// Manager owns the lock flag and the PIN hash.
type Manager struct {
	secrets SecretStore
	cost    int
}

// NewManager returns a manager persisting through secrets.
func NewManager(secrets SecretStore) *Manager {
	return &Manager{secrets: secrets, cost: bcrypt.DefaultCost}
}

// IsEnabled reports whether the lock is turned on. Lookup errors read as off.
func (m *Manager) IsEnabled() bool {
	v, err := m.secrets.Get(keyEnabled)
	if err != nil && !errors.Is(err, ErrSecretNotFound) {
		slog.Debug("Failed to read lock flag", "error", err)
	}
	return v == "true"
}

func (m *Manager) SetEnabled(enabled bool) error {
	v := "false"
	if enabled {
		v = "true"
	}
	return m.secrets.Set(keyEnabled, v)
}

func (m *Manager) HasPIN() bool {
	h, err := m.secrets.Get(keyHash)
	return err == nil && h != ""
}

// SetPIN validates and stores the bcrypt hash of pin.
func (m *Manager) SetPIN(pin string) error {
	if !validPIN(pin) {
		return ErrWeakPIN
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), m.cost)
	if err != nil {
		return fmt.Errorf("hash PIN: %w", err)
	}
	return m.secrets.Set(keyHash, string(hash))
}

// Verify returns nil when pin matches the stored hash.
func (m *Manager) Verify(pin string) error {
	hash, err := m.secrets.Get(keyHash)
	if errors.Is(err, ErrSecretNotFound) || (err == nil && hash == "") {
		return ErrNoPIN
	}
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(pin)); err != nil {
		return ErrWrongPIN
	}
	return nil
}

// Clear removes the PIN and turns the lock off.
func (m *Manager) Clear() error {
	if err := m.secrets.Delete(keyHash); err != nil {
		return err
	}
	return m.SetEnabled(false)
}

func validPIN(pin string) bool {
	if len(pin) != PINLength {
		return false
	}
	for _, r := range pin {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
