package passcode_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"toproad/pkg/passcode"
	"toproad/pkg/store"
)

func TestKeyringStore(t *testing.T) {
	keyring.MockInit()
	s := passcode.NewKeyringStore("toproad-test")

	_, err := s.Get("missing")
	assert.ErrorIs(t, err, passcode.ErrSecretNotFound)

	require.NoError(t, s.Set("k", "v"))
	v, err := s.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v", v)

	require.NoError(t, s.Delete("k"))
	require.NoError(t, s.Delete("k"))
	_, err = s.Get("k")
	assert.ErrorIs(t, err, passcode.ErrSecretNotFound)
}

func TestManager_PINLifecycle(t *testing.T) {
	m := passcode.NewManager(passcode.NewMemoryStore())

	assert.False(t, m.IsEnabled())
	assert.False(t, m.HasPIN())
	assert.ErrorIs(t, m.Verify("1234"), passcode.ErrNoPIN)

	require.NoError(t, m.SetPIN("1234"))
	require.NoError(t, m.SetEnabled(true))
	assert.True(t, m.HasPIN())
	assert.True(t, m.IsEnabled())

	assert.NoError(t, m.Verify("1234"))
	assert.ErrorIs(t, m.Verify("4321"), passcode.ErrWrongPIN)

	require.NoError(t, m.Clear())
	assert.False(t, m.HasPIN())
	assert.False(t, m.IsEnabled())
}

func TestManager_SetPINRejectsBadInput(t *testing.T) {
	m := passcode.NewManager(passcode.NewMemoryStore())

	for _, pin := range []string{"", "123", "12345", "12a4", "١٢٣٤"} {
		assert.ErrorIs(t, m.SetPIN(pin), passcode.ErrWeakPIN, pin)
	}
	assert.False(t, m.HasPIN())
}

func TestManager_HashIsNotPlaintext(t *testing.T) {
	secrets := passcode.NewMemoryStore()
	m := passcode.NewManager(secrets)
	require.NoError(t, m.SetPIN("0000"))

	h, err := secrets.Get("passcodeHash")
	require.NoError(t, err)
	assert.NotContains(t, h, "0000")
}

func newGate(t *testing.T, enabled bool) *passcode.Gate {
	t.Helper()
	m := passcode.NewManager(passcode.NewMemoryStore())
	require.NoError(t, m.SetPIN("2468"))
	require.NoError(t, m.SetEnabled(enabled))
	return passcode.NewGate(m)
}

func hiddenTrip() store.Trip {
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	tr := store.NewTrip("Surprise", "Paris", start, start.AddDate(0, 0, 2), store.TripEvent)
	tr.Notes = "ring"
	tr.IsHidden = true
	tr.AddChecklistItem("Flowers", nil)
	return tr
}

func TestGate_Reveal(t *testing.T) {
	g := newGate(t, true)
	tr := hiddenTrip()

	_, err := g.Reveal(tr, "")
	assert.ErrorIs(t, err, passcode.ErrLocked)

	_, err = g.Reveal(tr, "1111")
	assert.ErrorIs(t, err, passcode.ErrWrongPIN)

	got, err := g.Reveal(tr, "2468")
	require.NoError(t, err)
	assert.Equal(t, tr, got)

	visible := tr
	visible.IsHidden = false
	got, err = g.Reveal(visible, "")
	require.NoError(t, err)
	assert.Equal(t, visible, got)
}

func TestGate_DisabledLockRevealsEverything(t *testing.T) {
	g := newGate(t, false)
	tr := hiddenTrip()

	assert.False(t, g.Locked())
	got, err := g.Reveal(tr, "")
	require.NoError(t, err)
	assert.Equal(t, tr, got)
	assert.Equal(t, tr, g.Mask(tr))
}

func TestGate_MaskAndUnlock(t *testing.T) {
	g := newGate(t, true)
	tr := hiddenTrip()

	masked := g.Mask(tr)
	assert.Equal(t, passcode.HiddenTitle, masked.Title)
	assert.Empty(t, masked.Location)
	assert.Empty(t, masked.Notes)
	assert.Empty(t, masked.Checklist)
	assert.Equal(t, tr.ID, masked.ID)
	assert.Equal(t, tr.StartDate, masked.StartDate)

	assert.ErrorIs(t, g.Unlock("0000"), passcode.ErrWrongPIN)
	require.NoError(t, g.Unlock("2468"))
	assert.False(t, g.Locked())
	assert.Equal(t, tr, g.Mask(tr))

	g.Lock()
	assert.True(t, g.Locked())
}

func TestGate_UnlockWithoutPIN(t *testing.T) {
	m := passcode.NewManager(passcode.NewMemoryStore())
	require.NoError(t, m.SetEnabled(true))
	g := passcode.NewGate(m)

	assert.ErrorIs(t, g.Unlock("1234"), passcode.ErrNoPIN)
}
