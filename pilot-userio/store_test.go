package pilot_userio

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	pins, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, pins)

	saved := NewBank(nil).Pins()
	require.NoError(t, s.Save(ctx, saved))
	saved[0].Enabled = false

	pins, err = s.Load(ctx)
	require.NoError(t, err)
	assert.True(t, pins[0].Enabled, "store must keep its own copy")

	require.NoError(t, s.Clear(ctx))
	pins, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, pins)
}

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state", "pins.json")
	s := NewFileStore(path)

	pins, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, pins)

	bank := NewBank(NewSimulatedHardware())
	require.NoError(t, bank.Disable("b"))
	require.NoError(t, bank.SetDirection("c", DirectionOutput))
	require.NoError(t, s.Save(ctx, bank.Pins()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"type": "digital"`)
	assert.Contains(t, string(data), `"direction": "output"`)

	restored := NewBank(NewSimulatedHardware())
	require.NoError(t, Restore(ctx, s, restored))
	assert.Equal(t, bank.Pins(), restored.Pins())

	require.NoError(t, s.Clear(ctx))
	require.NoError(t, s.Clear(ctx))
	pins, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, pins)
}

func TestFileStoreCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pins.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"pins":[{"id":"a","type":"sideways"}]}`), 0644))

	_, err := NewFileStore(path).Load(context.Background())
	assert.Error(t, err)
}

func TestRestoreEmptyStore(t *testing.T) {
	bank := NewBank(nil)
	require.NoError(t, Restore(context.Background(), NewMemoryStore(), bank))
	assert.Len(t, bank.EnabledPins(), PinCount)
}
