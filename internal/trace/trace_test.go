package trace

import (
	"bytes"
	"errors"
	"io"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/hullbreach/internal/combat"
	"github.com/vovakirdan/hullbreach/internal/core"
	"github.com/vovakirdan/hullbreach/internal/structure"
)

func sampleEvents() []combat.Event {
	return []combat.Event{
		combat.ModuleDestroyed{Module: 4, Structure: 1, At: structure.C(2, 4)},
		combat.StructureDepressurized{Structure: 1},
		combat.ModuleDetached{Module: 9, Structure: 1, At: structure.C(3, 2), Impulse: core.V(0, 5e7)},
	}
}

func TestWriteRead(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf)
	require.NoError(t, err)

	require.NoError(t, w.Write(12, sampleEvents()))
	require.NoError(t, w.Write(13, []combat.Event{combat.ControlReleased{Agent: 2, Structure: 1, Module: 9, Reason: combat.ReleaseDetached}}))
	assert.Equal(t, 4, w.Count())
	require.NoError(t, w.Close())

	r, err := NewReader(&buf)
	require.NoError(t, err)
	defer r.Close()

	var got []Entry
	for {
		e, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		got = append(got, e)
	}

	require.Len(t, got, 4)
	assert.Equal(t, uint64(12), got[0].Tick)
	assert.Equal(t, sampleEvents()[0], got[0].Event)
	assert.Equal(t, sampleEvents()[2], got[2].Event)
	assert.Equal(t, uint64(13), got[3].Tick)
	assert.Equal(t, combat.ReleaseDetached, got[3].Event.(combat.ControlReleased).Reason)
}

func TestCreateAndReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs", "trace"+Ext)

	w, err := Create(path)
	require.NoError(t, err)
	require.NoError(t, w.Write(1, sampleEvents()))
	require.NoError(t, w.Close())

	entries, err := ReadFile(path)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, combat.KindStructureDepressurized, entries[1].Event.Kind())
}

func TestReadUnknownKind(t *testing.T) {
	var buf bytes.Buffer
	enc, err := zstd.NewWriter(&buf)
	require.NoError(t, err)
	_, err = enc.Write([]byte(`{"tick":1,"kind":"warp_drive","data":{}}` + "\n"))
	require.NoError(t, err)
	require.NoError(t, enc.Close())

	r, err := NewReader(&buf)
	require.NoError(t, err)
	defer r.Close()

	_, err = r.Next()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 1")
}

func TestReadEmpty(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	r, err := NewReader(&buf)
	require.NoError(t, err)
	defer r.Close()

	_, err = r.Next()
	assert.ErrorIs(t, err, io.EOF)
}
