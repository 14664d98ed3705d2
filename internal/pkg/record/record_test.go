package record

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"netdemo/internal/pkg/checksum"
	"netdemo/internal/pkg/entity"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/require"
)

func TestWriteRead(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, "snapshots")
	w.now = func() time.Time { return time.Date(2026, 10, 19, 8, 30, 0, 0, time.UTC) }

	for i := uint64(1); i <= 3; i++ {
		e, err := NewEntry(i, int64(i)*100, []entity.EntityState{
			{EntityID: 0, Position: mgl32.Vec2{float32(i), -3}, LastProcessedInput: int32(i)},
		})
		require.NoError(t, err)
		require.NoError(t, w.Write(e))
	}
	path := w.Path()
	require.Contains(t, path, "snapshots-2026-10-19-08.jsonl.zst")
	require.NoError(t, w.Close())

	var got []Entry
	require.NoError(t, Read(path, func(e Entry) error {
		got = append(got, e)
		return nil
	}))
	require.Len(t, got, 3)
	require.Equal(t, uint64(2), got[1].Tick)
	require.Equal(t, mgl32.Vec2{3, -3}, got[2].EntityStates()[0].Position)
}

func TestReadRejectsTamperedEntry(t *testing.T) {
	e, err := NewEntry(1, 0, []entity.EntityState{{EntityID: 1, Position: mgl32.Vec2{1, 1}}})
	require.NoError(t, err)
	e.States[0].X = 2

	var buf bytes.Buffer
	enc, err := zstd.NewWriter(&buf)
	require.NoError(t, err)
	b, err := json.Marshal(e)
	require.NoError(t, err)
	_, err = enc.Write(append(b, '\n'))
	require.NoError(t, err)
	require.NoError(t, enc.Close())

	err = ReadFrom(&buf, func(Entry) error { return nil })
	require.ErrorIs(t, err, checksum.ErrChecksumMismatch)
}

func TestWriteAfterClose(t *testing.T) {
	w := NewWriter(t.TempDir(), "snapshots")
	e, err := NewEntry(1, 0, []entity.EntityState{{EntityID: 0}})
	require.NoError(t, err)
	require.NoError(t, w.Write(e))
	require.NoError(t, w.Close())

	require.ErrorIs(t, w.Write(e), ErrWriterClosed)
	require.NoError(t, w.Flush())
	require.NoError(t, w.Close())
}
