package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openAll(t *testing.T) map[string]Slot {
	t.Helper()
	dir := t.TempDir()

	file, err := NewFileSlot(filepath.Join(dir, "files"))
	require.NoError(t, err)

	db, err := NewSQLiteSlot(filepath.Join(dir, "db", "fintrack.db"))
	require.NoError(t, err)

	slots := map[string]Slot{
		BackendMemory: NewMemorySlot(),
		BackendFile:   file,
		BackendSQLite: db,
	}
	t.Cleanup(func() {
		for _, s := range slots {
			s.Close()
		}
	})
	return slots
}

func TestSlots_RoundTrip(t *testing.T) {
	ctx := context.Background()

	for name, slot := range openAll(t) {
		t.Run(name, func(t *testing.T) {
			_, err := slot.Read(ctx, "financeData")
			assert.True(t, errors.Is(err, ErrNotFound))

			require.NoError(t, slot.Write(ctx, "financeData", []byte(`{"currency":"USD"}`)))
			got, err := slot.Read(ctx, "financeData")
			require.NoError(t, err)
			assert.JSONEq(t, `{"currency":"USD"}`, string(got))

			require.NoError(t, slot.Write(ctx, "financeData", []byte(`{"currency":"EUR"}`)))
			got, err = slot.Read(ctx, "financeData")
			require.NoError(t, err)
			assert.JSONEq(t, `{"currency":"EUR"}`, string(got))

			_, err = slot.Read(ctx, "otherKey")
			assert.True(t, errors.Is(err, ErrNotFound))
		})
	}
}

func TestMemorySlot_CopiesData(t *testing.T) {
	ctx := context.Background()
	slot := NewMemorySlot()

	buf := []byte("abc")
	require.NoError(t, slot.Write(ctx, "k", buf))
	buf[0] = 'z'

	got, err := slot.Read(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))

	got[0] = 'y'
	again, _ := slot.Read(ctx, "k")
	assert.Equal(t, "abc", string(again))
}

func TestMemorySlot_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	slot := NewMemorySlot()
	assert.ErrorIs(t, slot.Write(ctx, "k", nil), context.Canceled)
	_, err := slot.Read(ctx, "k")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFileSlot_PermissionsAndPath(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	slot, err := NewFileSlot(dir)
	require.NoError(t, err)

	require.NoError(t, slot.Write(context.Background(), "financeData", []byte("{}")))

	assert.Equal(t, filepath.Join(dir, "financeData.json"), slot.Path("financeData"))
	info, err := os.Stat(slot.Path("financeData"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestFileSlot_RequiresDirectory(t *testing.T) {
	_, err := NewFileSlot("")
	assert.Error(t, err)
}

func TestSQLiteSlot_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "fintrack.db")

	slot, err := NewSQLiteSlot(path)
	require.NoError(t, err)
	require.NoError(t, slot.Write(ctx, "financeData", []byte(`{"a":1}`)))
	require.NoError(t, slot.Close())

	reopened, err := NewSQLiteSlot(path)
	require.NoError(t, err, "migrations must be idempotent")
	defer reopened.Close()

	got, err := reopened.Read(ctx, "financeData")
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(got))
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		backend string
		path    string
		wantErr bool
	}{
		{BackendMemory, "", false},
		{BackendFile, filepath.Join(dir, "files"), false},
		{BackendSQLite, filepath.Join(dir, "x.db"), false},
		{"redis", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			slot, err := Open(tt.backend, tt.path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NoError(t, slot.Close())
		})
	}
}
