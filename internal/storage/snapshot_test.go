package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/aliskhannn/review-center/internal/repository"
)

func TestSnapshotStorage(t *testing.T) {
	ctx := context.Background()
	store := NewSnapshotStorage()

	if _, err := store.Load(ctx, 1); !errors.Is(err, repository.ErrSnapshotNotFound) {
		t.Errorf("Load(missing) error = %v, want ErrSnapshotNotFound", err)
	}

	data := []byte(`{"sessionId":1}`)
	if err := store.Save(ctx, 1, data); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	// Mutating the caller's slice must not reach the stored copy.
	data[0] = 'x'

	got, err := store.Load(ctx, 1)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if string(got) != `{"sessionId":1}` {
		t.Errorf("Load() = %q, want stored copy untouched", got)
	}

	// Neither must mutating the loaded slice.
	got[0] = 'x'
	again, err := store.Load(ctx, 1)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if string(again) != `{"sessionId":1}` {
		t.Errorf("Load() = %q, stored bytes corrupted through a returned slice", again)
	}

	if err := store.Clear(ctx, 1); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if _, err := store.Load(ctx, 1); !errors.Is(err, repository.ErrSnapshotNotFound) {
		t.Errorf("Load(cleared) error = %v, want ErrSnapshotNotFound", err)
	}

	// Clearing twice is harmless.
	if err := store.Clear(ctx, 1); err != nil {
		t.Errorf("Clear(missing) error = %v", err)
	}
}
