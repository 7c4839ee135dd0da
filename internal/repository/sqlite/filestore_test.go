package sqlite_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/msomdec/dev-connect/internal/domain"
)

func TestFileStore_SaveGetDelete(t *testing.T) {
	db := newTestDB(t)
	store := db.FileStore()
	ctx := context.Background()

	data := []byte{0x89, 'P', 'N', 'G'}
	if err := store.Save(ctx, "posts/abc.png", data); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.Get(ctx, "posts/abc.png")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Fatalf("expected %v, got %v", data, got)
	}

	if err := store.Delete(ctx, "posts/abc.png"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Get(ctx, "posts/abc.png"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFileStore_SaveOverwrites(t *testing.T) {
	db := newTestDB(t)
	store := db.FileStore()
	ctx := context.Background()

	if err := store.Save(ctx, "k", []byte("one")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Save(ctx, "k", []byte("two")); err != nil {
		t.Fatalf("Save again: %v", err)
	}
	got, err := store.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != "two" {
		t.Fatalf("expected %q, got %q", "two", got)
	}
}
