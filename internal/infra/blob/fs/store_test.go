package fs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"matcheck/internal/blob/core"
)

func newTempStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	store, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return store
}

func TestStore_PutGetOverwriteDelete(t *testing.T) {
	ctx := context.Background()
	store := newTempStore(t)
	if store.Driver() != core.DriverFilesystem {
		t.Fatalf("expected fs driver")
	}
	info, err := store.Put(ctx, "alpha/test.json", bytes.NewReader([]byte("hello")), core.PutOptions{ContentType: "application/json", Metadata: map[string]string{"k": "v"}})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if info.Key != "alpha/test.json" || info.Size != 5 {
		t.Fatalf("unexpected info %+v", info)
	}
	if _, err := store.Put(ctx, "alpha/test.json", bytes.NewReader([]byte("bye")), core.PutOptions{ContentType: "application/json"}); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	g, rc, err := store.Get(ctx, "alpha/test.json")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	b, _ := io.ReadAll(rc)
	if err := rc.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if string(b) != "bye" || g.Size != 3 || g.ContentType != "application/json" {
		t.Fatalf("unexpected get artifacts %q %+v", b, g)
	}
	ok, err := store.Delete(ctx, "alpha/test.json")
	if err != nil || !ok {
		t.Fatalf("delete: %v %v", ok, err)
	}
	if ok, err := store.Delete(ctx, "alpha/test.json"); err != nil || ok {
		t.Fatalf("second delete should report absent")
	}
	if _, _, err := store.Get(ctx, "alpha/test.json"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_NoTempFilesLeftBehind(t *testing.T) {
	store := newTempStore(t)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if _, err := store.Put(ctx, "slot.json", bytes.NewReader([]byte(fmt.Sprintf("v%d", i))), core.PutOptions{}); err != nil {
			t.Fatalf("put %d: %v", i, err)
		}
	}
	entries, err := os.ReadDir(store.Root())
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	for _, e := range entries {
		if e.Name() != "slot.json" && e.Name() != "slot.json.meta" {
			t.Fatalf("unexpected leftover file %s", e.Name())
		}
	}
}

func TestStore_MissingMetaFallsBackToStat(t *testing.T) {
	store := newTempStore(t)
	if err := os.WriteFile(filepath.Join(store.Root(), "raw.json"), []byte("[]"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	info, rc, err := store.Get(context.Background(), "raw.json")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	_ = rc.Close()
	if info.Size != 2 {
		t.Fatalf("expected stat size, got %+v", info)
	}
}

func TestStore_CorruptMetaErrors(t *testing.T) {
	store := newTempStore(t)
	ctx := context.Background()
	if _, err := store.Put(ctx, "k", bytes.NewReader([]byte("v")), core.PutOptions{}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := os.WriteFile(filepath.Join(store.Root(), "k.meta"), []byte("{"), 0o644); err != nil {
		t.Fatalf("write meta: %v", err)
	}
	if _, _, err := store.Get(ctx, "k"); err == nil {
		t.Fatalf("expected corrupt meta error")
	}
}

func TestSanitizeKey(t *testing.T) {
	for _, bad := range []string{"", "  ", "../escape", "/abs"} {
		if _, err := sanitizeKey(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
	if k, err := sanitizeKey("a/./b"); err != nil || k != "a/b" {
		t.Fatalf("unexpected clean %q %v", k, err)
	}
	store := newTempStore(t)
	if _, err := store.Put(context.Background(), "../x", bytes.NewReader(nil), core.PutOptions{}); err == nil {
		t.Fatalf("expected traversal rejection on put")
	}
	if _, err := store.Delete(context.Background(), "/abs"); err == nil {
		t.Fatalf("expected rejection on delete")
	}
}
