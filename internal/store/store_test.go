package store

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

// openBoth returns a memory-only store and a bolt-backed store
func openBoth(t *testing.T) map[string]*IconStore {
	t.Helper()

	memory, err := Open("")
	if err != nil {
		t.Fatalf("Open memory store: %v", err)
	}
	bolt, err := Open(filepath.Join(t.TempDir(), "cache", "icons.db"))
	if err != nil {
		t.Fatalf("Open bolt store: %v", err)
	}
	t.Cleanup(func() {
		memory.Close()
		bolt.Close()
	})
	return map[string]*IconStore{"memory": memory, "bolt": bolt}
}

func TestIconStore_PutGetDelete(t *testing.T) {
	for name, s := range openBoth(t) {
		if _, ok, err := s.Get("com.a"); ok || err != nil {
			t.Errorf("%s: expected miss, got ok=%v err=%v", name, ok, err)
		}

		if err := s.Put("com.a", []byte{1, 2, 3}); err != nil {
			t.Fatalf("%s: Put failed: %v", name, err)
		}
		data, ok, err := s.Get("com.a")
		if err != nil || !ok || !reflect.DeepEqual(data, []byte{1, 2, 3}) {
			t.Errorf("%s: Get = %v, %v, %v", name, data, ok, err)
		}

		// Returned bytes are a copy
		data[0] = 9
		again, _, _ := s.Get("com.a")
		if again[0] != 1 {
			t.Errorf("%s: stored bytes were aliased", name)
		}

		if _, ok := s.FetchedAt("com.a"); !ok {
			t.Errorf("%s: expected fetch time", name)
		}

		if err := s.Delete("com.a"); err != nil {
			t.Fatalf("%s: Delete failed: %v", name, err)
		}
		if _, ok, _ := s.Get("com.a"); ok {
			t.Errorf("%s: expected miss after delete", name)
		}
		if err := s.Delete("com.missing"); err != nil {
			t.Errorf("%s: deleting a missing id should succeed, got %v", name, err)
		}
	}
}

func TestIconStore_EmptyID(t *testing.T) {
	for name, s := range openBoth(t) {
		if err := s.Put("", []byte{1}); err == nil {
			t.Errorf("%s: expected error for empty id", name)
		}
	}
}

func TestIconStore_StatsAndClear(t *testing.T) {
	older := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	newer := older.Add(time.Hour)

	for name, s := range openBoth(t) {
		s.put("com.b", []byte{1, 2}, newer)
		s.put("com.a", []byte{1, 2, 3}, older)

		stats, err := s.Stats()
		if err != nil {
			t.Fatalf("%s: Stats failed: %v", name, err)
		}
		if stats.Icons != 2 || stats.Bytes != 5 {
			t.Errorf("%s: expected 2 icons / 5 bytes, got %d / %d", name, stats.Icons, stats.Bytes)
		}
		if !stats.Oldest.Equal(older) || !stats.Newest.Equal(newer) {
			t.Errorf("%s: unexpected range %v..%v", name, stats.Oldest, stats.Newest)
		}

		ids, err := s.IDs()
		if err != nil || !reflect.DeepEqual(ids, []string{"com.a", "com.b"}) {
			t.Errorf("%s: IDs = %v, %v", name, ids, err)
		}

		n, err := s.Clear()
		if err != nil || n != 2 {
			t.Errorf("%s: Clear = %d, %v", name, n, err)
		}
		if count, _ := s.Count(); count != 0 {
			t.Errorf("%s: expected empty store, got %d", name, count)
		}
	}
}

func TestIconStore_Persists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "icons.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := s.Put("com.a", []byte("png")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	s, err = Open(path)
	if err != nil {
		t.Fatalf("Reopen failed: %v", err)
	}
	defer s.Close()

	data, ok, err := s.Get("com.a")
	if err != nil || !ok || string(data) != "png" {
		t.Errorf("Expected persisted bytes, got %q, %v, %v", data, ok, err)
	}
	if s.Path() != path {
		t.Errorf("Expected path %s, got %s", path, s.Path())
	}
}

func TestIconStore_Closed(t *testing.T) {
	for name, s := range openBoth(t) {
		s.Close()
		if err := s.Close(); err != nil {
			t.Errorf("%s: second Close should be a no-op, got %v", name, err)
		}
		if _, _, err := s.Get("com.a"); !errors.Is(err, ErrClosed) {
			t.Errorf("%s: expected ErrClosed from Get, got %v", name, err)
		}
		if err := s.Put("com.a", nil); !errors.Is(err, ErrClosed) {
			t.Errorf("%s: expected ErrClosed from Put, got %v", name, err)
		}
	}
}
