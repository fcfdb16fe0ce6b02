package store

import (
	"bytes"
	"testing"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	s := NewMemoryStore()

	if err := s.Set("key", []byte("value")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, err := s.Get("key")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !bytes.Equal(got, []byte("value")) {
		t.Errorf("Expected 'value', got '%s'", got)
	}

	// Mutating the returned slice must not affect the stored copy.
	got[0] = 'X'
	again, _ := s.Get("key")
	if !bytes.Equal(again, []byte("value")) {
		t.Error("Store should hand out copies, not its backing slice")
	}
}

func TestMemoryStoreMissingKey(t *testing.T) {
	s := NewMemoryStore()

	got, err := s.Get("absent")
	if err != nil {
		t.Fatalf("Get of missing key should not fail: %v", err)
	}
	if got != nil {
		t.Errorf("Expected nil for missing key, got %v", got)
	}
}

func TestMemoryStoreRemove(t *testing.T) {
	s := NewMemoryStore()
	s.Set("key", []byte("value"))

	if err := s.Remove("key"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}

	got, _ := s.Get("key")
	if got != nil {
		t.Error("Removed key should be gone")
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}

	if err := s.Set("learning/records", []byte(`{"records":[]}`)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, err := s.Get("learning/records")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !bytes.Equal(got, []byte(`{"records":[]}`)) {
		t.Errorf("Unexpected value: %s", got)
	}

	if err := s.Remove("learning/records"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	got, err = s.Get("learning/records")
	if err != nil {
		t.Fatalf("Get after remove failed: %v", err)
	}
	if got != nil {
		t.Error("Removed key should return nil")
	}

	// Removing again is not an error.
	if err := s.Remove("learning/records"); err != nil {
		t.Errorf("Removing a missing key should not fail: %v", err)
	}
}

func TestFileStoreMissingKey(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}

	got, err := s.Get("never-written")
	if err != nil {
		t.Fatalf("Get of missing key should not fail: %v", err)
	}
	if got != nil {
		t.Error("Expected nil for missing key")
	}
}
