package state

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFile_MissingIsEmpty(t *testing.T) {
	f := NewFile(t.TempDir())
	st, err := f.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if st.Recent != "" || f.Recent() != "" {
		t.Errorf("empty state has recent %q", st.Recent)
	}
}

func TestFile_SetRecent(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	f := NewFile(dir)

	if err := f.SetRecent("apple"); err != nil {
		t.Fatalf("SetRecent() error = %v", err)
	}
	if got := f.Recent(); got != "apple" {
		t.Errorf("Recent() = %q, want apple", got)
	}

	if got := NewFile(dir).Recent(); got != "apple" {
		t.Errorf("Recent() from a fresh File = %q, want apple", got)
	}
}

func TestFile_RenamedAndRemoved(t *testing.T) {
	tests := []struct {
		name   string
		recent string
		apply  func(*File) error
		want   string
	}{
		{"rename recent", "apple", func(f *File) error { return f.Renamed("apple", "pear") }, "pear"},
		{"rename other", "apple", func(f *File) error { return f.Renamed("kiwi", "pear") }, "apple"},
		{"remove recent", "apple", func(f *File) error { return f.Removed("apple") }, ""},
		{"remove other", "apple", func(f *File) error { return f.Removed("kiwi") }, "apple"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewFile(t.TempDir())
			if err := f.SetRecent(tt.recent); err != nil {
				t.Fatal(err)
			}
			if err := tt.apply(f); err != nil {
				t.Fatal(err)
			}
			if got := f.Recent(); got != tt.want {
				t.Errorf("Recent() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFile_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte("recent: [oops"), 0600); err != nil {
		t.Fatal(err)
	}
	f := NewFile(dir)
	if _, err := f.Load(); err == nil {
		t.Error("Load() should fail on invalid YAML")
	}
	if got := f.Recent(); got != "" {
		t.Errorf("Recent() = %q on a corrupt file, want empty", got)
	}
}

func TestLock_Exclusive(t *testing.T) {
	dir := t.TempDir()

	fl, err := Lock(dir)
	if err != nil {
		t.Fatalf("Lock() error = %v", err)
	}

	if _, err := Lock(dir); !errors.Is(err, ErrLocked) {
		t.Errorf("second Lock() error = %v, want ErrLocked", err)
	}

	Cleanup(fl)

	fl2, err := Lock(dir)
	if err != nil {
		t.Fatalf("Lock() after Cleanup error = %v", err)
	}
	Cleanup(fl2)
	Cleanup(nil)
}
