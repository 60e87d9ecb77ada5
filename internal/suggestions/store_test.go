package suggestions

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"testing/fstest"

	"github.com/danmuck/bridgectl/internal/testutil/testlog"
)

func writeFile(t *testing.T, dir, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(body), 0o644); err != nil {
		t.Fatalf("write suggestions: %v", err)
	}
}

func TestReloadSkipsNonStringEntries(t *testing.T) {
	testlog.Start(t)
	dir := t.TempDir()
	writeFile(t, dir, "suggestions:\n  spawn: \"Go to spawn\"\n  42: \"numeric key\"\n  home: \"Go home\"\n  list: [a, b]\n")
	s := New(dir, nil)
	n, err := s.Reload()
	if err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if n != 2 || s.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", n)
	}
	if desc, ok := s.Get("spawn"); !ok || desc != "Go to spawn" {
		t.Fatalf("unexpected spawn entry: %q %v", desc, ok)
	}
	if _, ok := s.Get("42"); ok {
		t.Fatalf("expected numeric key to be skipped")
	}
}

func TestReloadReplacesTable(t *testing.T) {
	testlog.Start(t)
	dir := t.TempDir()
	s := New(dir, nil)
	writeFile(t, dir, "suggestions:\n  a: one\n  b: two\n")
	if _, err := s.Reload(); err != nil {
		t.Fatalf("first Reload: %v", err)
	}
	writeFile(t, dir, "suggestions:\n  c: three\n")
	if _, err := s.Reload(); err != nil {
		t.Fatalf("second Reload: %v", err)
	}
	all := s.All()
	if len(all) != 1 || all["c"] != "three" {
		t.Fatalf("expected full replace, got %v", all)
	}
	if _, ok := s.Get("a"); ok {
		t.Fatalf("expected stale entry to be gone")
	}
}

func TestReloadKeepsLastGoodOnError(t *testing.T) {
	testlog.Start(t)
	dir := t.TempDir()
	s := New(dir, nil)
	writeFile(t, dir, "suggestions:\n  a: one\n")
	if _, err := s.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	for _, body := range []string{"suggestions: [unclosed\n", "other:\n  a: b\n", "", "suggestions: plain\n"} {
		writeFile(t, dir, body)
		if _, err := s.Reload(); err == nil {
			t.Fatalf("expected error for %q", body)
		}
		if desc, _ := s.Get("a"); desc != "one" {
			t.Fatalf("expected last good table after %q, got %v", body, s.All())
		}
	}
}

func TestReloadCopiesDefault(t *testing.T) {
	testlog.Start(t)
	dir := filepath.Join(t.TempDir(), "config")
	defaults := fstest.MapFS{FileName: {Data: []byte("suggestions:\n  help: Shows help\n")}}
	s := New(dir, defaults)
	n, err := s.Reload()
	if err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected default entry, got %d", n)
	}
	if _, err := os.Stat(filepath.Join(dir, FileName)); err != nil {
		t.Fatalf("expected default to be written: %v", err)
	}
}

func TestReloadEmbeddedDefault(t *testing.T) {
	testlog.Start(t)
	s := New(t.TempDir(), nil)
	if _, err := s.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if _, ok := s.Get("help"); !ok {
		t.Fatalf("expected embedded default to provide help")
	}
}

func TestReloadMissingDefault(t *testing.T) {
	testlog.Start(t)
	s := New(t.TempDir(), fstest.MapFS{})
	_, err := s.Reload()
	if !errors.Is(err, ErrNoDefault) {
		t.Fatalf("expected ErrNoDefault, got %v", err)
	}
	if s.Len() != 0 {
		t.Fatalf("expected empty table")
	}
}

func TestAllReturnsCopy(t *testing.T) {
	testlog.Start(t)
	dir := t.TempDir()
	writeFile(t, dir, "suggestions:\n  a: one\n")
	s := New(dir, nil)
	if _, err := s.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	all := s.All()
	all["a"] = "mutated"
	if desc, _ := s.Get("a"); desc != "one" {
		t.Fatalf("expected store to be unaffected by caller mutation")
	}
}

func TestConcurrentReadsDuringReload(t *testing.T) {
	testlog.Start(t)
	dir := t.TempDir()
	writeFile(t, dir, "suggestions:\n  a: one\n  b: two\n")
	s := New(dir, nil)
	if _, err := s.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if n := len(s.All()); n != 2 {
					t.Errorf("observed partial table of %d entries", n)
					return
				}
			}
		}()
	}
	for i := 0; i < 10; i++ {
		if _, err := s.Reload(); err != nil {
			t.Fatalf("Reload: %v", err)
		}
	}
	wg.Wait()
}
