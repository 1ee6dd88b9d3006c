package cache

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFileCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	// Miss before Set
	_, hit, err := c.Get(ctx, "scene:abc")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("expected miss before Set")
	}

	// Set then hit
	if err := c.Set(ctx, "scene:abc", []byte("payload"), time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "scene:abc")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if !hit {
		t.Fatal("expected hit after Set")
	}
	if !bytes.Equal(data, []byte("payload")) {
		t.Errorf("Get = %q, want %q", data, "payload")
	}

	// Delete then miss
	if err := c.Delete(ctx, "scene:abc"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "scene:abc"); hit {
		t.Error("expected miss after Delete")
	}

	// Delete of a missing key is not an error
	if err := c.Delete(ctx, "scene:gone"); err != nil {
		t.Errorf("Delete of missing key: %v", err)
	}
}

func TestFileCacheZeroTTL(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	if err := c.Set(ctx, "forever", []byte("v"), 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "forever"); !hit {
		t.Error("zero TTL entry should never expire")
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, _ := NewFileCache(dir)

	// A nanosecond TTL is long gone by the time Get runs
	if err := c.Set(ctx, "k", []byte("v"), time.Nanosecond); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	_, hit, err := c.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("expired entry should read as miss")
	}

	// The expired file is removed on read
	entries, _ := filepath.Glob(filepath.Join(dir, "*", "*.json"))
	if len(entries) != 0 {
		t.Errorf("expired entry should be deleted, found %v", entries)
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, _ := NewFileCache(dir)

	if err := c.Set(ctx, "k", []byte("v"), time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	matches, _ := filepath.Glob(filepath.Join(dir, "*", "*.json"))
	if len(matches) != 1 {
		t.Fatalf("expected one entry file, got %v", matches)
	}
	if err := os.WriteFile(matches[0], []byte("{not json"), 0644); err != nil {
		t.Fatalf("corrupt entry: %v", err)
	}

	_, hit, err := c.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("corrupt entry should read as miss")
	}
	if _, err := os.Stat(matches[0]); !os.IsNotExist(err) {
		t.Error("corrupt entry should be removed")
	}
}

func TestFileCachePersists(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	c1, _ := NewFileCache(dir)
	if err := c1.Set(ctx, "k", []byte("v"), time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	c1.Close()

	c2, _ := NewFileCache(dir)
	defer c2.Close()
	data, hit, err := c2.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if !hit {
		t.Fatal("entries should survive across cache instances")
	}
	if string(data) != "v" {
		t.Errorf("Get = %q, want %q", data, "v")
	}
}
