package utils

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestHashFileKnownDigest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hello.txt")
	if err := os.WriteFile(path, []byte("hello world"), 0o644); err != nil {
		t.Fatal(err)
	}

	digest, err := HashFile(path)
	if err != nil {
		t.Fatalf("HashFile failed: %v", err)
	}
	want := "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"
	if digest != want {
		t.Errorf("digest = %s, want %s", digest, want)
	}
}

// Files larger than one chunk must hash identically to a single-pass
// digest; chunking is an implementation detail.
func TestHashFileSpansChunks(t *testing.T) {
	dir := t.TempDir()
	content := bytes.Repeat([]byte("abcdefgh"), 5000) // 40000 bytes, not chunk aligned

	a := filepath.Join(dir, "a.bin")
	b := filepath.Join(dir, "b.bin")
	for _, p := range []string{a, b} {
		if err := os.WriteFile(p, content, 0o644); err != nil {
			t.Fatal(err)
		}
	}

	da, err := HashFile(a)
	if err != nil {
		t.Fatal(err)
	}
	db, err := HashFile(b)
	if err != nil {
		t.Fatal(err)
	}
	if da != db {
		t.Errorf("identical content hashed differently: %s vs %s", da, db)
	}

	c := filepath.Join(dir, "c.bin")
	tweaked := append([]byte(nil), content...)
	tweaked[len(tweaked)-1] ^= 1
	if err := os.WriteFile(c, tweaked, 0o644); err != nil {
		t.Fatal(err)
	}
	dc, err := HashFile(c)
	if err != nil {
		t.Fatal(err)
	}
	if dc == da {
		t.Error("single-bit difference in last chunk not detected")
	}
}

func TestHashFileEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	digest, err := HashFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	if digest != want {
		t.Errorf("empty digest = %s, want %s", digest, want)
	}
}

func TestHashFileMissing(t *testing.T) {
	if _, err := HashFile(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("want error for missing file")
	}
}
