package media

import (
	"os"
	"path/filepath"
	"testing"
)

func TestHashFileContentOnly(t *testing.T) {
	dir := t.TempDir()

	// Same bytes under different names hash identically.
	pathA := filepath.Join(dir, "original.jpg")
	pathB := filepath.Join(dir, "renamed-copy.jpg")
	for _, p := range []string{pathA, pathB} {
		if err := os.WriteFile(p, []byte("identical bytes"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	hashA, err := HashFile(pathA)
	if err != nil {
		t.Fatalf("HashFile(%s): %v", pathA, err)
	}
	hashB, err := HashFile(pathB)
	if err != nil {
		t.Fatalf("HashFile(%s): %v", pathB, err)
	}
	if hashA != hashB {
		t.Errorf("same content hashed differently: %s vs %s", hashA, hashB)
	}

	pathC := filepath.Join(dir, "different.jpg")
	if err := os.WriteFile(pathC, []byte("different bytes"), 0o644); err != nil {
		t.Fatal(err)
	}
	hashC, err := HashFile(pathC)
	if err != nil {
		t.Fatal(err)
	}
	if hashC == hashA {
		t.Error("different content produced the same hash")
	}
}

func TestHashFileKnownDigest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hello.jpg")
	if err := os.WriteFile(path, []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := HashFile(path)
	if err != nil {
		t.Fatal(err)
	}

	const want = "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"
	if got != want {
		t.Errorf("HashFile = %s, want SHA-256 hex %s", got, want)
	}
}

func TestHashFileMissing(t *testing.T) {
	if _, err := HashFile(filepath.Join(t.TempDir(), "nope.jpg")); err == nil {
		t.Fatal("missing file did not error")
	}
}
