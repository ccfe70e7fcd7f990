package media

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func mustWrite(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestReadFolderList(t *testing.T) {
	dir := t.TempDir()
	listPath := filepath.Join(dir, "batch.txt")
	mustWrite(t, listPath, "/photos/2025-06\n\n  /photos/2025-07  \n\n")

	folders, err := ReadFolderList(listPath)
	if err != nil {
		t.Fatalf("ReadFolderList: %v", err)
	}

	want := []string{"/photos/2025-06", "/photos/2025-07"}
	if !reflect.DeepEqual(folders, want) {
		t.Errorf("folders = %v, want %v", folders, want)
	}
}

func TestReadFolderListMissingFile(t *testing.T) {
	_, err := ReadFolderList(filepath.Join(t.TempDir(), "nope.txt"))
	if err == nil {
		t.Fatal("missing folder list did not error")
	}
}

func TestDiscoverFolders(t *testing.T) {
	dir := t.TempDir()
	mustWrite(t, filepath.Join(dir, "b.jpg"), "x")
	mustWrite(t, filepath.Join(dir, "a.PNG"), "x") // extension match is case-insensitive
	mustWrite(t, filepath.Join(dir, "notes.txt"), "x")
	mustWrite(t, filepath.Join(dir, "raw.cr3"), "x")

	// Subdirectories are never descended into.
	sub := filepath.Join(dir, "sub")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	mustWrite(t, filepath.Join(sub, "nested.jpg"), "x")

	paths := DiscoverFolders([]string{dir})

	want := []string{
		filepath.Join(dir, "a.PNG"),
		filepath.Join(dir, "b.jpg"),
	}
	if !reflect.DeepEqual(paths, want) {
		t.Errorf("paths = %v, want %v", paths, want)
	}
}

func TestDiscoverFoldersSkipsMissing(t *testing.T) {
	dir := t.TempDir()
	mustWrite(t, filepath.Join(dir, "a.jpg"), "x")

	paths := DiscoverFolders([]string{"/definitely/not/here", dir})
	if len(paths) != 1 {
		t.Errorf("got %d paths, want 1 (missing folder skipped)", len(paths))
	}
}

func TestDiscoverFoldersSortedAcrossFolders(t *testing.T) {
	root := t.TempDir()
	dirB := filepath.Join(root, "b")
	dirA := filepath.Join(root, "a")
	for _, d := range []string{dirA, dirB} {
		if err := os.Mkdir(d, 0o755); err != nil {
			t.Fatal(err)
		}
	}
	mustWrite(t, filepath.Join(dirB, "1.jpg"), "x")
	mustWrite(t, filepath.Join(dirA, "2.jpg"), "x")

	// Folders given in reverse order still produce sorted output.
	paths := DiscoverFolders([]string{dirB, dirA})
	want := []string{
		filepath.Join(dirA, "2.jpg"),
		filepath.Join(dirB, "1.jpg"),
	}
	if !reflect.DeepEqual(paths, want) {
		t.Errorf("paths = %v, want %v", paths, want)
	}
}

func TestIsImage(t *testing.T) {
	tests := []struct {
		ext  string
		want bool
	}{
		{".jpg", true},
		{".JPEG", true},
		{".png", true},
		{".gif", true},
		{".webp", true},
		{".txt", false},
		{".cr3", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsImage(tt.ext); got != tt.want {
			t.Errorf("IsImage(%q) = %v, want %v", tt.ext, got, tt.want)
		}
	}
}

func TestGetMIMEType(t *testing.T) {
	mime, err := GetMIMEType(".JPG")
	if err != nil {
		t.Fatalf("GetMIMEType(.JPG): %v", err)
	}
	if mime != "image/jpeg" {
		t.Errorf("mime = %q, want image/jpeg", mime)
	}

	if _, err := GetMIMEType(".bmp"); err == nil {
		t.Error("unsupported extension did not error")
	}
}
