package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLocalStore_PutAndDelete(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(dir, "/media/")
	if err != nil {
		t.Fatalf("NewLocalStore failed: %v", err)
	}

	ctx := context.Background()
	content := pngHeader + "receipt"
	obj, err := store.Put(ctx, FolderDonationProofs, File{
		Name:    "receipt.gif",
		Size:    int64(len(content)),
		Content: strings.NewReader(content),
	})
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	if !strings.HasPrefix(obj.Key, FolderDonationProofs+"/") || !strings.HasSuffix(obj.Key, ".png") {
		t.Errorf("unexpected key %q", obj.Key)
	}
	if obj.URL != "/media/"+obj.Key {
		t.Errorf("unexpected url %q", obj.URL)
	}

	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(obj.Key)))
	if err != nil {
		t.Fatalf("stored file missing: %v", err)
	}
	if string(data) != content {
		t.Errorf("expected stored content %q, got %q", content, data)
	}

	if err := store.Delete(ctx, obj.Key); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, filepath.FromSlash(obj.Key))); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected file to be removed, stat err: %v", err)
	}

	// Deleting twice is not an error.
	if err := store.Delete(ctx, obj.Key); err != nil {
		t.Errorf("second Delete failed: %v", err)
	}
}

const (
	pngHeader  = "\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"
	jpegHeader = "\xff\xd8\xff\xe0\x00\x10JFIF\x00"
)

func TestLocalStore_RejectsNonImage(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(dir, "/media")
	if err != nil {
		t.Fatalf("NewLocalStore failed: %v", err)
	}

	tests := []struct {
		name    string
		content string
	}{
		{"page.png", "<html><script>alert(1)</script></html>"},
		{"logo.png", `<svg xmlns="http://www.w3.org/2000/svg"><script>alert(1)</script></svg>`},
		{"notes.jpg", "plain text"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := store.Put(context.Background(), FolderDonationProofs, File{
				Name:    tc.name,
				Size:    int64(len(tc.content)),
				Content: strings.NewReader(tc.content),
			})
			if !errors.Is(err, ErrNotImage) {
				t.Errorf("expected ErrNotImage, got %v", err)
			}
		})
	}

	entries, _ := os.ReadDir(filepath.Join(dir, FolderDonationProofs))
	if len(entries) != 0 {
		t.Errorf("expected nothing written, found %d files", len(entries))
	}
}

func TestImage_NamesFileAfterDetectedType(t *testing.T) {
	content := jpegHeader + strings.Repeat("x", 1024)
	f, err := Image(File{Name: "photo.html", Size: int64(len(content)), Content: strings.NewReader(content)})
	if err != nil {
		t.Fatalf("Image failed: %v", err)
	}
	if f.Name != "image.jpg" {
		t.Errorf("expected name image.jpg, got %q", f.Name)
	}

	data, err := io.ReadAll(f.Content)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != content {
		t.Errorf("content was not preserved after sniffing")
	}
}

func TestLocalStore_KeyOf(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), "/media/")
	if err != nil {
		t.Fatalf("NewLocalStore failed: %v", err)
	}

	if key, ok := store.KeyOf("/media/disaster_images/a.png"); !ok || key != "disaster_images/a.png" {
		t.Errorf("unexpected key %q ok=%v", key, ok)
	}
	if _, ok := store.KeyOf("https://example.com/a.png"); ok {
		t.Error("expected foreign url to be rejected")
	}
}

func TestLocalStore_RejectsEmptyFile(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), "/media")
	if err != nil {
		t.Fatalf("NewLocalStore failed: %v", err)
	}

	_, err = store.Put(context.Background(), FolderProfilePictures, File{Name: "a.jpg"})
	if !errors.Is(err, ErrEmptyFile) {
		t.Errorf("expected ErrEmptyFile, got %v", err)
	}
}

func TestLocalStore_DeleteStaysInsideDir(t *testing.T) {
	parent := t.TempDir()
	outside := filepath.Join(parent, "keep.txt")
	if err := os.WriteFile(outside, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	store, err := NewLocalStore(filepath.Join(parent, "media"), "/media")
	if err != nil {
		t.Fatalf("NewLocalStore failed: %v", err)
	}
	if err := store.Delete(context.Background(), "../keep.txt"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := os.Stat(outside); err != nil {
		t.Errorf("file outside the store was touched: %v", err)
	}
}
