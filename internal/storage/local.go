package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// LocalStore writes blobs under a directory served at BaseURL.
type LocalStore struct {
	dir     string
	baseURL string
}

func NewLocalStore(dir, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("error creating upload directory: %w", err)
	}
	return &LocalStore{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (s *LocalStore) Dir() string {
	return s.dir
}

func (s *LocalStore) Put(ctx context.Context, folder string, f File) (Object, error) {
	if err := ctx.Err(); err != nil {
		return Object{}, err
	}
	f, err := Image(f)
	if err != nil {
		return Object{}, err
	}

	key := path.Join(folder, objectName(f.Name))
	full := filepath.Join(s.dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return Object{}, fmt.Errorf("error creating folder %s: %w", folder, err)
	}

	out, err := os.OpenFile(full, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return Object{}, fmt.Errorf("error creating %s: %w", key, err)
	}
	n, err := io.Copy(out, f.Content)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err == nil && n == 0 {
		err = ErrEmptyFile
	}
	if err != nil {
		os.Remove(full)
		return Object{}, fmt.Errorf("error writing %s: %w", key, err)
	}

	return Object{Key: key, URL: s.baseURL + "/" + key}, nil
}

func (s *LocalStore) Delete(ctx context.Context, key string) error {
	clean := path.Clean("/" + key)[1:]
	if clean == "" {
		return fmt.Errorf("invalid key %q", key)
	}
	err := os.Remove(filepath.Join(s.dir, filepath.FromSlash(clean)))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("error deleting %s: %w", key, err)
	}
	return nil
}

func (s *LocalStore) KeyOf(url string) (string, bool) {
	key, ok := strings.CutPrefix(url, s.baseURL+"/")
	if !ok || key == "" {
		return "", false
	}
	return key, true
}
