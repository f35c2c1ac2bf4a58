// Package storage keeps uploaded images (disaster photos, donation proofs,
// profile pictures). Uploads are checked to be images before they are kept.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

const (
	FolderDisasterImages  = "disaster_images"
	FolderDonationProofs  = "donation_proofs"
	FolderProfilePictures = "profile_pics"
)

var (
	ErrEmptyFile = errors.New("empty file")
	ErrNotImage  = errors.New("file is not a supported image")
)

// imageTypes are the formats accepted for uploads. SVG is left out since it
// can carry script.
var imageTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

// sniffLen is how much of an upload is inspected to detect its type.
const sniffLen = 512

// File is an upload handed to a service by the transport layer.
type File struct {
	Name    string
	Size    int64
	Content io.Reader
}

// Object identifies a stored blob. URL is what records keep; Key is what
// Delete needs.
type Object struct {
	Key string
	URL string
}

type Store interface {
	Put(ctx context.Context, folder string, f File) (Object, error)
	Delete(ctx context.Context, key string) error
	// KeyOf maps a URL handed out by Put back to its key. ok is false for
	// URLs the store did not produce.
	KeyOf(url string) (key string, ok bool)
}

// Image checks that f starts with the signature of an accepted image format.
// The returned file has the inspected bytes put back in front of the content
// and is named after the detected type, so the client's filename never
// decides the stored extension.
func Image(f File) (File, error) {
	if f.Content == nil || f.Size == 0 {
		return File{}, ErrEmptyFile
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(f.Content, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return File{}, fmt.Errorf("error reading upload: %w", err)
	}
	if n == 0 {
		return File{}, ErrEmptyFile
	}
	head = head[:n]

	mt := mimetype.Detect(head)
	for _, t := range imageTypes {
		if mt.Is(t) {
			return File{
				Name:    "image" + mt.Extension(),
				Size:    f.Size,
				Content: io.MultiReader(bytes.NewReader(head), f.Content),
			}, nil
		}
	}
	return File{}, fmt.Errorf("detected %s: %w", mt.String(), ErrNotImage)
}

// objectName builds a collision-free name that keeps the upload's extension.
func objectName(filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	if len(ext) > 10 || strings.ContainsAny(ext, `/\`) {
		ext = ""
	}
	return uuid.NewString() + ext
}
