package gallery

import (
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// ErrUnsupportedType is returned for files outside png/jpg/jpeg.
var ErrUnsupportedType = errors.New("gallery: unsupported image type")

// AllowedExtensions lists the extensions the upload affordance offers.
var AllowedExtensions = []string{".png", ".jpg", ".jpeg"}

// Upload is one accepted image. It is never mutated after creation.
type Upload struct {
	Name        string
	Identity    string
	ContentType string
	Data        []byte
	Fingerprint string
}

// Open reads an image from disk. The cleaned absolute path is the upload's identity.
func Open(path string) (Upload, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return Upload{}, fmt.Errorf("resolve %s: %w", path, err)
	}
	if !allowedExt(abs) {
		return Upload{}, fmt.Errorf("%s: %w", filepath.Base(abs), ErrUnsupportedType)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return Upload{}, fmt.Errorf("read %s: %w", abs, err)
	}
	return FromBytes(abs, data)
}

// FromBytes builds an upload from raw bytes. identity names the source reference
// and doubles as the display name's origin.
func FromBytes(identity string, data []byte) (Upload, error) {
	if !allowedExt(identity) {
		return Upload{}, fmt.Errorf("%s: %w", identity, ErrUnsupportedType)
	}
	ct := http.DetectContentType(data)
	if ct != "image/png" && ct != "image/jpeg" {
		return Upload{}, fmt.Errorf("%s sniffed as %s: %w", identity, ct, ErrUnsupportedType)
	}
	sum := blake2b.Sum256(data)
	return Upload{
		Name:        filepath.Base(identity),
		Identity:    identity,
		ContentType: ct,
		Data:        data,
		Fingerprint: hex.EncodeToString(sum[:]),
	}, nil
}

func allowedExt(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, a := range AllowedExtensions {
		if ext == a {
			return true
		}
	}
	return false
}
