package Storage

import (
	"bytes"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
)

// Document kinds map to on-disk directories served by the static file
// routes in FiberConfig.
const (
	KindDeliveryPhotos = "DeliveryPhotos"
	KindWeightTickets  = "WeightTickets"
	KindWeighTicketPDF = "WeighTicketPDFs"
)

// Photos wider than this are downscaled before saving; field phones upload
// 12MP originals the detail pages never need.
const maxPhotoWidth = 1600

// LocalStore writes uploaded documents under a root directory and hands
// back the public URL the record keeps. Swapping in a bucket-backed store
// only needs these two methods.
type LocalStore struct {
	Root    string
	BaseURL string
}

func NewLocalStore(root, baseURL string) *LocalStore {
	return &LocalStore{Root: root, BaseURL: strings.TrimRight(baseURL, "/")}
}

// Save writes the bytes under kind/ and returns the URL to store on the
// record. Names are prefixed with a timestamp so repeat uploads of the same
// filename never collide.
func (s *LocalStore) Save(data []byte, kind, name string) (string, error) {
	dir := filepath.Join(s.Root, kind)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create %s dir: %w", kind, err)
	}

	name = fmt.Sprintf("%d_%s", time.Now().UnixNano(), sanitizeName(name))
	if err := os.WriteFile(filepath.Join(dir, name), data, 0644); err != nil {
		return "", fmt.Errorf("write document: %w", err)
	}
	return s.BaseURL + "/" + kind + "/" + name, nil
}

// SavePhoto re-encodes an uploaded image as JPEG, downscaling oversized
// originals, then stores it like Save.
func (s *LocalStore) SavePhoto(data []byte, kind, name string) (string, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("decode photo: %w", err)
	}
	if img.Bounds().Dx() > maxPhotoWidth {
		img = imaging.Resize(img, maxPhotoWidth, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return "", fmt.Errorf("encode photo: %w", err)
	}

	base := strings.TrimSuffix(name, filepath.Ext(name))
	return s.Save(buf.Bytes(), kind, base+".jpg")
}

// Delete unlinks the file behind a URL previously returned by Save.
// Unknown and already-deleted URLs are not errors; the record's list is the
// source of truth, the disk is best effort.
func (s *LocalStore) Delete(url string) error {
	rel := strings.TrimPrefix(url, s.BaseURL)
	rel = strings.TrimPrefix(rel, "/")
	if rel == "" || strings.Contains(rel, "..") {
		return nil
	}
	err := os.Remove(filepath.Join(s.Root, filepath.FromSlash(rel)))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func sanitizeName(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		}
		return '_'
	}, name)
}
