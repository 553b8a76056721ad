// Copyright (c) 2025-2026 REMILA Contest Team
// SPDX-License-Identifier: GPL-3.0-or-later

// Package imaging prepares uploaded entry photos for the contest gallery:
// EXIF-aware rotation, a bounded full-size rendition, and a square
// thumbnail for grid views.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/webp" // WebP decoder
)

// Rendition limits for gallery photos.
const (
	MaxPhotoEdge  = 2000 // longest edge of the full-size rendition
	ThumbEdge     = 600  // square thumbnail edge
	photoQuality  = 90
	thumbQuality  = 82
	entriesSubDir = "entries"
)

// Photo describes the stored renditions of one processed upload.
type Photo struct {
	PhotoPath string // relative to the uploads directory
	ThumbPath string
	Width     int
	Height    int
	Size      int64
}

// Processor turns uploaded images into gallery renditions.
type Processor struct {
	uploadDir string
}

// NewProcessor creates an image processor rooted at uploadDir.
func NewProcessor(uploadDir string) *Processor {
	return &Processor{uploadDir: uploadDir}
}

// ProcessEntryPhoto decodes an uploaded image, applies EXIF orientation,
// and writes the full-size rendition plus a square thumbnail under a fresh
// per-upload directory. The returned paths are relative to the uploads root.
func (p *Processor) ProcessEntryPhoto(reader io.Reader, filename string) (*Photo, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("reading image data: %w", err)
	}

	format := detectFormat(data)
	if format == "" {
		return nil, fmt.Errorf("unsupported image format")
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}

	// Phone uploads arrive rotated via EXIF; bake the rotation in since
	// the pure Go encoders drop EXIF metadata.
	img = applyOrientation(img, readExifOrientation(bytes.NewReader(data)))

	bounds := img.Bounds()
	if bounds.Dx() > MaxPhotoEdge || bounds.Dy() > MaxPhotoEdge {
		img = imaging.Fit(img, MaxPhotoEdge, MaxPhotoEdge, imaging.Lanczos)
		bounds = img.Bounds()
	}

	thumb := imaging.Fill(img, ThumbEdge, ThumbEdge, imaging.Center, imaging.Lanczos)

	photoBytes, err := encodeImage(img, format, photoQuality)
	if err != nil {
		return nil, fmt.Errorf("encoding photo: %w", err)
	}
	thumbBytes, err := encodeImage(thumb, format, thumbQuality)
	if err != nil {
		return nil, fmt.Errorf("encoding thumbnail: %w", err)
	}

	id := uuid.NewString()
	name := outputFilename(filename, format)

	photoPath, err := p.save(filepath.Join(entriesSubDir, id), name, photoBytes)
	if err != nil {
		return nil, fmt.Errorf("saving photo: %w", err)
	}
	thumbPath, err := p.save(filepath.Join(entriesSubDir, id, "thumb"), name, thumbBytes)
	if err != nil {
		return nil, fmt.Errorf("saving thumbnail: %w", err)
	}

	return &Photo{
		PhotoPath: photoPath,
		ThumbPath: thumbPath,
		Width:     bounds.Dx(),
		Height:    bounds.Dy(),
		Size:      int64(len(photoBytes)),
	}, nil
}

// DeleteEntryPhoto removes the stored renditions for a photo path returned
// by ProcessEntryPhoto.
func (p *Processor) DeleteEntryPhoto(photoPath string) error {
	// The per-upload directory is the parent of the stored photo.
	dir := filepath.Dir(photoPath)
	if dir == "." || dir == "/" || !strings.HasPrefix(dir, entriesSubDir) {
		return fmt.Errorf("invalid photo path")
	}
	if err := os.RemoveAll(filepath.Join(p.uploadDir, dir)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("deleting photo files: %w", err)
	}
	return nil
}

// IsSupportedType checks whether an uploaded MIME type can be processed.
func (p *Processor) IsSupportedType(mimeType string) bool {
	switch mimeType {
	case "image/jpeg", "image/png", "image/webp":
		return true
	default:
		return false
	}
}

// DetectMimeType detects the MIME type of image data.
func (p *Processor) DetectMimeType(data []byte) string {
	contentType := http.DetectContentType(data)
	if idx := strings.Index(contentType, ";"); idx != -1 {
		contentType = contentType[:idx]
	}
	return contentType
}

// readExifOrientation reads the EXIF orientation tag from image data.
// Returns 1 (normal) if orientation cannot be determined.
func readExifOrientation(r io.Reader) int {
	x, err := exif.Decode(r)
	if err != nil {
		return 1
	}

	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}

	orientation, err := tag.Int(0)
	if err != nil {
		return 1
	}

	return orientation
}

// applyOrientation applies an EXIF orientation transformation to an image.
func applyOrientation(img image.Image, orientation int) image.Image {
	switch orientation {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.FlipH(imaging.Rotate270(img))
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.FlipH(imaging.Rotate90(img))
	case 8:
		return imaging.Rotate90(img)
	default:
		return img
	}
}

// encodeImage encodes an image with the specified format and quality.
// WebP input is re-encoded as JPEG since pure Go has no WebP encoder.
func encodeImage(img image.Image, format string, quality int) ([]byte, error) {
	var buf bytes.Buffer

	switch format {
	case "png":
		if err := png.Encode(&buf, img); err != nil {
			return nil, err
		}
	default:
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
			return nil, err
		}
	}

	return buf.Bytes(), nil
}

// detectFormat detects the image format from raw bytes.
func detectFormat(data []byte) string {
	contentType := http.DetectContentType(data)
	// Explicitly reject TIFF (CVE-2023-36308 in disintegration/imaging)
	if strings.Contains(contentType, "tiff") {
		return ""
	}
	switch {
	case strings.Contains(contentType, "jpeg"):
		return "jpeg"
	case strings.Contains(contentType, "png"):
		return "png"
	case strings.Contains(contentType, "webp"):
		return "webp"
	default:
		return ""
	}
}

// outputFilename sanitizes the original filename and normalizes the
// extension to the stored format.
func outputFilename(filename, format string) string {
	base := filepath.Base(filename)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" || base == "." || base == ".." {
		base = "photo"
	}

	ext := ".jpg"
	if format == "png" {
		ext = ".png"
	}
	return base + ext
}

// save writes image data under uploadDir/subDir and returns the path
// relative to the uploads root. The subdirectory is validated against
// path traversal.
func (p *Processor) save(subDir, filename string, data []byte) (string, error) {
	cleanSubDir := filepath.Clean(subDir)
	if strings.Contains(cleanSubDir, "..") || filepath.IsAbs(cleanSubDir) {
		return "", fmt.Errorf("invalid subdirectory path")
	}

	absBase, err := filepath.Abs(p.uploadDir)
	if err != nil {
		return "", fmt.Errorf("resolving base directory: %w", err)
	}

	absTarget := filepath.Join(absBase, cleanSubDir)
	rel, err := filepath.Rel(absBase, absTarget)
	if err != nil || strings.HasPrefix(rel, "..") || filepath.IsAbs(rel) {
		return "", fmt.Errorf("path traversal detected")
	}

	if err := os.MkdirAll(absTarget, 0755); err != nil {
		return "", fmt.Errorf("creating directory: %w", err)
	}

	if err := os.WriteFile(filepath.Join(absTarget, filename), data, 0644); err != nil {
		return "", fmt.Errorf("writing image: %w", err)
	}
	return filepath.Join(cleanSubDir, filename), nil
}
