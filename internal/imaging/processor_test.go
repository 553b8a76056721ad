// Copyright (c) 2025-2026 REMILA Contest Team
// SPDX-License-Identifier: GPL-3.0-or-later

package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func testJPEG(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("encoding test image: %v", err)
	}
	return buf.Bytes()
}

func TestProcessEntryPhoto(t *testing.T) {
	dir := t.TempDir()
	p := NewProcessor(dir)

	data := testJPEG(t, 120, 80)
	photo, err := p.ProcessEntryPhoto(bytes.NewReader(data), "style.jpg")
	if err != nil {
		t.Fatalf("ProcessEntryPhoto error: %v", err)
	}

	if photo.Width != 120 || photo.Height != 80 {
		t.Errorf("dimensions = %dx%d, want 120x80", photo.Width, photo.Height)
	}
	if filepath.IsAbs(photo.PhotoPath) || filepath.IsAbs(photo.ThumbPath) {
		t.Error("returned paths should be relative to the uploads root")
	}
	if !strings.HasPrefix(photo.PhotoPath, "entries/") {
		t.Errorf("PhotoPath = %q, want entries/ prefix", photo.PhotoPath)
	}

	for _, rel := range []string{photo.PhotoPath, photo.ThumbPath} {
		if _, err := os.Stat(filepath.Join(dir, rel)); err != nil {
			t.Errorf("stored file missing: %v", err)
		}
	}

	// Thumbnail must be an exact square at the configured edge.
	f, err := os.Open(filepath.Join(dir, photo.ThumbPath))
	if err != nil {
		t.Fatalf("opening thumbnail: %v", err)
	}
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		t.Fatalf("decoding thumbnail: %v", err)
	}
	if cfg.Width != ThumbEdge || cfg.Height != ThumbEdge {
		t.Errorf("thumbnail = %dx%d, want %dx%d", cfg.Width, cfg.Height, ThumbEdge, ThumbEdge)
	}
}

func TestProcessEntryPhoto_DownscalesLargeImages(t *testing.T) {
	p := NewProcessor(t.TempDir())

	data := testJPEG(t, MaxPhotoEdge+500, 400)
	photo, err := p.ProcessEntryPhoto(bytes.NewReader(data), "wide.jpg")
	if err != nil {
		t.Fatalf("ProcessEntryPhoto error: %v", err)
	}
	if photo.Width > MaxPhotoEdge || photo.Height > MaxPhotoEdge {
		t.Errorf("dimensions = %dx%d, want longest edge <= %d", photo.Width, photo.Height, MaxPhotoEdge)
	}
}

func TestProcessEntryPhoto_RejectsNonImage(t *testing.T) {
	p := NewProcessor(t.TempDir())

	if _, err := p.ProcessEntryPhoto(strings.NewReader("just some text"), "notes.txt"); err == nil {
		t.Fatal("ProcessEntryPhoto accepted non-image data")
	}
}

func TestDeleteEntryPhoto(t *testing.T) {
	dir := t.TempDir()
	p := NewProcessor(dir)

	photo, err := p.ProcessEntryPhoto(bytes.NewReader(testJPEG(t, 50, 50)), "x.jpg")
	if err != nil {
		t.Fatalf("ProcessEntryPhoto error: %v", err)
	}
	if err := p.DeleteEntryPhoto(photo.PhotoPath); err != nil {
		t.Fatalf("DeleteEntryPhoto error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, photo.PhotoPath)); !os.IsNotExist(err) {
		t.Error("photo file still exists after delete")
	}
}

func TestDeleteEntryPhoto_RejectsOutsidePaths(t *testing.T) {
	p := NewProcessor(t.TempDir())

	for _, path := range []string{"../../etc/passwd", "other/file.jpg", "x.jpg"} {
		if err := p.DeleteEntryPhoto(path); err == nil {
			t.Errorf("DeleteEntryPhoto(%q) accepted a path outside the entries tree", path)
		}
	}
}
