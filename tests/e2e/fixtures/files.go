package fixtures

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fogleman/gg"
)

const (
	ImageFile    = "test-image.jpg"
	DocumentFile = "test-document.txt"
)

// Files are the upload fixtures on disk.
type Files struct {
	Image    string
	Document string
}

// EnsureFiles creates the upload fixtures in dir unless they already exist.
func EnsureFiles(dir string) (Files, error) {
	files := Files{
		Image:    filepath.Join(dir, ImageFile),
		Document: filepath.Join(dir, DocumentFile),
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return files, fmt.Errorf("failed to create fixtures dir: %w", err)
	}

	if _, err := os.Stat(files.Image); os.IsNotExist(err) {
		if err := writePortrait(files.Image); err != nil {
			return files, err
		}
	}
	if _, err := os.Stat(files.Document); os.IsNotExist(err) {
		content := []byte("This is not an image. Uploading it as an employee photo must be rejected.\n")
		if err := os.WriteFile(files.Document, content, 0o644); err != nil {
			return files, fmt.Errorf("failed to write %s: %w", files.Document, err)
		}
	}
	return files, nil
}

// writePortrait draws a small placeholder avatar and saves it as JPEG.
func writePortrait(path string) error {
	const size = 128
	dc := gg.NewContext(size, size)
	dc.SetRGB(0.93, 0.94, 0.96)
	dc.Clear()

	dc.SetRGB(0.25, 0.47, 0.85)
	dc.DrawCircle(size/2, size*0.38, size*0.2)
	dc.Fill()
	dc.DrawEllipse(size/2, size*0.95, size*0.38, size*0.3)
	dc.Fill()

	if err := gg.SaveJPG(path, dc.Image(), 90); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
