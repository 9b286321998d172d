// Package visual compares page screenshots with stored PNG baselines.
package visual

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fogleman/gg"
	"github.com/playwright-community/playwright-go"
	"github.com/staffhub/employee-e2e/tests/e2e/config"
)

// ErrBaselineMissing is returned when no baseline exists and updates are off.
var ErrBaselineMissing = errors.New("baseline missing")

// MismatchError describes a screenshot that differs from its baseline.
type MismatchError struct {
	Name       string
	Reason     string
	DiffPixels int
	DiffRatio  float64
	ActualPath string
	DiffPath   string
}

func (e *MismatchError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("screenshot %s does not match baseline: %s (actual: %s)", e.Name, e.Reason, e.ActualPath)
	}
	return fmt.Sprintf("screenshot %s does not match baseline: %d pixels differ (%.4f), diff: %s",
		e.Name, e.DiffPixels, e.DiffRatio, e.DiffPath)
}

// Store holds baselines in Dir and writes actual/diff images to ActualDir.
type Store struct {
	Dir       string
	ActualDir string
	Update    bool
	// PixelTolerance is the per-channel difference, in [0,1], a pixel may have
	// before it counts as changed.
	PixelTolerance float64
	// MaxDiffRatio is the share of changed pixels a screenshot may have.
	MaxDiffRatio float64
}

func NewStore(cfg *config.TestConfig) *Store {
	return &Store{
		Dir:            cfg.BaselinesDir,
		ActualDir:      filepath.Join(cfg.ResultsDir, "visual"),
		Update:         cfg.UpdateBaselines,
		PixelTolerance: cfg.Visual.PixelTolerance,
		MaxDiffRatio:   cfg.Visual.MaxDiffRatio,
	}
}

// BaselineName suffixes name with the browser so engines keep separate baselines.
func BaselineName(name, browser string) string {
	base := strings.TrimSuffix(name, ".png")
	if browser == "" {
		return base + ".png"
	}
	return fmt.Sprintf("%s-%s.png", base, browser)
}

// MatchPageScreenshot captures a full-page screenshot and compares it. Regions
// matched by mask are painted over before capture.
func (s *Store) MatchPageScreenshot(page playwright.Page, name string, mask ...playwright.Locator) error {
	opts := playwright.PageScreenshotOptions{
		FullPage:   playwright.Bool(true),
		Animations: playwright.ScreenshotAnimationsDisabled,
	}
	if len(mask) > 0 {
		opts.Mask = mask
	}
	shot, err := page.Screenshot(opts)
	if err != nil {
		return fmt.Errorf("failed to capture %s: %w", name, err)
	}
	return s.Compare(name, shot)
}

// Compare checks a PNG screenshot against the named baseline.
func (s *Store) Compare(name string, actual []byte) error {
	actualImg, err := png.Decode(bytes.NewReader(actual))
	if err != nil {
		return fmt.Errorf("screenshot %s is not a PNG: %w", name, err)
	}

	baselinePath := filepath.Join(s.Dir, name)
	if s.Update {
		return s.write(baselinePath, actual)
	}

	if _, err := os.Stat(baselinePath); os.IsNotExist(err) {
		actualPath, werr := s.writeActual(name, actual)
		if werr != nil {
			return werr
		}
		return fmt.Errorf("%w: %s (actual written to %s; rerun with E2E_UPDATE_BASELINES=true to accept)",
			ErrBaselineMissing, baselinePath, actualPath)
	}

	baseline, err := gg.LoadPNG(baselinePath)
	if err != nil {
		return fmt.Errorf("failed to load baseline %s: %w", baselinePath, err)
	}

	if baseline.Bounds().Size() != actualImg.Bounds().Size() {
		actualPath, werr := s.writeActual(name, actual)
		if werr != nil {
			return werr
		}
		return &MismatchError{
			Name:       name,
			Reason:     fmt.Sprintf("size %v, baseline %v", actualImg.Bounds().Size(), baseline.Bounds().Size()),
			ActualPath: actualPath,
		}
	}

	changed := changedPixels(baseline, actualImg, s.PixelTolerance)
	total := actualImg.Bounds().Dx() * actualImg.Bounds().Dy()
	ratio := 0.0
	if total > 0 {
		ratio = float64(len(changed)) / float64(total)
	}
	if ratio <= s.MaxDiffRatio {
		return nil
	}

	actualPath, err := s.writeActual(name, actual)
	if err != nil {
		return err
	}
	diffPath := strings.TrimSuffix(actualPath, ".png") + "-diff.png"
	if err := writeDiff(diffPath, baseline, changed); err != nil {
		return err
	}
	return &MismatchError{
		Name:       name,
		DiffPixels: len(changed),
		DiffRatio:  ratio,
		ActualPath: actualPath,
		DiffPath:   diffPath,
	}
}

// changedPixels returns the points where any channel differs by more than tolerance.
func changedPixels(a, b image.Image, tolerance float64) []image.Point {
	var out []image.Point
	limit := uint32(tolerance * 0xffff)
	ab, bb := a.Bounds(), b.Bounds()
	for y := 0; y < ab.Dy(); y++ {
		for x := 0; x < ab.Dx(); x++ {
			r1, g1, b1, a1 := a.At(ab.Min.X+x, ab.Min.Y+y).RGBA()
			r2, g2, b2, a2 := b.At(bb.Min.X+x, bb.Min.Y+y).RGBA()
			if absDiff(r1, r2) > limit || absDiff(g1, g2) > limit ||
				absDiff(b1, b2) > limit || absDiff(a1, a2) > limit {
				out = append(out, image.Pt(x, y))
			}
		}
	}
	return out
}

func absDiff(a, b uint32) uint32 {
	if a > b {
		return a - b
	}
	return b - a
}

// writeDiff dims the baseline and paints changed pixels red.
func writeDiff(path string, baseline image.Image, changed []image.Point) error {
	dc := gg.NewContextForImage(baseline)
	dc.SetRGBA(1, 1, 1, 0.7)
	dc.DrawRectangle(0, 0, float64(dc.Width()), float64(dc.Height()))
	dc.Fill()
	dc.SetRGB(1, 0, 0)
	for _, p := range changed {
		dc.SetPixel(p.X, p.Y)
	}
	if err := dc.SavePNG(path); err != nil {
		return fmt.Errorf("failed to write diff %s: %w", path, err)
	}
	return nil
}

func (s *Store) writeActual(name string, data []byte) (string, error) {
	path := filepath.Join(s.ActualDir, strings.TrimSuffix(name, ".png")+"-actual.png")
	return path, s.write(path, data)
}

func (s *Store) write(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// List returns the stored baseline names, sorted.
func (s *Store) List() ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(s.Dir, "*.png"))
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, filepath.Base(m))
	}
	sort.Strings(names)
	return names, nil
}

// Remove deletes a baseline so the next run records it again.
func (s *Store) Remove(name string) error {
	if name != filepath.Base(name) {
		return fmt.Errorf("invalid baseline name %q", name)
	}
	if err := os.Remove(filepath.Join(s.Dir, name)); err != nil {
		return fmt.Errorf("failed to remove baseline %s: %w", name, err)
	}
	return nil
}
