package carousel

import (
	"errors"
	"fmt"
	"image"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	// Decoders for the asset formats the launcher accepts.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	xdraw "golang.org/x/image/draw"
)

// BackgroundAsset is the window background, relative to a search path.
const BackgroundAsset = "images/background.png"

// ErrAssetNotFound is returned when no search path contains the requested asset.
var ErrAssetNotFound = errors.New("asset not found")

// ImageAsset returns the relative path of the n-th carousel image.
func ImageAsset(n int) string {
	return fmt.Sprintf("images/image%d.png", n)
}

// Resolve returns the first existing file named name under the search paths.
// An absolute name is returned unchanged if it exists.
func Resolve(searchPaths []string, name string) (string, error) {
	if filepath.IsAbs(name) {
		if _, err := os.Stat(name); err != nil {
			return "", fmt.Errorf("%s: %w", name, ErrAssetNotFound)
		}
		return name, nil
	}

	paths := searchPaths
	if len(paths) == 0 {
		paths = []string{"."}
	}

	for _, dir := range paths {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		} else if !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("stat %s: %w", candidate, err)
		}
	}

	return "", fmt.Errorf("%s: %w", name, ErrAssetNotFound)
}

// LoadImage decodes the image at path and scales it to width x height.
func LoadImage(path string, width, height int) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	if b := src.Bounds(); b.Dx() == width && b.Dy() == height {
		return src, nil
	}

	return Scale(src, width, height), nil
}

// Scale resizes src to width x height using bilinear interpolation.
func Scale(src image.Image, width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst
}

// Loader resolves and decodes carousel assets.
type Loader struct {
	SearchPaths []string
	Width       int
	Height      int
	Logger      *slog.Logger
}

// Panels loads count image panels sized to the display, in load order.
// A missing or undecodable image yields a panel without an image; the
// failure is logged and loading continues.
func (l *Loader) Panels(count int) []*Panel {
	panels := make([]*Panel, 0, count)
	for n := 0; n < count; n++ {
		p := &Panel{
			Index:  n,
			Width:  l.Width,
			Height: l.Height,
		}

		img, err := l.load(ImageAsset(n))
		if err != nil {
			l.Logger.Warn("Failed to load carousel image", "image", ImageAsset(n), "error", err)
		} else {
			p.Image = img
		}

		panels = append(panels, p)
	}
	return panels
}

// Background loads the window background scaled to the display.
func (l *Loader) Background() (image.Image, error) {
	return l.load(BackgroundAsset)
}

func (l *Loader) load(name string) (image.Image, error) {
	path, err := Resolve(l.SearchPaths, name)
	if err != nil {
		return nil, err
	}

	img, err := LoadImage(path, l.Width, l.Height)
	if err != nil {
		return nil, err
	}

	l.Logger.Debug("Loaded image", "path", path)
	return img, nil
}
