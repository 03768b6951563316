package assets

import (
	"image"
	"image/color"
	"image/png"
	"os"

	"github.com/pkg/errors"
	"github.com/wildfireconsulting/quantix/pkg/common"
)

// EnsurePlaceholder writes the shared "no photo" image if it is missing: a
// light gray tile with a diagonal cross, same look the legacy data sets carry.
func (l Layout) EnsurePlaceholder() error {
	path := l.Placeholder()
	if common.FileExists(path) {
		return nil
	}
	const size = 300
	bg := color.RGBA{R: 220, G: 220, B: 220, A: 255}
	fg := color.RGBA{R: 150, G: 150, B: 150, A: 255}
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			img.SetRGBA(x, y, bg)
		}
	}
	// diagonal cross between (50,50) and (250,250)
	for i := 50; i <= 250; i++ {
		for w := -2; w <= 2; w++ {
			img.SetRGBA(i+w, i, fg)
			img.SetRGBA(size-i+w, i, fg)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create placeholder")
	}
	defer f.Close()
	return png.Encode(f, img)
}
