package imgproc

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// Processor re-encodes stored images in place: anything wider or taller than
// MaxDim is downscaled preserving aspect ratio, and images carrying an alpha
// channel or palette are flattened onto a white background first. Failures
// are the caller's business to log; the original file stays on disk untouched
// when Resample returns an error before the final save.
type Processor struct {
	MaxDim  int
	Quality int
}

func New(maxDim, quality int) *Processor {
	return &Processor{MaxDim: maxDim, Quality: quality}
}

// Resample opens, transforms, and re-saves the file at path. The output
// format follows the file extension; Quality applies to JPEG output.
func (p *Processor) Resample(path string) error {
	img, err := imaging.Open(path)
	if err != nil {
		return err
	}

	if needsFlatten(img) {
		bg := imaging.New(img.Bounds().Dx(), img.Bounds().Dy(), color.White)
		img = imaging.OverlayCenter(bg, img, 1.0)
	}

	b := img.Bounds()
	if b.Dx() > p.MaxDim || b.Dy() > p.MaxDim {
		img = imaging.Fit(img, p.MaxDim, p.MaxDim, imaging.Lanczos)
	}

	return imaging.Save(img, path, imaging.JPEGQuality(p.Quality))
}

func needsFlatten(img image.Image) bool {
	if _, ok := img.(*image.Paletted); ok {
		return true
	}
	if o, ok := img.(interface{ Opaque() bool }); ok {
		return !o.Opaque()
	}
	return false
}
