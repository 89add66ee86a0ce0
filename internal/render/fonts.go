package render

import (
	"fmt"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// faceSet holds the fixed set of faces the card layout uses. The Go
// fonts ship with the toolchain's image module, so every build renders
// identical glyphs without external font assets.
type faceSet struct {
	bold24    font.Face
	bold40    font.Face
	bold60    font.Face
	regular24 font.Face
	regular30 font.Face
}

var (
	facesOnce sync.Once
	faces     *faceSet
	facesErr  error
)

// loadFaces parses the embedded fonts once per process.
func loadFaces() (*faceSet, error) {
	facesOnce.Do(func() {
		bold, err := opentype.Parse(gobold.TTF)
		if err != nil {
			facesErr = fmt.Errorf("parsing bold font: %w", err)
			return
		}
		regular, err := opentype.Parse(goregular.TTF)
		if err != nil {
			facesErr = fmt.Errorf("parsing regular font: %w", err)
			return
		}

		fs := &faceSet{}
		for _, fc := range []struct {
			fnt  *opentype.Font
			size float64
			dst  *font.Face
		}{
			{bold, 24, &fs.bold24},
			{bold, 40, &fs.bold40},
			{bold, 60, &fs.bold60},
			{regular, 24, &fs.regular24},
			{regular, 30, &fs.regular30},
		} {
			face, err := opentype.NewFace(fc.fnt, &opentype.FaceOptions{
				Size:    fc.size,
				DPI:     72,
				Hinting: font.HintingFull,
			})
			if err != nil {
				facesErr = fmt.Errorf("creating %gpx face: %w", fc.size, err)
				return
			}
			*fc.dst = face
		}
		faces = fs
	})
	return faces, facesErr
}

// faceMeasure adapts a font.Face to the layout engine's MeasureFunc.
func faceMeasure(face font.Face) MeasureFunc {
	return func(s string) int {
		return font.MeasureString(face, s).Ceil()
	}
}
