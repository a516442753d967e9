// Package fonts provides the typefaces used for chart text.
//
// The built-in face is Go Bold, embedded in the binary through
// golang.org/x/image/font/gofont, so charts render the same on machines
// without any fonts installed. A font file named in the settings replaces
// it; the file is parsed once and added to the gonum/plot font cache under
// a typeface named after the file.
package fonts

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"sync"

	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
	"gonum.org/v1/plot/font"

	"github.com/datacommons/dogviz/pkg/errors"
)

// DefaultTypeface is the typeface name of the embedded font.
const DefaultTypeface font.Typeface = "Go"

var registerOnce sync.Once

// Default returns the embedded bold face, registering it on first use.
func Default() font.Font {
	registerOnce.Do(func() {
		f, err := opentype.Parse(gobold.TTF)
		if err != nil {
			// The embedded TTF is fixed at build time.
			panic("fonts: parse embedded Go Bold: " + err.Error())
		}
		font.DefaultCache.Add(font.Collection{{Font: bold(DefaultTypeface), Face: f}})
	})
	return bold(DefaultTypeface)
}

// Load parses the TrueType or OpenType file at path, registers it and
// returns its descriptor. The file is registered as the bold weight so it
// matches the weight every chart requests. An empty path returns [Default].
func Load(path string) (font.Font, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, os.ErrNotExist) {
			return font.Font{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "font %s", path)
		}
		return font.Font{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read font %s", path)
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return font.Font{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse font %s", path)
	}

	fnt := bold(typefaceOf(path))
	if !font.DefaultCache.Has(fnt) {
		font.DefaultCache.Add(font.Collection{{Font: fnt, Face: f}})
	}
	return fnt, nil
}

// typefaceOf derives a typeface name from a font file name.
func typefaceOf(path string) font.Typeface {
	return font.Typeface(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
}

func bold(tf font.Typeface) font.Font {
	return font.Font{Typeface: tf, Weight: xfont.WeightBold}
}
