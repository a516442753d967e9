package fonts

import (
	"os"
	"path/filepath"
	"testing"

	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"gonum.org/v1/plot/font"

	"github.com/datacommons/dogviz/pkg/errors"
)

func TestDefault(t *testing.T) {
	fnt := Default()
	if fnt.Typeface != DefaultTypeface || fnt.Weight != xfont.WeightBold {
		t.Errorf("Default() = %+v", fnt)
	}
	if !font.DefaultCache.Has(fnt) {
		t.Error("Default() did not register the embedded face")
	}
	// Registering twice is harmless.
	if Default() != fnt {
		t.Error("Default() is not stable")
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Regular-Test.ttf")
	if err := os.WriteFile(path, goregular.TTF, 0o644); err != nil {
		t.Fatal(err)
	}

	fnt, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if fnt.Typeface != "Regular-Test" {
		t.Errorf("Typeface = %q, want Regular-Test", fnt.Typeface)
	}
	if !font.DefaultCache.Has(fnt) {
		t.Error("Load did not register the face")
	}

	face := font.DefaultCache.Lookup(fnt, 12)
	if face.Face == nil || face.Width("dogs") <= 0 {
		t.Error("registered face cannot measure text")
	}
}

func TestLoadEmptyPath(t *testing.T) {
	fnt, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\"): %v", err)
	}
	if fnt != Default() {
		t.Errorf("Load(\"\") = %+v, want the default font", fnt)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	garbage := filepath.Join(dir, "broken.otf")
	if err := os.WriteFile(garbage, []byte("not a font"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		path string
		code errors.Code
	}{
		{"missing", filepath.Join(dir, "missing.ttf"), errors.ErrCodeFileNotFound},
		{"not a font", garbage, errors.ErrCodeInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.path)
			if !errors.Is(err, tt.code) {
				t.Errorf("Load(%s) = %v, want %s", tt.path, err, tt.code)
			}
		})
	}
}
