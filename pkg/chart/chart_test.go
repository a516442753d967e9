package chart

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/datacommons/dogviz/pkg/errors"
	"github.com/datacommons/dogviz/pkg/fonts"
)

func testStyle() Style {
	return DefaultStyle(fonts.Default())
}

func decode(t *testing.T, img *Image) image.Image {
	t.Helper()
	m, err := png.Decode(bytes.NewReader(img.PNG))
	if err != nil {
		t.Fatalf("decode PNG: %v", err)
	}
	if b := m.Bounds(); b.Dx() != img.Width || b.Dy() != img.Height {
		t.Errorf("PNG is %dx%d, Image reports %dx%d", b.Dx(), b.Dy(), img.Width, img.Height)
	}
	return m
}

// contains reports whether any pixel of m has exactly the color c.
func contains(m image.Image, c color.Color) bool {
	want := color.RGBAModel.Convert(c).(color.RGBA)
	b := m.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if color.RGBAModel.Convert(m.At(x, y)).(color.RGBA) == want {
				return true
			}
		}
	}
	return false
}

func TestBar(t *testing.T) {
	img, err := Bar(BarChart{
		Name:       "age_count.png",
		Title:      "AGE DISTRIBUTIONS AS OF MAY, 2024",
		XLabel:     "AGE",
		YLabel:     "DOGS",
		Labels:     []string{"1", "2", "3", "7"},
		Values:     []float64{120, 340, 280, 15},
		Color:      AgeColor,
		YStep:      100,
		Headroom:   100,
		ShowValues: true,
		Size:       AgeSize,
	}, testStyle())
	if err != nil {
		t.Fatalf("Bar: %v", err)
	}

	m := decode(t, img)
	if img.Width != 1000 || img.Height != 600 {
		t.Errorf("size = %dx%d, want 1000x600", img.Width, img.Height)
	}
	if !contains(m, AgeColor) {
		t.Error("no bar pixels in the age color")
	}
	if img.Description.Title == "" || img.Description.Series != 1 {
		t.Errorf("Description = %+v", img.Description)
	}
}

func TestGroupedBar(t *testing.T) {
	img, err := GroupedBar(GroupedBarChart{
		Name:       "sex_status.png",
		Title:      "SEX STATUS, BASELINE VS YEAR 8",
		YLabel:     "PERCENTAGE OF DOGS",
		Categories: []string{"Male Intact", "Female Intact", "Female Spayed", "Male Neutered"},
		Groups:     []string{"Baseline", "Year 4", "Year 8"},
		Values: [][]float64{
			{30, 30, 20, 20},
			{20, 20, 30, 30},
			{10, 10, 40, 40},
		},
		Colors:  StatusColors,
		YStep:   10,
		YFormat: "%.0f%%",
		Size:    StatusSize,
	}, testStyle())
	if err != nil {
		t.Fatalf("GroupedBar: %v", err)
	}

	m := decode(t, img)
	if img.Width != 1000 || img.Height != 800 {
		t.Errorf("size = %dx%d, want 1000x800", img.Width, img.Height)
	}
	for _, c := range StatusColors {
		if !contains(m, c) {
			t.Errorf("no pixels in series color %v", c)
		}
	}
	if got := img.Description.Legend; len(got) != 3 || got[2] != "Year 8" {
		t.Errorf("Legend = %v", got)
	}
}

func TestBarErrors(t *testing.T) {
	st := testStyle()
	tests := []struct {
		name string
		fn   func() error
	}{
		{"no bars", func() error {
			_, err := Bar(BarChart{Name: "x", YStep: 1, Size: AgeSize}, st)
			return err
		}},
		{"label mismatch", func() error {
			_, err := Bar(BarChart{Name: "x", Labels: []string{"a"}, Values: []float64{1, 2}, YStep: 1, Size: AgeSize}, st)
			return err
		}},
		{"zero step", func() error {
			_, err := Bar(BarChart{Name: "x", Labels: []string{"a"}, Values: []float64{1}, Size: AgeSize}, st)
			return err
		}},
		{"ragged groups", func() error {
			_, err := GroupedBar(GroupedBarChart{
				Name: "x", Categories: []string{"a", "b"}, Groups: []string{"g"},
				Values: [][]float64{{1}}, Colors: StatusColors, YStep: 10, Size: StatusSize,
			}, st)
			return err
		}},
		{"too few colors", func() error {
			_, err := GroupedBar(GroupedBarChart{
				Name: "x", Categories: []string{"a"}, Groups: []string{"g", "h"},
				Values: [][]float64{{1}, {2}}, Colors: StatusColors[:1], YStep: 10, Size: StatusSize,
			}, st)
			return err
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.fn(); !errors.Is(err, errors.ErrCodeRenderFailed) {
				t.Errorf("got %v, want RENDER_FAILED", err)
			}
		})
	}
}

func aggressionChart() DivergingChart {
	return DivergingChart{
		Name:   "behavior_aggression.png",
		Title:  "AGGRESSION",
		XLabel: "SHARE OF RESPONSES",
		YLabel: "BEHAVIOR",
		Rows: []DivergingRow{
			{Label: "Dog Rivalry", Proportions: [5]float64{0.1, 0.1, 0.2, 0.3, 0.3}},
			{Label: "Owner-Directed Aggression", Proportions: [5]float64{0.8, 0.1, 0.05, 0.05, 0}},
		},
		Colors: BehaviorColor,
		Legend: [3]string{"No Aggression", "Moderate Aggression", "Severe Aggression"},
		Size:   BehaviorSize,
	}
}

func TestDiverging(t *testing.T) {
	img, err := Diverging(aggressionChart(), testStyle())
	if err != nil {
		t.Fatalf("Diverging: %v", err)
	}

	m := decode(t, img)
	if img.Width != 2000 || img.Height != 600 {
		t.Errorf("size = %dx%d, want 2000x600", img.Width, img.Height)
	}
	for _, c := range BehaviorColor {
		if !contains(m, c) {
			t.Errorf("no pixels in bucket color %v", c)
		}
	}
	if img.Description.Series != 5 || len(img.Description.Legend) != 3 {
		t.Errorf("Description = %+v", img.Description)
	}
}

func TestDivergingPanels(t *testing.T) {
	fear := aggressionChart()
	fear.Title = "FEAR / ANXIETY"

	img, err := DivergingPanels("behavior_combined.png", []DivergingChart{aggressionChart(), fear}, CombinedSize, testStyle())
	if err != nil {
		t.Fatalf("DivergingPanels: %v", err)
	}
	decode(t, img)
	if img.Width != 2000 || img.Height != 1800 {
		t.Errorf("size = %dx%d, want 2000x1800", img.Width, img.Height)
	}
	if img.Description.Title != "AGGRESSION / FEAR / ANXIETY" {
		t.Errorf("Title = %q", img.Description.Title)
	}

	if _, err := DivergingPanels("x", nil, CombinedSize, testStyle()); !errors.Is(err, errors.ErrCodeRenderFailed) {
		t.Errorf("no panels: got %v, want RENDER_FAILED", err)
	}
}

func TestDivergingErrors(t *testing.T) {
	c := aggressionChart()
	c.Rows = nil
	if _, err := Diverging(c, testStyle()); !errors.Is(err, errors.ErrCodeRenderFailed) {
		t.Errorf("no rows: got %v, want RENDER_FAILED", err)
	}

	c = aggressionChart()
	c.Colors[3] = nil
	if _, err := Diverging(c, testStyle()); !errors.Is(err, errors.ErrCodeRenderFailed) {
		t.Errorf("missing color: got %v, want RENDER_FAILED", err)
	}
}

func TestHex(t *testing.T) {
	tests := []struct {
		in      string
		want    color.RGBA
		wantErr bool
	}{
		{"#FF5F1F", color.RGBA{0xff, 0x5f, 0x1f, 0xff}, false},
		{"d0db01", color.RGBA{0xd0, 0xdb, 0x01, 0xff}, false},
		{"#fff", color.RGBA{0xff, 0xff, 0xff, 0xff}, false},
		{"#12345", color.RGBA{}, true},
		{"#GGGGGG", color.RGBA{}, true},
	}
	for _, tt := range tests {
		got, err := Hex(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("Hex(%q) = %v, %v; want %v, wantErr %v", tt.in, got, err, tt.want, tt.wantErr)
		}
	}
}
