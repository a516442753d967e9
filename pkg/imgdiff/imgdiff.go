// Package imgdiff compares rendered charts against a baseline set of PNG
// files.
//
// Two images are compared by the root-mean-square difference of their red,
// green and blue channels, each on the 0-255 scale, combined as a Euclidean
// norm. Identical images score 0. A candidate whose score exceeds the
// threshold fails, and the absolute per-pixel difference is written to
// the diff directory as diff_<name>.png.
package imgdiff

import (
	"image"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/datacommons/dogviz/pkg/errors"
)

// DefaultThreshold is the largest RMS difference that still passes.
const DefaultThreshold = 5.0

// DiffPrefix is prepended to the file name of each written diff image.
const DiffPrefix = "diff_"

// Difference returns the absolute per-channel difference of a and b as an
// opaque image. Both images are normalized to NRGBA with the origin at 0,0.
func Difference(a, b image.Image) (*image.NRGBA, error) {
	na, nb := imaging.Clone(a), imaging.Clone(b)
	if na.Rect.Size() != nb.Rect.Size() {
		return nil, errors.New(errors.ErrCodeInvalidValue,
			"image sizes differ: %v vs %v", na.Rect.Size(), nb.Rect.Size())
	}

	out := image.NewNRGBA(na.Rect)
	for i := 0; i < len(na.Pix); i += 4 {
		for c := 0; c < 3; c++ {
			out.Pix[i+c] = absDiff(na.Pix[i+c], nb.Pix[i+c])
		}
		out.Pix[i+3] = 0xff
	}
	return out, nil
}

// RMS returns the combined RGB root-mean-square difference of a and b.
func RMS(a, b image.Image) (float64, error) {
	d, err := Difference(a, b)
	if err != nil {
		return 0, err
	}
	return rms(d), nil
}

func rms(d *image.NRGBA) float64 {
	n := len(d.Pix) / 4
	if n == 0 {
		return 0
	}
	var sum [3]float64
	for i := 0; i < len(d.Pix); i += 4 {
		for c := 0; c < 3; c++ {
			v := float64(d.Pix[i+c])
			sum[c] += v * v
		}
	}
	// sqrt(sum of per-channel mean squares) equals the norm of the
	// per-channel RMS values.
	return math.Sqrt((sum[0] + sum[1] + sum[2]) / float64(n))
}

func absDiff(a, b uint8) uint8 {
	if a > b {
		return a - b
	}
	return b - a
}

// Result is the comparison of one baseline file.
type Result struct {
	Name string
	RMS  float64
	// Passed is false when the score exceeds the threshold or the sizes
	// differ.
	Passed bool
	// Missing is set when the candidate directory has no file of this name.
	// Missing files are reported but do not fail the comparison.
	Missing bool
	// Err describes why the images could not be compared.
	Err error
	// DiffPath is the written diff image, if any.
	DiffPath string
}

// Report is the outcome of [CompareDirs].
type Report struct {
	Threshold float64
	Results   []Result
}

// Failed returns the results that did not pass, excluding missing files.
func (r *Report) Failed() []Result {
	var out []Result
	for _, res := range r.Results {
		if !res.Missing && !res.Passed {
			out = append(out, res)
		}
	}
	return out
}

// Missing returns the names of baseline files absent from the candidate
// directory.
func (r *Report) Missing() []string {
	var out []string
	for _, res := range r.Results {
		if res.Missing {
			out = append(out, res.Name)
		}
	}
	return out
}

// OK reports whether every present file passed.
func (r *Report) OK() bool {
	return len(r.Failed()) == 0
}

// CompareDirs compares every *.png in baseline with the file of the same
// name in candidate. Failing diffs are written to diffDir, which is created
// if needed. A threshold of zero or less selects [DefaultThreshold].
// Results are ordered by file name.
func CompareDirs(baseline, candidate, diffDir string, threshold float64) (*Report, error) {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}

	entries, err := os.ReadDir(baseline)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "baseline directory %s", baseline)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", baseline)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".png") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	report := &Report{Threshold: threshold}
	for _, name := range names {
		res, err := compareFile(name, baseline, candidate, diffDir, threshold)
		if err != nil {
			return nil, err
		}
		report.Results = append(report.Results, res)
	}
	return report, nil
}

func compareFile(name, baseline, candidate, diffDir string, threshold float64) (Result, error) {
	res := Result{Name: name}

	candPath := filepath.Join(candidate, name)
	if _, err := os.Stat(candPath); os.IsNotExist(err) {
		res.Missing = true
		return res, nil
	}

	a, err := imaging.Open(filepath.Join(baseline, name))
	if err != nil {
		return res, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode %s", filepath.Join(baseline, name))
	}
	b, err := imaging.Open(candPath)
	if err != nil {
		return res, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode %s", candPath)
	}

	d, err := Difference(a, b)
	if err != nil {
		res.Err = err
		return res, nil
	}
	res.RMS = rms(d)
	res.Passed = res.RMS <= threshold
	if res.Passed {
		return res, nil
	}

	if err := os.MkdirAll(diffDir, 0o755); err != nil {
		return res, errors.Wrap(errors.ErrCodeInternal, err, "create %s", diffDir)
	}
	res.DiffPath = filepath.Join(diffDir, DiffPrefix+name)
	if err := imaging.Save(d, res.DiffPath); err != nil {
		return res, errors.Wrap(errors.ErrCodeInternal, err, "write %s", res.DiffPath)
	}
	return res, nil
}

