package urbansound

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/StateFromJakeFarm/research/internal/errors"
)

// LabelParser extracts the integer class label from a dataset file path.
type LabelParser interface {
	ParseLabel(path string) (int, error)
}

// LabelParserFunc adapts an ordinary function to LabelParser.
type LabelParserFunc func(path string) (int, error)

// ParseLabel calls f(path).
func (f LabelParserFunc) ParseLabel(path string) (int, error) {
	return f(path)
}

// DashFieldLabel reads the label from a dash-delimited file name. UrbanSound8K
// names files fsID-classID-occurrenceID-sliceID.wav, so Field 1 is the class.
type DashFieldLabel struct {
	Field int
}

// DefaultLabelParser parses UrbanSound8K file names.
var DefaultLabelParser LabelParser = DashFieldLabel{Field: 1}

// ParseLabel implements LabelParser. The extension is removed before splitting
// and the label must exist in the class table.
func (d DashFieldLabel) ParseLabel(path string) (int, error) {
	base := filepath.Base(path)
	name := strings.TrimSuffix(base, filepath.Ext(base))

	fields := strings.Split(name, "-")
	if d.Field < 0 || d.Field >= len(fields) {
		return 0, labelError(path, "file name has %d dash-delimited fields, need field %d", len(fields), d.Field)
	}

	label, err := strconv.Atoi(fields[d.Field])
	if err != nil {
		return 0, labelError(path, "field %d %q is not an integer", d.Field, fields[d.Field])
	}
	if _, ok := ClassName(label); !ok {
		return 0, labelError(path, "label %d is outside [0, %d)", label, NumClasses)
	}

	return label, nil
}

func labelError(path, format string, args ...any) error {
	return errors.Newf("%w: "+format, append([]any{ErrInvalidLabel}, args...)...).
		Component("urbansound").
		Category(errors.CategoryFileParsing).
		Context("file_name", filepath.Base(path)).
		Build()
}
