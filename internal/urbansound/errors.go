package urbansound

import "github.com/StateFromJakeFarm/research/internal/errors"

// Sentinel errors. Errors returned by this package wrap one of these and can be
// matched with errors.Is.
var (
	ErrInvalidConfiguration = errors.NewStd("invalid dataset configuration")
	ErrDirectoryNotFound    = errors.NewStd("fold directory not found")
	ErrDecode               = errors.NewStd("audio decode failed")
	ErrInvalidBatchSize     = errors.NewStd("invalid batch size")
	ErrInvalidLabel         = errors.NewStd("invalid class label in file name")
)

func configError(format string, args ...any) error {
	return errors.Newf("%w: "+format, append([]any{ErrInvalidConfiguration}, args...)...).
		Component("urbansound").
		Category(errors.CategoryConfiguration).
		Build()
}
