package urbansound

import (
	"github.com/StateFromJakeFarm/research/internal/errors"
	"github.com/StateFromJakeFarm/research/internal/logger"
)

// BatchIterator is a cursor over a Manager's training list. Iterators of the
// same Manager move independently.
type BatchIterator struct {
	m      *Manager
	cursor int
}

// Cursor returns the offset the next batch starts at.
func (it *BatchIterator) Cursor() int { return it.cursor }

// Reset moves the cursor back to the start of the training list.
func (it *BatchIterator) Reset() { it.cursor = 0 }

// Next loads the n files starting at the cursor. After a successful batch the
// cursor advances by n and returns to 0 once another batch of n would reach the
// end of the list, so the last partial batch of a pass is never served. On error
// no batch is returned and the cursor does not move.
func (it *BatchIterator) Next(n int) (*Batch, error) {
	m := it.m
	total := len(m.trainFiles)
	if n <= 0 || n > total {
		return nil, errors.Newf("%w: batch size %d with %d training files", ErrInvalidBatchSize, n, total).
			Component("urbansound").
			Category(errors.CategoryValidation).
			Build()
	}

	start := it.cursor
	if start+n > total {
		// a smaller batch size left the cursor too close to the end
		start = 0
		it.recordWrap()
	}

	batch := &Batch{
		Samples: make([][][]float32, n),
		Labels:  make([]int, n),
		Offset:  start,
	}
	for i, path := range m.trainFiles[start : start+n] {
		label, chunks, err := m.loadSample(path)
		if err != nil {
			m.log.Error("failed to load training sample",
				logger.String("file", path),
				logger.Int("cursor", start),
				logger.Error(err))
			return nil, err
		}
		batch.Labels[i] = label
		batch.Samples[i] = chunks
	}

	next := start + n
	if next+n >= total {
		next = 0
		it.recordWrap()
	}
	it.cursor = next

	if m.metrics != nil {
		m.metrics.RecordBatch(batch.Labels)
	}
	m.log.Debug("batch produced",
		logger.Int("offset", start),
		logger.Int("size", n),
		logger.Int("next_cursor", next))

	return batch, nil
}

func (it *BatchIterator) recordWrap() {
	if it.m.metrics != nil {
		it.m.metrics.RecordCursorWrap()
	}
}
