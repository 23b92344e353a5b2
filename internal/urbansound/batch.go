package urbansound

// Batch is one training batch. Samples has shape (len(Labels), chunkCount,
// chunkLength) and Labels[i] is the class of Samples[i]. A Batch owns all of its
// memory.
type Batch struct {
	Samples [][][]float32
	Labels  []int
	Offset  int // training list position of Samples[0]
}

// Shape returns (batch size, chunk count, chunk length).
func (b *Batch) Shape() (int, int, int) {
	if len(b.Samples) == 0 {
		return 0, 0, 0
	}
	chunks := len(b.Samples[0])
	if chunks == 0 {
		return len(b.Samples), 0, 0
	}
	return len(b.Samples), chunks, len(b.Samples[0][0])
}

// Flatten returns the samples as one row-major slice.
func (b *Batch) Flatten() []float32 {
	n, chunks, chunkLen := b.Shape()
	out := make([]float32, 0, n*chunks*chunkLen)
	for _, sample := range b.Samples {
		for _, chunk := range sample {
			out = append(out, chunk...)
		}
	}
	return out
}

// ClassNames returns the class name of every label in the batch.
func (b *Batch) ClassNames() []string {
	names := make([]string, len(b.Labels))
	for i, label := range b.Labels {
		names[i], _ = ClassName(label)
	}
	return names
}

// chunkSamples splits samples into chunkCount chunks of chunkLength. At most
// totalSamples input samples are used; anything missing stays zero, which pads
// short files and the tail of the final chunk.
func chunkSamples(samples []float32, chunkCount, chunkLength, totalSamples int) ([][]float32, bool) {
	limit := min(len(samples), totalSamples)
	padded := len(samples) < totalSamples

	// one backing array per sample
	backing := make([]float32, chunkCount*chunkLength)
	chunks := make([][]float32, chunkCount)
	for c := range chunks {
		chunk := backing[c*chunkLength : (c+1)*chunkLength : (c+1)*chunkLength]
		if start := c * chunkLength; start < limit {
			copy(chunk, samples[start:min(start+chunkLength, limit)])
		}
		chunks[c] = chunk
	}

	return chunks, padded
}
