package domain

// BatchFailure records one embedding batch that produced no vectors.
type BatchFailure struct {
	// Batch is the zero-based batch number.
	Batch int

	// Start is the index of the first text in the batch.
	Start int

	// Size is the number of texts in the batch.
	Size int

	// Err is the last error returned for the batch.
	Err error
}

// EmbeddingRun is the outcome of embedding a list of texts in batches.
type EmbeddingRun struct {
	// Vectors is aligned with the input; entries of failed batches are nil.
	Vectors [][]float32

	// Failures lists batches that were skipped.
	Failures []BatchFailure
}

// Embedded returns how many inputs received a vector.
func (r *EmbeddingRun) Embedded() int {
	n := 0
	for _, v := range r.Vectors {
		if v != nil {
			n++
		}
	}
	return n
}

// IndexReport summarises indexing of one content stream.
type IndexReport struct {
	VideoID       string      `json:"video_id"`
	ContentType   ContentType `json:"content_type"`
	Chunks        int         `json:"chunks"`
	Indexed       int         `json:"indexed"`
	Deleted       int         `json:"deleted"`
	FailedBatches int         `json:"failed_batches"`

	// Err is set when this stream could not be indexed at all.
	Err error `json:"-"`
}

// VideoRef is the catalog's view of a video.
type VideoRef struct {
	ID         string
	Owner      OwnerKey
	Title      string
	CategoryID string
	IsFavorite bool
}
