package sanitize

// ProgressMax is the progress value of a completed batch.
const ProgressMax = 100

// Progress computes the batch progress after finishing item index of total.
// Integer arithmetic rounding up keeps values monotonically non-decreasing,
// and the last item always lands exactly on ProgressMax.
func Progress(index, total int) int {
	if total <= 0 {
		return ProgressMax
	}
	return ((index+1)*ProgressMax + total - 1) / total
}
