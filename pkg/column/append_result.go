package column

// AppendResult is the outcome of an append: whether the codes fit at the
// block/column's current configured width, and, if not, the minimum
// sufficient width (with one bit of headroom when the observed max is an
// exact power of two — see word.BitWidth).
type AppendResult struct {
	Fits            bool
	CurrentWidth    uint32
	SuggestedWidth  uint32
}

// okResult builds a successful AppendResult at the given width.
func okResult(width uint32) *AppendResult {
	return &AppendResult{Fits: true, CurrentWidth: width, SuggestedWidth: width}
}

// exceededResult builds a width_exceeded AppendResult.
func exceededResult(suggested uint32) *AppendResult {
	return &AppendResult{Fits: false, SuggestedWidth: suggested}
}
