package pagination

const (
	// DefaultLimit is the standard page size when a limit is not provided.
	DefaultLimit = 10
	// MaxLimit caps how many rows any listing query can request.
	MaxLimit = 100
)

// Params holds offset pagination inputs from controllers or services.
type Params struct {
	Limit  int
	Offset int
}

// NormalizeLimit enforces the configured default and maximum limits.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// NormalizeOffset clamps negative offsets to zero.
func NormalizeOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}

// Range returns the inclusive row range [start, end] covered by the given
// limit and offset, mirroring range-based backends: limit 10 offset 20
// covers rows 20 through 29.
func Range(limit, offset int) (int, int) {
	normalized := NormalizeLimit(limit)
	start := NormalizeOffset(offset)
	return start, start + normalized - 1
}
