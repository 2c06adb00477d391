package domain

// Position orders events by block, then by log index within the block.
type Position struct {
	BlockNumber uint64
	LogIndex    uint64
}

// After reports whether p comes strictly after o.
func (p Position) After(o Position) bool {
	if p.BlockNumber != o.BlockNumber {
		return p.BlockNumber > o.BlockNumber
	}
	return p.LogIndex > o.LogIndex
}

// Cursor remembers the last event applied from a named source.
type Cursor struct {
	ID       string
	Position Position
}
