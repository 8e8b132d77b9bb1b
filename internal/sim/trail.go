package sim

// TrailLength is how many recent raider positions are kept for rendering.
const TrailLength = 20

// Trail is a fixed-capacity ring buffer of positions; the oldest sample is
// overwritten once it is full.
type Trail struct {
	entries [TrailLength]Position
	head    int
	count   int
}

// Add appends a sample, evicting the oldest when full.
func (t *Trail) Add(p Position) {
	t.entries[t.head] = p
	t.head = (t.head + 1) % TrailLength
	if t.count < TrailLength {
		t.count++
	}
}

// Clear empties the buffer.
func (t *Trail) Clear() {
	t.head = 0
	t.count = 0
}

// Len returns the number of samples held.
func (t *Trail) Len() int {
	return t.count
}

// Positions returns the samples oldest first, as a fresh slice.
func (t *Trail) Positions() []Position {
	out := make([]Position, t.count)
	for i := 0; i < t.count; i++ {
		out[i] = t.entries[(t.head-t.count+i+TrailLength)%TrailLength]
	}
	return out
}
