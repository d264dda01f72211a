package anomaly

// History is a bounded FIFO of volume observations for one symbol.
// Once full, each Push evicts the oldest value. Not safe for concurrent use.
type History struct {
	data []float64
	head int // index of the oldest value
	size int
}

// NewHistory creates an empty history holding at most capacity values.
func NewHistory(capacity int) *History {
	if capacity < 1 {
		capacity = 1
	}
	return &History{data: make([]float64, capacity)}
}

// Push appends v, evicting the oldest value when full.
func (h *History) Push(v float64) {
	if h.size < len(h.data) {
		h.data[(h.head+h.size)%len(h.data)] = v
		h.size++
		return
	}
	h.data[h.head] = v
	h.head = (h.head + 1) % len(h.data)
}

// Average returns the arithmetic mean of the stored values, or 0 when empty.
func (h *History) Average() float64 {
	if h.size == 0 {
		return 0
	}
	var sum float64
	h.walk(func(v float64) { sum += v })
	return sum / float64(h.size)
}

func (h *History) Size() int {
	return h.size
}

func (h *History) Capacity() int {
	return len(h.data)
}

// Values returns a copy of the stored values, oldest first.
func (h *History) Values() []float64 {
	out := make([]float64, 0, h.size)
	h.walk(func(v float64) { out = append(out, v) })
	return out
}

func (h *History) walk(fn func(float64)) {
	for i := 0; i < h.size; i++ {
		fn(h.data[(h.head+i)%len(h.data)])
	}
}
