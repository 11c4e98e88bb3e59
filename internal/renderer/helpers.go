package renderer

// Unwind collects cleanup functions for a multi-step acquisition. On failure
// Unwind runs them in reverse order; on success Discard drops them.
type Unwind []func()

func (u *Unwind) Add(cleanup func()) {
	*u = append(*u, cleanup)
}

func (u *Unwind) Unwind() {
	for i := len(*u) - 1; i >= 0; i-- {
		(*u)[i]()
	}
	*u = (*u)[:0]
}

func (u *Unwind) Discard() {
	*u = (*u)[:0]
}

func isPowerOfTwo(v int) bool {
	return v > 0 && v&(v-1) == 0
}
