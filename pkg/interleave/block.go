package interleave

// NewBlock builds an Interleaver whose permutation is derived from writing
// N=w*h values row-major into a w-wide, h-tall grid and reading them back
// column-major, generalized to caller-supplied dimensions.
func NewBlock(width, height int) (*Interleaver, error) {
	n := width * height
	perm := make([]int, n)
	// perm[i] is the output position of input index i, where i walks the
	// grid row-major (write order) and the output position is i's
	// column-major read rank.
	k := 0
	for col := 0; col < width; col++ {
		for row := 0; row < height; row++ {
			i := row*width + col
			perm[i] = k
			k++
		}
	}
	return New(perm)
}
