package resize

import "slices"

// kernel returns a basis of the integer kernel {x ∈ Zⁿ : A·x = 0} of the
// matrix a (one slice per row, each of length n).
//
// It reduces A to column echelon form with unimodular column operations
// (Euclid on each row) applied in lockstep to an n×n identity U. Columns of
// U whose image under A is zero form the basis.
func kernel(a [][]int64, n int) [][]int64 {
	m := make([][]int64, len(a))
	for i, row := range a {
		m[i] = slices.Clone(row)
	}
	u := make([][]int64, n)
	for i := range u {
		u[i] = make([]int64, n)
		u[i][i] = 1
	}

	swap := func(j, k int) {
		for _, row := range m {
			row[j], row[k] = row[k], row[j]
		}
		for _, row := range u {
			row[j], row[k] = row[k], row[j]
		}
	}
	// col_j += q * col_k
	addCol := func(j, k int, q int64) {
		for _, row := range m {
			row[j] += q * row[k]
		}
		for _, row := range u {
			row[j] += q * row[k]
		}
	}

	pivot := 0
	for i := 0; i < len(m) && pivot < n; i++ {
		for {
			best := -1
			for j := pivot; j < n; j++ {
				if m[i][j] != 0 && (best < 0 || abs(m[i][j]) < abs(m[i][best])) {
					best = j
				}
			}
			if best < 0 {
				break
			}
			swap(pivot, best)

			done := true
			for j := pivot + 1; j < n; j++ {
				if m[i][j] == 0 {
					continue
				}
				addCol(j, pivot, -(m[i][j] / m[i][pivot]))
				if m[i][j] != 0 {
					done = false
				}
			}
			if done {
				pivot++
				break
			}
		}
	}

	basis := make([][]int64, 0, n-pivot)
	for j := pivot; j < n; j++ {
		col := make([]int64, n)
		for i := range u {
			col[i] = u[i][j]
		}
		basis = append(basis, col)
	}
	return basis
}

// egcd returns g = gcd(a, b) >= 0 and x, y with a·x + b·y = g.
func egcd(a, b int64) (g, x, y int64) {
	x0, x1, y0, y1 := int64(1), int64(0), int64(0), int64(1)
	for b != 0 {
		q := a / b
		a, b = b, a-q*b
		x0, x1 = x1, x0-q*x1
		y0, y1 = y1, y0-q*y1
	}
	if a < 0 {
		return -a, -x0, -y0
	}
	return a, x0, y0
}

func gcd(a, b int64) int64 {
	g, _, _ := egcd(a, b)
	return g
}

func lcm(a, b int64) int64 {
	if a == 0 || b == 0 {
		return 0
	}
	return abs(a / gcd(a, b) * b)
}

func dot(a, b []int64) int64 {
	var s int64
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

func abs(x int64) int64 {
	if x < 0 {
		return -x
	}
	return x
}

// floorDiv divides rounding toward negative infinity. b must be positive.
func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && a < 0 {
		q--
	}
	return q
}

// ceilDiv divides rounding toward positive infinity. b must be positive.
func ceilDiv(a, b int64) int64 {
	return -floorDiv(-a, b)
}

// combine returns a·x + b·y.
func combine(a int64, x []int64, b int64, y []int64) []int64 {
	out := make([]int64, len(x))
	for i := range x {
		out[i] = a*x[i] + b*y[i]
	}
	return out
}
