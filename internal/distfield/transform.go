package distfield

import "math"

// TransformLine returns the 1D squared distance transform of cost:
//
//	result[q] = min over p of cost[p] + (q-p)²
//
// cost holds the squared distance already known at each position: 0 at a
// seed, a large finite sentinel where nothing is known. Values must be finite
// and non-negative; SquaredTransform and the field functions guarantee this
// for their callers. cost is not modified.
func TransformLine(cost []float64) []float64 {
	out := make([]float64, len(cost))
	newEnvelope(len(cost)).transform(out, cost)
	return out
}

// envelope is the lower envelope of the parabolas f_p(x) = cost[p] + (x-p)².
// Piece k is owned by parabola apex[k] and spans boundary[k]..boundary[k+1].
// The slices are scratch space and may be reused across lines of equal or
// smaller length.
type envelope struct {
	apex     []int
	boundary []float64
}

func newEnvelope(n int) *envelope {
	return &envelope{
		apex:     make([]int, n+1),
		boundary: make([]float64, n+1),
	}
}

// transform writes the squared distance transform of cost into dst.
// dst and cost must have equal length and must not overlap.
func (e *envelope) transform(dst, cost []float64) {
	n := len(cost)
	if n == 0 {
		return
	}
	if len(e.apex) < n+1 {
		e.apex = make([]int, n+1)
		e.boundary = make([]float64, n+1)
	}
	v, z := e.apex, e.boundary

	// Construction: add parabolas left to right, popping every piece the
	// new parabola hides completely.
	k := 0
	v[0] = 0
	z[0] = math.Inf(-1)
	z[1] = math.Inf(1)
	for q := 1; q < n; q++ {
		s := intersect(cost, q, v[k])
		for s <= z[k] {
			k--
			s = intersect(cost, q, v[k])
		}
		k++
		v[k] = q
		z[k] = s
		z[k+1] = math.Inf(1)
	}

	// Evaluation: walk the pieces in step with q.
	k = 0
	for q := 0; q < n; q++ {
		for z[k+1] < float64(q) {
			k++
		}
		d := float64(q - v[k])
		dst[q] = d*d + cost[v[k]]
	}
}

// intersect returns the abscissa where parabolas q and p meet. p < q always
// holds, so the denominator is positive.
func intersect(cost []float64, q, p int) float64 {
	fq, fp := float64(q), float64(p)
	return ((cost[q] + fq*fq) - (cost[p] + fp*fp)) / (2*fq - 2*fp)
}
