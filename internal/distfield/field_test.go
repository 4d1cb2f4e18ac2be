package distfield

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

var approx = cmpopts.EquateApprox(1e-9, 1e-12)

// demoGrid is an 11x5 map with a blob, a stem and an isolated obstacle.
var demoGrid = [][]int{
	{1, 0, 0, 0, 0},
	{0, 1, 1, 1, 0},
	{0, 1, 1, 1, 0},
	{0, 0, 1, 1, 0},
	{0, 0, 1, 0, 0},
	{0, 0, 0, 0, 0},
	{0, 0, 0, 0, 0},
	{0, 0, 0, 0, 0},
	{0, 0, 1, 0, 0},
	{0, 0, 0, 0, 0},
	{0, 0, 0, 0, 0},
}

func mustGrid(t testing.TB, rows [][]int) OccupancyGrid {
	t.Helper()
	g, err := GridFromInts(rows)
	if err != nil {
		t.Fatalf("GridFromInts failed: %v", err)
	}
	return g
}

func randomGrid(rng *rand.Rand, width, height int, density float64) OccupancyGrid {
	g := NewGrid(width, height)
	for y := range g {
		for x := range g[y] {
			if rng.Float64() < density {
				g[y][x] = Obstacle
			}
		}
	}
	return g
}

// bruteForceUDF scans every obstacle for every cell.
func bruteForceUDF(g OccupancyGrid) Field {
	w, h := g.Dims()
	out := NewField(w, h, math.Inf(1))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			for py := 0; py < h; py++ {
				for px := 0; px < w; px++ {
					if g[py][px] != Obstacle {
						continue
					}
					if d := math.Hypot(float64(x-px), float64(y-py)); d < out[y][x] {
						out[y][x] = d
					}
				}
			}
		}
	}
	return out
}

func TestComputeUnsigned_AllObstacle(t *testing.T) {
	for _, dims := range [][2]int{{1, 1}, {3, 2}, {7, 9}} {
		g := NewGrid(dims[0], dims[1]).Complement()

		got, err := ComputeUnsigned(g, Options{})
		if err != nil {
			t.Fatalf("%dx%d: ComputeUnsigned failed: %v", dims[0], dims[1], err)
		}
		if diff := cmp.Diff(NewField(dims[0], dims[1], 0), got); diff != "" {
			t.Errorf("%dx%d: want all zeros (-want +got):\n%s", dims[0], dims[1], diff)
		}
	}
}

func TestComputeUnsigned_SingleObstacle3x3(t *testing.T) {
	g := mustGrid(t, [][]int{
		{0, 0, 0},
		{0, 1, 0},
		{0, 0, 0},
	})

	got, err := ComputeUnsigned(g, Options{})
	if err != nil {
		t.Fatalf("ComputeUnsigned failed: %v", err)
	}

	r2 := math.Sqrt2
	want := Field{
		{r2, 1, r2},
		{1, 0, 1},
		{r2, 1, r2},
	}
	if diff := cmp.Diff(want, got, approx); diff != "" {
		t.Errorf("UDF mismatch (-want +got):\n%s", diff)
	}
}

func TestComputeUnsigned_SingleObstacleEuclidean(t *testing.T) {
	tests := []struct {
		name   string
		w, h   int
		px, py int
	}{
		{"corner", 6, 4, 0, 0},
		{"far corner", 9, 7, 8, 6},
		{"interior", 11, 5, 4, 2},
		{"single row", 12, 1, 5, 0},
		{"single column", 1, 12, 0, 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGrid(tt.w, tt.h)
			g[tt.py][tt.px] = Obstacle

			got, err := ComputeUnsigned(g, Options{})
			if err != nil {
				t.Fatalf("ComputeUnsigned failed: %v", err)
			}
			for y := 0; y < tt.h; y++ {
				for x := 0; x < tt.w; x++ {
					want := math.Sqrt(float64((x-tt.px)*(x-tt.px) + (y-tt.py)*(y-tt.py)))
					if !cmp.Equal(want, got[y][x], approx) {
						t.Errorf("(%d,%d): got %v, want %v", x, y, got[y][x], want)
					}
				}
			}
		})
	}
}

func TestComputeUnsigned_MatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	trials := 0
	for trials < 150 {
		w, h := 1+rng.Intn(10), 1+rng.Intn(10)
		g := randomGrid(rng, w, h, 0.05+rng.Float64()*0.5)
		if g.Count(Obstacle) == 0 {
			continue
		}
		trials++

		got, err := ComputeUnsigned(g, Options{})
		if err != nil {
			t.Fatalf("trial %d: ComputeUnsigned failed: %v", trials, err)
		}
		if diff := cmp.Diff(bruteForceUDF(g), got, approx); diff != "" {
			t.Fatalf("trial %d (%dx%d) grid %v (-want +got):\n%s", trials, w, h, g, diff)
		}
	}
}

func TestComputeUnsigned_DemoGrid(t *testing.T) {
	g := mustGrid(t, demoGrid)

	got, err := ComputeUnsigned(g, Options{})
	if err != nil {
		t.Fatalf("ComputeUnsigned failed: %v", err)
	}
	if diff := cmp.Diff(bruteForceUDF(g), got, approx); diff != "" {
		t.Errorf("UDF mismatch (-want +got):\n%s", diff)
	}
	// Bottom-left corner: nearest obstacle is the isolated cell at (2,8).
	if want := math.Sqrt(4 + 4); !cmp.Equal(want, got[10][0], approx) {
		t.Errorf("(0,10): got %v, want %v", got[10][0], want)
	}
}

func TestComputeUnsigned_NoObstacle(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want float64
	}{
		{"default sentinel", Options{}, 1e10},
		{"custom sentinel", Options{Sentinel: 1e12}, 1e6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeUnsigned(NewGrid(4, 3), tt.opts)
			if err != nil {
				t.Fatalf("ComputeUnsigned failed: %v", err)
			}
			if diff := cmp.Diff(NewField(4, 3, tt.want), got); diff != "" {
				t.Errorf("degenerate field mismatch (-want +got):\n%s", diff)
			}
			if tt.opts.Unreachable() != tt.want {
				t.Errorf("Unreachable() = %v, want %v", tt.opts.Unreachable(), tt.want)
			}
		})
	}
}

func TestComputeUnsigned_DoesNotMutateInput(t *testing.T) {
	g := mustGrid(t, demoGrid)
	orig := mustGrid(t, demoGrid)

	if _, err := ComputeUnsigned(g, Options{}); err != nil {
		t.Fatalf("ComputeUnsigned failed: %v", err)
	}
	if _, err := ComputeSigned(g, Options{}); err != nil {
		t.Fatalf("ComputeSigned failed: %v", err)
	}
	if diff := cmp.Diff(orig, g); diff != "" {
		t.Errorf("grid mutated (-want +got):\n%s", diff)
	}
}

func TestComputeUnsigned_ParallelMatchesSequential(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	g := randomGrid(rng, 37, 53, 0.02)
	g[0][0] = Obstacle

	want, err := ComputeUnsigned(g, Options{Workers: 1})
	if err != nil {
		t.Fatalf("sequential ComputeUnsigned failed: %v", err)
	}
	for _, workers := range []int{2, 3, 8, 64, 100} {
		got, err := ComputeUnsigned(g, Options{Workers: workers})
		if err != nil {
			t.Fatalf("workers=%d: ComputeUnsigned failed: %v", workers, err)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("workers=%d differs from sequential (-want +got):\n%s", workers, diff)
		}
	}
}

func TestTransformRows_ChunksMatchSerial(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	for _, height := range []int{1, 2, 7, 31} {
		in := NewField(9, height, 1e6)
		for y := range in {
			in[y][rng.Intn(9)] = float64(rng.Intn(50))
		}

		want := transformRows(in, 1)
		for _, workers := range []int{2, 4, height, height + 5} {
			if diff := cmp.Diff(want, transformRows(in, workers)); diff != "" {
				t.Errorf("height=%d workers=%d (-serial +chunked):\n%s", height, workers, diff)
			}
		}
	}
}

func TestTransposeSymmetry(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for trial := 0; trial < 25; trial++ {
		g := randomGrid(rng, 1+rng.Intn(20), 1+rng.Intn(20), 0.15)
		g[rng.Intn(len(g))][0] = Obstacle

		direct, err := ComputeUnsigned(g, Options{})
		if err != nil {
			t.Fatalf("ComputeUnsigned failed: %v", err)
		}
		viaTranspose, err := ComputeUnsigned(g.Transpose(), Options{})
		if err != nil {
			t.Fatalf("ComputeUnsigned on transpose failed: %v", err)
		}
		if diff := cmp.Diff(direct, viaTranspose.Transpose(), approx); diff != "" {
			t.Fatalf("trial %d (-direct +transposed):\n%s", trial, diff)
		}
	}
}

func TestComputeSigned_SingleObstacle3x3(t *testing.T) {
	g := mustGrid(t, [][]int{
		{0, 0, 0},
		{0, 1, 0},
		{0, 0, 0},
	})

	got, err := ComputeSigned(g, Options{})
	if err != nil {
		t.Fatalf("ComputeSigned failed: %v", err)
	}

	r2 := math.Sqrt2
	want := Field{
		{r2, 1, r2},
		{1, -1, 1},
		{r2, 1, r2},
	}
	if diff := cmp.Diff(want, got, approx); diff != "" {
		t.Errorf("SDF mismatch (-want +got):\n%s", diff)
	}
}

func TestComputeSigned_SignConvention(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	grids := []OccupancyGrid{mustGrid(t, demoGrid)}
	for len(grids) < 60 {
		g := randomGrid(rng, 1+rng.Intn(12), 1+rng.Intn(12), 0.1+rng.Float64()*0.8)
		if n := g.Count(Obstacle); n == 0 || n == len(g)*len(g[0]) {
			continue
		}
		grids = append(grids, g)
	}

	for i, g := range grids {
		sdf, err := ComputeSigned(g, Options{})
		if err != nil {
			t.Fatalf("grid %d: ComputeSigned failed: %v", i, err)
		}
		for y, row := range g {
			for x, c := range row {
				v := sdf[y][x]
				if c == Free && v < 0 {
					t.Errorf("grid %d: free cell (%d,%d) has SDF %v < 0", i, x, y, v)
				}
				if c == Obstacle && v > 0 {
					t.Errorf("grid %d: obstacle cell (%d,%d) has SDF %v > 0", i, x, y, v)
				}
			}
		}
	}
}

func TestComputeSigned_EqualsUnsignedDifference(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	grids := []OccupancyGrid{
		mustGrid(t, demoGrid),
		NewGrid(5, 4),
		NewGrid(5, 4).Complement(),
	}
	for i := 0; i < 20; i++ {
		grids = append(grids, randomGrid(rng, 1+rng.Intn(15), 1+rng.Intn(15), 0.3))
	}

	for i, g := range grids {
		for _, opts := range []Options{{}, {Workers: 4}} {
			sdf, err := ComputeSigned(g, opts)
			if err != nil {
				t.Fatalf("grid %d: ComputeSigned failed: %v", i, err)
			}
			outside, err := ComputeUnsigned(g, opts)
			if err != nil {
				t.Fatalf("grid %d: ComputeUnsigned failed: %v", i, err)
			}
			inside, err := ComputeUnsigned(g.Complement(), opts)
			if err != nil {
				t.Fatalf("grid %d: ComputeUnsigned on complement failed: %v", i, err)
			}
			for y := range sdf {
				for x := range sdf[y] {
					if want := outside[y][x] - inside[y][x]; sdf[y][x] != want {
						t.Fatalf("grid %d (%d,%d): SDF %v != UDF difference %v", i, x, y, sdf[y][x], want)
					}
				}
			}
		}
	}
}

func TestComputeSigned_Degenerate(t *testing.T) {
	opts := Options{}
	u := opts.Unreachable()

	allFree, err := ComputeSigned(NewGrid(3, 2), opts)
	if err != nil {
		t.Fatalf("ComputeSigned(all free) failed: %v", err)
	}
	if diff := cmp.Diff(NewField(3, 2, u), allFree); diff != "" {
		t.Errorf("all free (-want +got):\n%s", diff)
	}

	allObstacle, err := ComputeSigned(NewGrid(3, 2).Complement(), opts)
	if err != nil {
		t.Fatalf("ComputeSigned(all obstacle) failed: %v", err)
	}
	if diff := cmp.Diff(NewField(3, 2, -u), allObstacle); diff != "" {
		t.Errorf("all obstacle (-want +got):\n%s", diff)
	}
}

func TestCompute_MalformedGrid(t *testing.T) {
	tests := []struct {
		name string
		grid OccupancyGrid
	}{
		{"nil", nil},
		{"no rows", OccupancyGrid{}},
		{"empty row", OccupancyGrid{{}}},
		{"ragged", OccupancyGrid{{0, 1, 0}, {0, 1}}},
		{"ragged empty tail", OccupancyGrid{{0, 1}, {}}},
		{"non-binary cell", OccupancyGrid{{0, 1}, {2, 0}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for name, fn := range map[string]func(OccupancyGrid, Options) (Field, error){
				"unsigned": ComputeUnsigned,
				"signed":   ComputeSigned,
			} {
				got, err := fn(tt.grid, Options{})
				if !errors.Is(err, ErrMalformedGrid) {
					t.Errorf("%s: error = %v, want ErrMalformedGrid", name, err)
				}
				var mErr *MalformedGridError
				if !errors.As(err, &mErr) {
					t.Errorf("%s: error %T is not *MalformedGridError", name, err)
				}
				if got != nil {
					t.Errorf("%s: got partial result %v", name, got)
				}
			}
		})
	}
}

func TestCompute_InvalidOptions(t *testing.T) {
	g := mustGrid(t, [][]int{{0, 1, 0}, {0, 0, 0}, {0, 0, 0}})

	tests := []struct {
		name     string
		sentinel float64
	}{
		{"NaN", math.NaN()},
		{"infinite", math.Inf(1)},
		{"negative", -1},
		{"too small for grid", 72},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ComputeUnsigned(g, Options{Sentinel: tt.sentinel})
			if !errors.Is(err, ErrInvalidOptions) {
				t.Errorf("error = %v, want ErrInvalidOptions", err)
			}
		})
	}

	if _, err := ComputeUnsigned(g, Options{Sentinel: 73}); err != nil {
		t.Errorf("sentinel just above the floor rejected: %v", err)
	}
}

func TestSquaredTransform(t *testing.T) {
	seed := Field{
		{s, s, s},
		{s, 0, s},
		{s, s, 2},
	}
	want := Field{
		{2, 1, 2},
		{1, 0, 1},
		{2, 1, 2},
	}

	got, err := SquaredTransform(seed, Options{})
	if err != nil {
		t.Fatalf("SquaredTransform failed: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
	if seed[1][1] != 0 || seed[0][0] != s {
		t.Error("seed field was mutated")
	}
}

func TestSquaredTransform_RejectsBadSeed(t *testing.T) {
	tests := []struct {
		name string
		seed Field
	}{
		{"empty", Field{}},
		{"ragged", Field{{0, 1}, {1}}},
		{"negative", Field{{0, -1}}},
		{"NaN", Field{{0, math.NaN()}}},
		{"infinite", Field{{0, math.Inf(1)}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := SquaredTransform(tt.seed, Options{}); !errors.Is(err, ErrMalformedGrid) {
				t.Errorf("error = %v, want ErrMalformedGrid", err)
			}
		})
	}
}

func BenchmarkComputeUnsigned_256(b *testing.B) {
	benchmarkComputeUnsigned(b, 256, 1)
}

func BenchmarkComputeUnsigned_1024(b *testing.B) {
	benchmarkComputeUnsigned(b, 1024, 1)
}

func BenchmarkComputeUnsigned_1024_Parallel(b *testing.B) {
	benchmarkComputeUnsigned(b, 1024, 8)
}

func benchmarkComputeUnsigned(b *testing.B, size, workers int) {
	g := randomGrid(rand.New(rand.NewSource(1)), size, size, 0.01)
	opts := Options{Workers: workers}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := ComputeUnsigned(g, opts); err != nil {
			b.Fatal(err)
		}
	}
}
