package generator

import "math/rand/v2"

// Source supplies the randomness used by the generator.
// *rand.Rand from math/rand/v2 satisfies it.
type Source interface {
	Float64() float64
	IntN(n int) int
}

// globalSource draws from the math/rand/v2 top-level functions, which are safe
// for concurrent use.
type globalSource struct{}

func (globalSource) Float64() float64 { return rand.Float64() }
func (globalSource) IntN(n int) int   { return rand.IntN(n) }

// DefaultSource returns the unseeded process-wide source
func DefaultSource() Source {
	return globalSource{}
}

// NewSeededSource returns a reproducible source, mostly useful in tests and
// for the --seed flag.
func NewSeededSource(seed uint64) Source {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// percent draws a uniform percentage in [0,100)
func percent(src Source) float64 {
	return src.Float64() * 100
}

func pick(src Source, pool []string) string {
	return pool[src.IntN(len(pool))]
}

var (
	names = []string{
		"Amit Sharma", "Priya Patel", "Rahul Verma", "Sneha Gupta", "Vikram Singh",
		"Ananya Reddy", "Suresh Kumar", "Kavita Devi", "Rajesh Iyer", "Meera Nair",
	}
	cities = []string{
		"Mumbai", "Delhi", "Bangalore", "Hyderabad", "Ahmedabad",
		"Chennai", "Kolkata", "Pune", "Jaipur", "Lucknow",
	}
	categories = []string{"Railways", "Non-Railways", "Staff", "Corporate"}
)
