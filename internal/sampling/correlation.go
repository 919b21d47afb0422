package sampling

import (
	"fmt"
	"math"
	"math/rand"
	"slices"

	"impact-mcp/internal/errs"
)

// Correlation declares a linear correlation between two named parameters.
type Correlation struct {
	A           string  `yaml:"param1" json:"param1"`
	B           string  `yaml:"param2" json:"param2"`
	Coefficient float64 `yaml:"correlation" json:"correlation"`
}

// group is a connected component of correlated parameters with its
// precomputed Cholesky factor.
type group struct {
	names []string
	chol  [][]float64
}

// Sampler draws full parameter vectors from a set of named distributions,
// coupling declared pairs through a Gaussian copula. Construction performs
// all validation, including the PSD check on every correlation group, so
// draws cannot fail.
type Sampler struct {
	specs  map[string]*Spec
	sorted []string
	groups []group
	inGrp  map[string]bool
}

// NewSampler validates the specs and correlation declarations and
// precomputes the copula transform for each correlated group.
func NewSampler(specs map[string]*Spec, correlations []Correlation) (*Sampler, error) {
	for name, spec := range specs {
		if err := spec.Validate(); err != nil {
			return nil, fmt.Errorf("parameter %s: %w", name, err)
		}
	}

	s := &Sampler{
		specs: specs,
		inGrp: make(map[string]bool),
	}
	for name := range specs {
		s.sorted = append(s.sorted, name)
	}
	slices.Sort(s.sorted)

	adj := make(map[string]map[string]float64)
	for _, c := range correlations {
		if c.Coefficient < -1 || c.Coefficient > 1 {
			return nil, errs.NewCorrelationConfig("correlation", c.Coefficient, "value in [-1, 1]")
		}
		for _, name := range []string{c.A, c.B} {
			spec, ok := specs[name]
			if !ok {
				return nil, errs.NewCorrelationConfig("parameter", name, "a declared parameter")
			}
			if spec.IsDeterministic() {
				return nil, errs.NewCorrelationConfig("parameter", name,
					"a stochastic parameter; correlating a deterministic value is meaningless")
			}
		}
		if adj[c.A] == nil {
			adj[c.A] = make(map[string]float64)
		}
		if adj[c.B] == nil {
			adj[c.B] = make(map[string]float64)
		}
		adj[c.A][c.B] = c.Coefficient
		adj[c.B][c.A] = c.Coefficient
	}

	// Connected components over the correlation graph, in sorted name order
	// so the resulting draw sequence is stable.
	seen := make(map[string]bool)
	for _, name := range s.sorted {
		if adj[name] == nil || seen[name] {
			continue
		}
		var members []string
		stack := []string{name}
		for len(stack) > 0 {
			n := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if seen[n] {
				continue
			}
			seen[n] = true
			members = append(members, n)
			for next := range adj[n] {
				if !seen[next] {
					stack = append(stack, next)
				}
			}
		}
		slices.Sort(members)

		matrix := buildMatrix(members, adj)
		chol, ok := cholesky(matrix)
		if !ok {
			return nil, errs.NewCorrelationConfig("correlation_matrix", members,
				"pairwise correlations forming a positive semi-definite matrix")
		}

		s.groups = append(s.groups, group{names: members, chol: chol})
		for _, m := range members {
			s.inGrp[m] = true
		}
	}

	return s, nil
}

func buildMatrix(names []string, adj map[string]map[string]float64) [][]float64 {
	k := len(names)
	m := make([][]float64, k)
	for i := range m {
		m[i] = make([]float64, k)
		m[i][i] = 1
	}
	for i := 0; i < k; i++ {
		for j := i + 1; j < k; j++ {
			r := adj[names[i]][names[j]]
			m[i][j] = r
			m[j][i] = r
		}
	}
	return m
}

// cholesky returns the lower-triangular factor of m, or ok=false when m is
// not positive semi-definite.
func cholesky(m [][]float64) ([][]float64, bool) {
	k := len(m)
	l := make([][]float64, k)
	for i := range l {
		l[i] = make([]float64, k)
	}
	for i := 0; i < k; i++ {
		for j := 0; j <= i; j++ {
			sum := m[i][j]
			for p := 0; p < j; p++ {
				sum -= l[i][p] * l[j][p]
			}
			if i == j {
				if sum < -1e-12 {
					return nil, false
				}
				if sum < 0 {
					sum = 0
				}
				l[i][j] = math.Sqrt(sum)
			} else {
				if l[j][j] == 0 {
					if math.Abs(sum) > 1e-12 {
						return nil, false
					}
					l[i][j] = 0
				} else {
					l[i][j] = sum / l[j][j]
				}
			}
		}
	}
	return l, true
}

// Names returns the parameter names in draw order.
func (s *Sampler) Names() []string {
	return s.sorted
}

// Spec returns the distribution for a parameter name.
func (s *Sampler) Spec(name string) (*Spec, bool) {
	spec, ok := s.specs[name]
	return spec, ok
}

// SampleVector draws one value for every parameter. Uncorrelated parameters
// sample independently; each correlated group draws jointly through the
// Gaussian copula. Draw order is fixed so a seeded rng reproduces exactly.
func (s *Sampler) SampleVector(rng *rand.Rand) map[string]float64 {
	out := make(map[string]float64, len(s.specs))

	for _, name := range s.sorted {
		if !s.inGrp[name] {
			out[name] = s.specs[name].Sample(rng)
		}
	}

	for _, g := range s.groups {
		k := len(g.names)
		z := make([]float64, k)
		for i := range z {
			z[i] = rng.NormFloat64()
		}
		for i := 0; i < k; i++ {
			sum := 0.0
			for j := 0; j <= i; j++ {
				sum += g.chol[i][j] * z[j]
			}
			u := normCDF(sum)
			out[g.names[i]] = s.specs[g.names[i]].Quantile(u)
		}
	}

	return out
}
