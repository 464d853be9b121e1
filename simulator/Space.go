package simulator

// Kinds of spaces a simulator may describe. Only Box and Discrete
// spaces can be represented by package spaces.
const (
	BoxKind           = "Box"
	DiscreteKind      = "Discrete"
	MultiDiscreteKind = "MultiDiscrete"
	MultiBinaryKind   = "MultiBinary"
	TupleKind         = "Tuple"
	DictKind          = "Dict"
)

// Space is a simulator's own description of a space. Fields that do
// not apply to a Kind are left empty.
type Space struct {
	Kind string `json:"name"`

	// Discrete
	N int `json:"n"`

	// Box
	Shape []int     `json:"shape"`
	Low   []float64 `json:"low"`
	High  []float64 `json:"high"`
}
