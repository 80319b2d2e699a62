package reduce

import "fmt"

// #region kind

// Kind tags the reduction variant configured for a directive.
type Kind int

const (
	// KindNone passes the raw value array through unchanged.
	KindNone Kind = iota
	KindMean
	KindSum
	KindCustom
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindMean:
		return "mean"
	case KindSum:
		return "sum"
	case KindCustom:
		return "custom"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// #endregion kind

// #region reduction

// Func is the signature of a user-supplied reduction. For per-group
// directives it receives the group-id array and group count; for
// whole-collection directives groupIDs is nil and nGroups is 0. The pipeline
// places no further contract on it.
type Func func(values []float64, groupIDs []int, nGroups int) ([]float64, error)

// Reduction is the closed variant resolved once at directive construction,
// replacing string dispatch at call time.
type Reduction struct {
	Kind   Kind
	Custom Func
	name   string
}

func (r Reduction) String() string {
	if r.Kind == KindCustom {
		return r.name
	}
	return r.Kind.String()
}

// #endregion reduction

// #region registry

var customs = map[string]Func{}

// Register makes a custom reduction available to directive resolution under
// the given name. Config files reference it by that name in the function
// field. Registration happens at program start, before directives are built.
func Register(name string, fn Func) {
	customs[name] = fn
}

// Resolve maps a configured function name to its Reduction variant. The
// empty name means no reduction. Unknown names are a configuration error.
func Resolve(name string) (Reduction, error) {
	switch name {
	case "", "null", "none":
		return Reduction{Kind: KindNone}, nil
	case "mean":
		return Reduction{Kind: KindMean}, nil
	case "sum":
		return Reduction{Kind: KindSum}, nil
	}
	if fn, ok := customs[name]; ok {
		return Reduction{Kind: KindCustom, Custom: fn, name: name}, nil
	}
	return Reduction{}, fmt.Errorf("%s function unknown", name)
}

// #endregion registry
