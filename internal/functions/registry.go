// Package functions is the name-indexed dispatch table for aggregate and
// scalar functions (spec.md §4.8 "Functions registry"). It depends on
// internal/persistence for the Row/FunctionResolver types; persistence
// itself never imports functions, so Table/TableReader stay ignorant of any
// particular function's implementation and are driven purely through the
// persistence.FunctionResolver interface.
package functions

import (
	"strings"

	"github.com/ferrumdb/ferrum/internal/functions/aggregators"
	"github.com/ferrumdb/ferrum/internal/functions/scalars"
	"github.com/ferrumdb/ferrum/internal/persistence"
)

// Registry is the built-in name -> implementation table. To add a function,
// register it in NewRegistry; there is no dynamic registration surface.
type Registry struct {
	aggregators map[string]persistence.AggregatorFunc
	scalars     map[string]persistence.ScalarFunc
}

// NewRegistry returns a Registry preloaded with every built-in function.
func NewRegistry() *Registry {
	return &Registry{
		aggregators: map[string]persistence.AggregatorFunc{
			aggregators.CountName: aggregators.Count,
			aggregators.MinName:   aggregators.Min,
			aggregators.MaxName:   aggregators.Max,
		},
		scalars: map[string]persistence.ScalarFunc{
			scalars.AddName: scalars.Add,
		},
	}
}

// ResolveAggregator implements persistence.FunctionResolver.
func (r *Registry) ResolveAggregator(name string) (persistence.AggregatorFunc, bool) {
	fn, ok := r.aggregators[normalize(name)]
	return fn, ok
}

// ResolveScalar implements persistence.FunctionResolver.
func (r *Registry) ResolveScalar(name string) (persistence.ScalarFunc, bool) {
	fn, ok := r.scalars[normalize(name)]
	return fn, ok
}

func normalize(name string) string {
	return strings.ToUpper(name)
}
