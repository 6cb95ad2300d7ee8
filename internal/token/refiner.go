package token

import (
	"github.com/mercadito/search-engine/internal/observability"
	"github.com/mercadito/search-engine/internal/spanish"
)

// Refiner reclassifies ambiguous tokens using their immediate right
// neighbor. One forward pass; a token reclassified by one rule is not
// re-examined by a later rule in the same pass.
type Refiner struct {
	logger *observability.Logger
}

// NewRefiner creates a Refiner.
func NewRefiner(logger *observability.Logger) *Refiner {
	return &Refiner{logger: logger.WithComponent("refiner")}
}

// Refine applies the context rules in priority order at each position.
func (r *Refiner) Refine(stream Stream) Stream {
	refined := 0
	for i := 0; i < len(stream.Tokens)-1; i++ {
		cur := &stream.Tokens[i]
		next := &stream.Tokens[i+1]
		if cur.refined || next.refined {
			continue
		}

		switch {
		// a category keyword pulls the next generic word into the
		// category: "tipo refrescos"
		case cur.Kind == KindCategory && next.Kind == KindGenericWord:
			next.Kind = KindCategory
			next.refined = true
			refined++

		// a modifier promotes its follower to an attribute:
		// "sin conservadores"
		case cur.Kind == KindModifier && (next.Kind == KindGenericWord || next.Kind == KindModifier):
			next.Kind = KindAttribute
			next.refined = true
			refined++

		// a number binds the following unit word to its class:
		// "50 pesos", "600 ml"
		case cur.Kind == KindNumber && next.Kind == KindUnit:
			if class, ok := spanish.Unit(next.Normalized); ok {
				if class == spanish.UnitMoney {
					next.Kind = KindUnitMoney
				} else {
					next.Kind = KindUnitMeasure
				}
				next.refined = true
				refined++
			}
		}
	}

	if refined > 0 {
		r.logger.Debug().Int("reclassified", refined).Msg("stream refined")
	}
	return stream
}
