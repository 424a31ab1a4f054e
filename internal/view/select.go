package view

import (
	"github.com/irfansharif/draft/internal/entity"
	"github.com/irfansharif/draft/internal/geom"
)

// RubberBand is a selection drag in world space.
type RubberBand struct {
	From, To geom.Point
}

func (r RubberBand) Bound() geom.Bound { return geom.BoundOf(r.From, r.To) }

// Enclosed returns the entities whose bound lies strictly inside the band.
// Entities only partly covered, or touching its edge, are left out.
func (r RubberBand) Enclosed(es []entity.Entity) []entity.Entity {
	band := r.Bound()
	var out []entity.Entity
	for _, e := range es {
		if e.Bound().IsInside(band) {
			out = append(out, e)
		}
	}
	return out
}
