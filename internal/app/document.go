package app

import (
	"errors"
	"fmt"
	"slices"

	"github.com/irfansharif/draft/internal/entity"
	"github.com/irfansharif/draft/internal/geom"
)

// ErrNotInDocument is returned when an operation names an entity the document
// does not hold.
var ErrNotInDocument = errors.New("entity not in document")

// Document is the ordered collection of entities in a drawing. Order is
// insertion order; it decides draw order and which vertex wins a snap.
type Document struct {
	entities []entity.Entity
}

func NewDocument() *Document { return &Document{} }

// Add appends e. Nil entities and entities already present are rejected.
func (d *Document) Add(e entity.Entity) bool {
	if e == nil || d.Contains(e) {
		return false
	}
	d.entities = append(d.entities, e)
	return true
}

// Remove drops e, reporting whether it was present.
func (d *Document) Remove(e entity.Entity) bool {
	i := d.index(e)
	if i < 0 {
		return false
	}
	d.entities = slices.Delete(d.entities, i, i+1)
	return true
}

func (d *Document) Contains(e entity.Entity) bool { return d.index(e) >= 0 }

// Entities returns the entities in order. The slice is a copy; the entities
// are not.
func (d *Document) Entities() []entity.Entity { return slices.Clone(d.entities) }

func (d *Document) Len() int { return len(d.entities) }

func (d *Document) Clear() { d.entities = nil }

// Replace swaps every original for the transformed entity at the same index.
// Either every entity is swapped or, on error, none is. Each transformed
// entity takes its original's place in the draw order.
func (d *Document) Replace(originals, transformed []entity.Entity) error {
	if len(originals) != len(transformed) {
		return fmt.Errorf("replacing %d entities with %d", len(originals), len(transformed))
	}
	idx := make([]int, len(originals))
	for i, o := range originals {
		if idx[i] = d.index(o); idx[i] < 0 {
			return fmt.Errorf("replacing %v: %w", o, ErrNotInDocument)
		}
		if transformed[i] == nil {
			return fmt.Errorf("replacing %v with nil", o)
		}
		if d.Contains(transformed[i]) {
			return fmt.Errorf("replacement %v is already in the document", transformed[i])
		}
	}
	for i, at := range idx {
		d.entities[at] = transformed[i]
	}
	return nil
}

// Selected returns the selected entities in document order.
func (d *Document) Selected() []entity.Entity {
	var out []entity.Entity
	for _, e := range d.entities {
		if e.Attributes().Selected {
			out = append(out, e)
		}
	}
	return out
}

// SetSelected marks every entity in es (selected or not).
func (d *Document) SetSelected(es []entity.Entity, selected bool) {
	for _, e := range es {
		e.Attributes().Selected = selected
	}
}

func (d *Document) SelectAll()      { d.SetSelected(d.entities, true) }
func (d *Document) ClearSelection() { d.SetSelected(d.entities, false) }

// RemoveSelected drops every selected entity and returns how many went.
func (d *Document) RemoveSelected() int {
	n := len(d.entities)
	d.entities = slices.DeleteFunc(d.entities, func(e entity.Entity) bool {
		return e.Attributes().Selected
	})
	return n - len(d.entities)
}

// Bound is the union of every entity's bound; empty for an empty document.
func (d *Document) Bound() geom.Bound { return entity.Bounds(d.entities) }

func (d *Document) index(e entity.Entity) int {
	if e == nil {
		return -1
	}
	return slices.Index(d.entities, e)
}
