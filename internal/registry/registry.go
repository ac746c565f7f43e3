// Package registry holds the fixed, ordered set of points every poller reads.
package registry

import (
	"errors"
	"fmt"

	"booth_dashboard/internal/models"
)

var (
	ErrNoPoints     = errors.New("registry: no points configured")
	ErrEmptyPointID = errors.New("registry: point id is empty")
)

// Registry is immutable after New and safe for concurrent reads.
type Registry struct {
	points []models.MonitoredPoint
	index  map[string]int
}

// New validates points and freezes them in the given order.
func New(points []models.MonitoredPoint) (*Registry, error) {
	if len(points) == 0 {
		return nil, ErrNoPoints
	}
	r := &Registry{
		points: make([]models.MonitoredPoint, len(points)),
		index:  make(map[string]int, len(points)),
	}
	for i, p := range points {
		if p.ID == "" {
			return nil, fmt.Errorf("point #%d: %w", i+1, ErrEmptyPointID)
		}
		if !p.Kind.Valid() {
			return nil, fmt.Errorf("point %q: unknown kind %q", p.ID, p.Kind)
		}
		if p.Kind == models.KindScaled && p.Scale <= 0 {
			return nil, fmt.Errorf("point %q: scaled kind requires scale > 0", p.ID)
		}
		if _, dup := r.index[p.ID]; dup {
			return nil, fmt.Errorf("point %q: duplicate id", p.ID)
		}
		r.points[i] = p
		r.index[p.ID] = i
	}
	return r, nil
}

// List returns a copy of the points in registry order.
func (r *Registry) List() []models.MonitoredPoint {
	out := make([]models.MonitoredPoint, len(r.points))
	copy(out, r.points)
	return out
}

// IDs returns the point ids in registry order.
func (r *Registry) IDs() []string {
	out := make([]string, len(r.points))
	for i, p := range r.points {
		out[i] = p.ID
	}
	return out
}

func (r *Registry) Lookup(id string) (models.MonitoredPoint, bool) {
	i, ok := r.index[id]
	if !ok {
		return models.MonitoredPoint{}, false
	}
	return r.points[i], true
}

func (r *Registry) Len() int { return len(r.points) }
