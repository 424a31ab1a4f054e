package render

import (
	"fmt"

	"github.com/rclancey/earcut"

	"github.com/irfansharif/draft/internal/geom"
)

// earClip triangulates a simple polygon using the earcut algorithm. Points are
// used as given (not rounded), and a polygon with no area yields no
// triangles.
func earClip(polygon []geom.Point) ([][3]geom.Point, error) {
	if len(polygon) < 3 {
		return nil, fmt.Errorf("degenerate polygon (%d vertices < 3)", len(polygon))
	}

	// Format: [x0, y0, x1, y1, ..., xn, yn]
	coords := make([]float64, 0, len(polygon)*2)
	for _, p := range polygon {
		coords = append(coords, p.X, p.Y)
	}

	indices, err := earcut.Earcut(coords, nil /* holeIndices */, 2 /* dim */)
	if err != nil {
		return nil, fmt.Errorf("triangulating %d-vertex polygon: %w", len(polygon), err)
	}
	if len(indices)%3 != 0 {
		return nil, fmt.Errorf("invalid triangle count (indices: %d, not divisible by 3)", len(indices))
	}

	vertex := func(i int) geom.Point { return geom.Point{X: coords[i*2], Y: coords[i*2+1]} }
	triangles := make([][3]geom.Point, 0, len(indices)/3)
	for i := 0; i < len(indices); i += 3 {
		triangles = append(triangles, [3]geom.Point{
			vertex(indices[i]), vertex(indices[i+1]), vertex(indices[i+2]),
		})
	}
	return triangles, nil
}
