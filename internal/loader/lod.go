package loader

import (
	mathx "github.com/lumina3d/avatarcore/pkg/math"

	"github.com/lumina3d/avatarcore/internal/engine/model"
)

// lodReduction returns the triangle reduction fraction for LOD level i
// (0-indexed from the finest simplified copy): min(0.8, (i+1)*0.2).
func lodReduction(i int) float32 {
	r := float32(i+1) * 0.2
	if r > 0.8 {
		r = 0.8
	}
	return r
}

// generateLODs builds one simplified mesh set per distance threshold.
// Decimation is deterministic for the same input and reduction factor.
func generateLODs(meshes []*model.Mesh, distances []float32) []model.LODLevel {
	levels := make([]model.LODLevel, 0, len(distances))
	for i, dist := range distances {
		reduction := lodReduction(i)
		simplified := make([]*model.Mesh, len(meshes))
		for j, mesh := range meshes {
			simplified[j] = decimate(mesh, reduction)
		}
		levels = append(levels, model.LODLevel{
			Distance:  dist,
			Meshes:    simplified,
			Reduction: reduction,
		})
	}
	return levels
}

// decimate removes the given fraction of triangles by uniform stride
// sampling, then compacts the vertex buffer to the vertices still in use.
func decimate(mesh *model.Mesh, reduction float32) *model.Mesh {
	triCount := mesh.TriangleCount()
	keepTris := int(float32(triCount) * (1 - reduction))
	if keepTris < 1 && triCount > 0 {
		keepTris = 1
	}

	out := &model.Mesh{
		Name:          mesh.Name,
		MaterialIndex: mesh.MaterialIndex,
	}
	if keepTris == 0 {
		return out
	}

	// Pick keepTris triangles spread uniformly across the index buffer.
	remap := make(map[uint32]uint32, len(mesh.Positions))
	out.Indices = make([]uint32, 0, keepTris*3)
	for k := 0; k < keepTris; k++ {
		tri := k * triCount / keepTris
		for c := 0; c < 3; c++ {
			oldIdx := mesh.Indices[tri*3+c]
			newIdx, ok := remap[oldIdx]
			if !ok {
				newIdx = uint32(len(out.Positions))
				remap[oldIdx] = newIdx
				out.Positions = append(out.Positions, mesh.Positions[oldIdx])
			}
			out.Indices = append(out.Indices, newIdx)
		}
	}
	return out
}

// computeBounds returns the axis-aligned bounding box across all meshes.
func computeBounds(meshes []*model.Mesh) model.Bounds {
	var b model.Bounds
	first := true
	for _, mesh := range meshes {
		for _, p := range mesh.Positions {
			if first {
				b.Min, b.Max = p, p
				first = false
				continue
			}
			b.Min = mathx.Vec3{
				X: min(b.Min.X, p.X),
				Y: min(b.Min.Y, p.Y),
				Z: min(b.Min.Z, p.Z),
			}
			b.Max = mathx.Vec3{
				X: max(b.Max.X, p.X),
				Y: max(b.Max.Y, p.Y),
				Z: max(b.Max.Z, p.Z),
			}
		}
	}
	return b
}
