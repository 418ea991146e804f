// Package model defines the runtime representation of a loaded character:
// scene graph, skeleton, animation clips, morph channels, and metadata.
package model

import (
	mathx "github.com/lumina3d/avatarcore/pkg/math"
)

// Metadata holds derived statistics about a loaded model.
type Metadata struct {
	VertexCount   int
	TriangleCount int
	TextureCount  int
	BoneCount     int
	MorphCount    int
	MaterialCount int
	Bounds        Bounds
	MemoryBytes   int64
}

// Bounds is the axis-aligned bounding box of the model.
type Bounds struct {
	Min mathx.Vec3
	Max mathx.Vec3
}

// Center returns the center point of the bounds.
func (b Bounds) Center() mathx.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// LODLevel is one simplified copy of the model geometry, shown beyond
// Distance world units from the camera.
type LODLevel struct {
	Distance  float32
	Meshes    []*Mesh
	Reduction float32 // fraction of triangles removed relative to the original
}

// AnimatedModel owns everything produced by one loading-pipeline run.
// It is exclusively owned by either a cache entry or the caller holding
// a transient load result, never both.
type AnimatedModel struct {
	ID     string // load request id
	Source string // source URL or path

	Root     *Node
	Skeleton *Skeleton
	Meshes   []*Mesh
	Clips    map[string]*Clip
	Morphs   *MorphSet

	Materials []*Material
	Textures  map[string]*Texture

	LODs []LODLevel
	Meta Metadata

	disposed bool
}

// Clip returns the named animation clip, or nil if absent.
func (m *AnimatedModel) Clip(name string) *Clip {
	if m.Clips == nil {
		return nil
	}
	return m.Clips[name]
}

// Disposed reports whether Dispose has been called.
func (m *AnimatedModel) Disposed() bool {
	return m.disposed
}

// Dispose releases the model's geometry buffers, materials, and textures.
// Calling Dispose more than once is a no-op. Engines holding a non-owning
// reference must stop using the model once its owner disposes it.
func (m *AnimatedModel) Dispose() {
	if m.disposed {
		return
	}
	m.disposed = true

	for _, mesh := range m.Meshes {
		mesh.Release()
	}
	for i := range m.LODs {
		for _, mesh := range m.LODs[i].Meshes {
			mesh.Release()
		}
	}
	for _, tex := range m.Textures {
		tex.Release()
	}
	m.Meshes = nil
	m.LODs = nil
	m.Textures = nil
	m.Materials = nil
}
