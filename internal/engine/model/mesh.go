package model

import (
	"image"

	mathx "github.com/lumina3d/avatarcore/pkg/math"
)

// Mesh holds triangle geometry. Positions and Indices stand in for the
// GPU-side vertex and index buffers; Release drops them so the memory can
// be reclaimed once the model is evicted or disposed.
type Mesh struct {
	Name          string
	Positions     []mathx.Vec3
	Indices       []uint32
	MaterialIndex int

	released bool
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int { return len(m.Positions) }

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int { return len(m.Indices) / 3 }

// Released reports whether the mesh buffers have been released.
func (m *Mesh) Released() bool { return m.released }

// Release drops the geometry buffers. Safe to call more than once.
func (m *Mesh) Release() {
	if m.released {
		return
	}
	m.released = true
	m.Positions = nil
	m.Indices = nil
}

// SizeBytes estimates the buffer footprint of the mesh.
func (m *Mesh) SizeBytes() int64 {
	return int64(len(m.Positions))*12 + int64(len(m.Indices))*4
}

// clone deep-copies the mesh buffers.
func (m *Mesh) clone() *Mesh {
	out := &Mesh{
		Name:          m.Name,
		MaterialIndex: m.MaterialIndex,
		released:      m.released,
	}
	if m.Positions != nil {
		out.Positions = make([]mathx.Vec3, len(m.Positions))
		copy(out.Positions, m.Positions)
	}
	if m.Indices != nil {
		out.Indices = make([]uint32, len(m.Indices))
		copy(out.Indices, m.Indices)
	}
	return out
}

// Material describes how a mesh surface is shaded.
type Material struct {
	Name        string
	TextureName string
	DoubleSided bool
	Complexity  int
}

// Texture is a decoded image owned by the model. The pixel data is shared
// between clones; Release only drops this model's reference.
type Texture struct {
	Name   string
	Image  image.Image
	Width  int
	Height int

	released bool
}

// Released reports whether this model's reference has been released.
func (t *Texture) Released() bool { return t.released }

// Release drops the texture reference. Safe to call more than once.
func (t *Texture) Release() {
	if t.released {
		return
	}
	t.released = true
	t.Image = nil
}

// SizeBytes estimates the decoded footprint (RGBA).
func (t *Texture) SizeBytes() int64 {
	return int64(t.Width) * int64(t.Height) * 4
}
