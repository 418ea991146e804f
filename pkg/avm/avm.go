// Package avm provides a parser for the AVM (AVatar Model) container format.
// An AVM file holds a skinned character: a scene-node hierarchy, a bone
// skeleton, triangle meshes, morph-target names, TRS-keyframed animation
// clips, materials, and embedded textures.
package avm

import (
	"errors"
	"fmt"
)

// AVM format errors.
var (
	ErrInvalidMagic       = errors.New("invalid AVM magic: expected 'AVTR'")
	ErrUnsupportedVersion = errors.New("unsupported AVM version")
	ErrTruncatedData      = errors.New("truncated AVM data")
	ErrInvalidCount       = errors.New("invalid AVM section count")
)

// Magic is the four-byte signature at the start of every AVM file.
const Magic = "AVTR"

// Version represents the AVM file version.
type Version struct {
	Major uint8
	Minor uint8
}

// String returns the version as "Major.Minor".
func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// LoopMode describes how a clip behaves when it reaches its end.
type LoopMode uint8

const (
	LoopOnce     LoopMode = 0 // Play once and stop
	LoopRepeat   LoopMode = 1 // Wrap around to the start
	LoopPingPong LoopMode = 2 // Reverse direction at each end
)

// String returns a human-readable loop mode name.
func (l LoopMode) String() string {
	switch l {
	case LoopOnce:
		return "Once"
	case LoopRepeat:
		return "Repeat"
	case LoopPingPong:
		return "PingPong"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(l))
	}
}

// TextureFormat identifies the encoding of an embedded texture blob.
type TextureFormat uint8

const (
	TexturePNG TextureFormat = 0
	TextureTGA TextureFormat = 1
)

// String returns a human-readable texture format name.
func (f TextureFormat) String() string {
	switch f {
	case TexturePNG:
		return "PNG"
	case TextureTGA:
		return "TGA"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(f))
	}
}

// Node is one scene-graph node. ParentIndex is -1 for the root.
type Node struct {
	Name        string
	ParentIndex int16
	Position    [3]float32
	Rotation    [4]float32 // X, Y, Z, W quaternion
	Scale       [3]float32
}

// Bone is one skeleton joint in bind pose. ParentIndex is -1 for the root bone.
type Bone struct {
	Name        string
	ParentIndex int16
	Position    [3]float32
	Rotation    [4]float32
	Scale       [3]float32
}

// Mesh holds triangle geometry referencing a material by index (-1 for none).
type Mesh struct {
	Name          string
	Positions     [][3]float32
	Indices       []uint32
	MaterialIndex int16
}

// PosKey is a position keyframe at Time seconds.
type PosKey struct {
	Time     float32
	Position [3]float32
}

// RotKey is a rotation keyframe at Time seconds.
type RotKey struct {
	Time     float32
	Rotation [4]float32
}

// ScaleKey is a scale keyframe at Time seconds.
type ScaleKey struct {
	Time  float32
	Scale [3]float32
}

// Track holds the keyframes of one clip for one named bone.
type Track struct {
	Bone      string
	PosKeys   []PosKey
	RotKeys   []RotKey
	ScaleKeys []ScaleKey
}

// Clip is one named animation with per-bone keyframe tracks.
type Clip struct {
	Name     string
	Duration float32 // seconds
	Loop     LoopMode
	Tracks   []Track
}

// Material references a texture by index (-1 for none).
type Material struct {
	Name         string
	TextureIndex int16
	DoubleSided  bool
	// Complexity is a coarse shading-cost score (0 = unlit, higher = costlier).
	Complexity uint8
}

// Texture is an embedded image blob.
type Texture struct {
	Name   string
	Format TextureFormat
	Data   []byte
}

// Document is a fully parsed AVM file.
type Document struct {
	Version   Version
	Nodes     []Node
	Bones     []Bone
	Meshes    []Mesh
	Morphs    []string
	Clips     []Clip
	Materials []Material
	Textures  []Texture
}

// VertexCount returns the total vertex count across all meshes.
func (d *Document) VertexCount() int {
	n := 0
	for i := range d.Meshes {
		n += len(d.Meshes[i].Positions)
	}
	return n
}

// TriangleCount returns the total triangle count across all meshes.
func (d *Document) TriangleCount() int {
	n := 0
	for i := range d.Meshes {
		n += len(d.Meshes[i].Indices) / 3
	}
	return n
}
