package model

import (
	"fmt"

	mathx "github.com/lumina3d/avatarcore/pkg/math"
)

// Bone is one skeleton joint. Position/Rotation/Scale are the animated local
// transform relative to the parent bone; the Bind* fields hold the rest pose.
// World is the world-space joint position, refreshed by UpdateWorld and
// overridable by the IK solver after solving.
type Bone struct {
	Name   string
	Parent int // index into Skeleton.Bones, -1 for the root

	Position mathx.Vec3
	Rotation mathx.Quat
	Scale    mathx.Vec3

	BindPosition mathx.Vec3
	BindRotation mathx.Quat
	BindScale    mathx.Vec3

	World mathx.Vec3
}

// ResetToBind restores the bone's local transform to the bind pose.
func (b *Bone) ResetToBind() {
	b.Position = b.BindPosition
	b.Rotation = b.BindRotation
	b.Scale = b.BindScale
}

// Skeleton is a named bone hierarchy stored parent-before-child.
type Skeleton struct {
	Bones  []*Bone
	byName map[string]int
}

// NewSkeleton builds a skeleton from bones ordered parent-before-child.
func NewSkeleton(bones []*Bone) (*Skeleton, error) {
	byName := make(map[string]int, len(bones))
	for i, b := range bones {
		if b.Parent >= i {
			return nil, fmt.Errorf("bone %q: parent index %d not before child %d", b.Name, b.Parent, i)
		}
		if _, dup := byName[b.Name]; dup {
			return nil, fmt.Errorf("duplicate bone name %q", b.Name)
		}
		byName[b.Name] = i
	}
	s := &Skeleton{Bones: bones, byName: byName}
	s.UpdateWorld()
	return s, nil
}

// Bone returns the named bone, or nil if absent.
func (s *Skeleton) Bone(name string) *Bone {
	if s == nil {
		return nil
	}
	if i, ok := s.byName[name]; ok {
		return s.Bones[i]
	}
	return nil
}

// Has reports whether the skeleton contains the named bone.
func (s *Skeleton) Has(name string) bool {
	if s == nil {
		return false
	}
	_, ok := s.byName[name]
	return ok
}

// UpdateWorld recomputes world-space joint positions from the local
// transforms, walking parents before children.
func (s *Skeleton) UpdateWorld() {
	worlds := make([]mathx.Mat4, len(s.Bones))
	for i, b := range s.Bones {
		local := mathx.ComposeTRS(b.Position, b.Rotation, b.Scale)
		if b.Parent < 0 {
			worlds[i] = local
		} else {
			worlds[i] = worlds[b.Parent].Mul(local)
		}
		b.World = worlds[i].Translation()
	}
}

// ResetToBind restores every bone to the bind pose and refreshes world
// positions.
func (s *Skeleton) ResetToBind() {
	for _, b := range s.Bones {
		b.ResetToBind()
	}
	s.UpdateWorld()
}

// clone deep-copies the skeleton.
func (s *Skeleton) clone() *Skeleton {
	if s == nil {
		return nil
	}
	bones := make([]*Bone, len(s.Bones))
	for i, b := range s.Bones {
		cp := *b
		bones[i] = &cp
	}
	byName := make(map[string]int, len(s.byName))
	for k, v := range s.byName {
		byName[k] = v
	}
	return &Skeleton{Bones: bones, byName: byName}
}
