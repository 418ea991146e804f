// Package ik solves inverse kinematics for bone chains using FABRIK
// (Forward And Backward Reaching Inverse Kinematics), an iterative solver
// working directly on joint positions.
package ik

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/lumina3d/avatarcore/internal/engine/model"
	mathx "github.com/lumina3d/avatarcore/pkg/math"
)

const (
	// DefaultTolerance is the end-effector distance at which solving stops.
	DefaultTolerance = 0.001
	// DefaultMaxIterations caps the forward/backward passes per solve.
	DefaultMaxIterations = 10
)

// Constraint limits the bend angle at one joint, in radians measured between
// the incoming and outgoing segments. The solver does not enforce
// constraints; Violations reports breaches after a solve so callers can react.
type Constraint struct {
	Bone     string
	MaxAngle float32
}

// Chain is a contiguous run of bones solved as one IK chain, ordered root to
// end effector. Segment lengths are fixed at construction from the bind pose.
type Chain struct {
	Tolerance     float32
	MaxIterations int

	skeleton    *model.Skeleton
	bones       []*model.Bone
	lengths     []float32 // lengths[i] = distance from joint i to joint i+1
	total       float32
	constraints map[string]float32
	log         *zap.Logger
}

// NewChain builds a chain over the named bones, which must form a contiguous
// parent-to-child run in the skeleton and contain at least two joints.
func NewChain(skeleton *model.Skeleton, boneNames []string, log *zap.Logger) (*Chain, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if len(boneNames) < 2 {
		return nil, fmt.Errorf("ik chain needs at least two bones, got %d", len(boneNames))
	}

	bones := make([]*model.Bone, len(boneNames))
	for i, name := range boneNames {
		b := skeleton.Bone(name)
		if b == nil {
			return nil, fmt.Errorf("ik chain bone %q not in skeleton", name)
		}
		bones[i] = b
	}
	for i := 1; i < len(bones); i++ {
		parent := skeleton.Bone(boneNames[i-1])
		if bones[i].Parent < 0 || skeleton.Bones[bones[i].Parent] != parent {
			return nil, fmt.Errorf("ik chain broken: %q is not a child of %q", boneNames[i], boneNames[i-1])
		}
	}

	c := &Chain{
		Tolerance:     DefaultTolerance,
		MaxIterations: DefaultMaxIterations,
		skeleton:      skeleton,
		bones:         bones,
		constraints:   make(map[string]float32),
		log:           log,
	}

	// Segment lengths come from the bind pose and never change while solving.
	skeleton.UpdateWorld()
	c.lengths = make([]float32, len(bones)-1)
	for i := 0; i < len(bones)-1; i++ {
		c.lengths[i] = bones[i+1].World.Sub(bones[i].World).Length()
		if c.lengths[i] <= 0 {
			return nil, fmt.Errorf("ik chain segment %q-%q has zero length", boneNames[i], boneNames[i+1])
		}
		c.total += c.lengths[i]
	}
	return c, nil
}

// SetConstraint sets the maximum bend angle at a joint, in radians. It
// returns an error for bones outside the chain.
func (c *Chain) SetConstraint(bone string, maxAngle float32) error {
	for _, b := range c.bones {
		if b.Name == bone {
			c.constraints[bone] = maxAngle
			return nil
		}
	}
	return fmt.Errorf("constraint bone %q not in chain", bone)
}

// Reach returns the chain's maximum reach from its root.
func (c *Chain) Reach() float32 {
	return c.total
}

// EndEffector returns the current world position of the chain tip.
func (c *Chain) EndEffector() mathx.Vec3 {
	return c.bones[len(c.bones)-1].World
}

// Solve moves the chain's world joint positions toward target. It returns
// true when the end effector lands within Tolerance. Unreachable targets
// leave the chain fully extended toward the target and return false.
// Segment lengths are preserved exactly in both cases.
func (c *Chain) Solve(target mathx.Vec3) bool {
	n := len(c.bones)
	pos := make([]mathx.Vec3, n)
	for i, b := range c.bones {
		pos[i] = b.World
	}
	root := pos[0]

	if root.Sub(target).Length() > c.total {
		// Out of reach: stretch straight toward the target.
		dir := target.Sub(root).Normalize()
		for i := 1; i < n; i++ {
			pos[i] = pos[i-1].Add(dir.Scale(c.lengths[i-1]))
		}
		c.write(pos)
		return false
	}

	solved := false
	for iter := 0; iter < c.MaxIterations; iter++ {
		// Backward pass: pin the tip to the target, walk toward the root.
		pos[n-1] = target
		for i := n - 2; i >= 0; i-- {
			dir := pos[i].Sub(pos[i+1]).Normalize()
			pos[i] = pos[i+1].Add(dir.Scale(c.lengths[i]))
		}

		// Forward pass: pin the root back, walk toward the tip.
		pos[0] = root
		for i := 1; i < n; i++ {
			dir := pos[i].Sub(pos[i-1]).Normalize()
			pos[i] = pos[i-1].Add(dir.Scale(c.lengths[i-1]))
		}

		if pos[n-1].Sub(target).Length() <= c.Tolerance {
			solved = true
			break
		}
	}

	c.write(pos)
	return solved
}

// Violations returns the chain joints whose current bend exceeds their
// constraint, using the solved world positions.
func (c *Chain) Violations() []string {
	var out []string
	for i := 1; i < len(c.bones)-1; i++ {
		maxAngle, ok := c.constraints[c.bones[i].Name]
		if !ok {
			continue
		}
		a := c.bones[i-1].World.Sub(c.bones[i].World).Normalize()
		b := c.bones[i+1].World.Sub(c.bones[i].World).Normalize()
		// Bend is the deviation from a straight joint (pi apart).
		bend := mathx.Pi - mathx.Acos(mathx.Clamp(a.Dot(b), -1, 1))
		if bend > maxAngle {
			out = append(out, c.bones[i].Name)
			c.log.Debug("ik constraint exceeded",
				zap.String("bone", c.bones[i].Name),
				zap.Float32("bend", bend),
				zap.Float32("max", maxAngle))
		}
	}
	return out
}

func (c *Chain) write(pos []mathx.Vec3) {
	for i, b := range c.bones {
		b.World = pos[i]
	}
}
