package model

import (
	mathx "github.com/lumina3d/avatarcore/pkg/math"
)

// Node is one scene-graph node with a local TRS transform.
type Node struct {
	Name     string
	Position mathx.Vec3
	Rotation mathx.Quat
	Scale    mathx.Vec3
	Children []*Node
}

// LocalMatrix returns the node's local transform matrix.
func (n *Node) LocalMatrix() mathx.Mat4 {
	return mathx.ComposeTRS(n.Position, n.Rotation, n.Scale)
}

// Find returns the first node with the given name in this subtree, or nil.
func (n *Node) Find(name string) *Node {
	if n == nil {
		return nil
	}
	if n.Name == name {
		return n
	}
	for _, c := range n.Children {
		if found := c.Find(name); found != nil {
			return found
		}
	}
	return nil
}

// Walk calls fn for every node in the subtree, parents before children.
func (n *Node) Walk(fn func(*Node)) {
	if n == nil {
		return
	}
	fn(n)
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// clone deep-copies the subtree.
func (n *Node) clone() *Node {
	if n == nil {
		return nil
	}
	out := &Node{
		Name:     n.Name,
		Position: n.Position,
		Rotation: n.Rotation,
		Scale:    n.Scale,
	}
	if len(n.Children) > 0 {
		out.Children = make([]*Node, len(n.Children))
		for i, c := range n.Children {
			out.Children[i] = c.clone()
		}
	}
	return out
}
