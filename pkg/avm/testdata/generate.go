//go:build ignore

// This program generates a small test AVM file for unit tests and demos.
// Run with: go run generate.go
package main

import (
	"os"

	"github.com/lumina3d/avatarcore/pkg/avm"
)

func main() {
	doc := &avm.Document{
		Version: avm.Version{Major: 1, Minor: 0},
		Nodes: []avm.Node{
			{Name: "root", ParentIndex: -1, Rotation: [4]float32{0, 0, 0, 1}, Scale: [3]float32{1, 1, 1}},
		},
		Bones: []avm.Bone{
			{Name: "hips", ParentIndex: -1, Rotation: [4]float32{0, 0, 0, 1}, Scale: [3]float32{1, 1, 1}},
			{Name: "spine", ParentIndex: 0, Position: [3]float32{0, 0.3, 0}, Rotation: [4]float32{0, 0, 0, 1}, Scale: [3]float32{1, 1, 1}},
			{Name: "head", ParentIndex: 1, Position: [3]float32{0, 0.5, 0}, Rotation: [4]float32{0, 0, 0, 1}, Scale: [3]float32{1, 1, 1}},
			{Name: "upperArmL", ParentIndex: 1, Position: [3]float32{0.2, 0.4, 0}, Rotation: [4]float32{0, 0, 0, 1}, Scale: [3]float32{1, 1, 1}},
			{Name: "lowerArmL", ParentIndex: 3, Position: [3]float32{0.3, 0, 0}, Rotation: [4]float32{0, 0, 0, 1}, Scale: [3]float32{1, 1, 1}},
			{Name: "handL", ParentIndex: 4, Position: [3]float32{0.25, 0, 0}, Rotation: [4]float32{0, 0, 0, 1}, Scale: [3]float32{1, 1, 1}},
		},
		Meshes: []avm.Mesh{
			{
				Name: "body",
				Positions: [][3]float32{
					{-0.5, 0, 0}, {0.5, 0, 0}, {0, 1.7, 0},
					{-0.5, 0, 0.2}, {0.5, 0, 0.2}, {0, 1.7, 0.2},
				},
				Indices:       []uint32{0, 1, 2, 3, 4, 5},
				MaterialIndex: 0,
			},
		},
		Morphs: []string{
			"eyeBlinkLeft", "eyeBlinkRight", "jawOpen", "mouthSmileLeft", "mouthSmileRight",
			"browDownLeft", "browDownRight", "browInnerUp",
		},
		Clips: []avm.Clip{
			{
				Name: "idle", Duration: 2.0, Loop: avm.LoopRepeat,
				Tracks: []avm.Track{
					{
						Bone: "spine",
						RotKeys: []avm.RotKey{
							{Time: 0, Rotation: [4]float32{0, 0, 0, 1}},
							{Time: 1, Rotation: [4]float32{0.02, 0, 0, 0.9998}},
							{Time: 2, Rotation: [4]float32{0, 0, 0, 1}},
						},
					},
				},
			},
			{
				Name: "wave", Duration: 1.0, Loop: avm.LoopOnce,
				Tracks: []avm.Track{
					{
						Bone: "upperArmL",
						RotKeys: []avm.RotKey{
							{Time: 0, Rotation: [4]float32{0, 0, 0, 1}},
							{Time: 0.5, Rotation: [4]float32{0, 0, 0.7071, 0.7071}},
							{Time: 1, Rotation: [4]float32{0, 0, 0, 1}},
						},
					},
				},
			},
		},
		Materials: []avm.Material{
			{Name: "skin", TextureIndex: -1, Complexity: 1},
		},
	}

	data, err := avm.Encode(doc)
	if err != nil {
		panic(err)
	}
	if err := os.WriteFile("character.avm", data, 0o644); err != nil {
		panic(err)
	}
}
