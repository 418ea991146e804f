package avm

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Encode serializes a Document into AVM bytes. It is the inverse of Parse
// and exists for tooling and test fixtures; the engine itself only parses.
func Encode(doc *Document) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(Magic)
	buf.WriteByte(doc.Version.Major)
	buf.WriteByte(doc.Version.Minor)

	if err := writeCount(&buf, len(doc.Nodes), maxNodes); err != nil {
		return nil, fmt.Errorf("nodes: %w", err)
	}
	for i := range doc.Nodes {
		n := &doc.Nodes[i]
		writeString(&buf, n.Name)
		writeLE(&buf, n.ParentIndex, n.Position, n.Rotation, n.Scale)
	}

	if err := writeCount(&buf, len(doc.Bones), maxBones); err != nil {
		return nil, fmt.Errorf("bones: %w", err)
	}
	for i := range doc.Bones {
		b := &doc.Bones[i]
		writeString(&buf, b.Name)
		writeLE(&buf, b.ParentIndex, b.Position, b.Rotation, b.Scale)
	}

	if err := writeCount(&buf, len(doc.Meshes), maxMeshes); err != nil {
		return nil, fmt.Errorf("meshes: %w", err)
	}
	for i := range doc.Meshes {
		m := &doc.Meshes[i]
		writeString(&buf, m.Name)
		writeLE(&buf, uint32(len(m.Positions)), m.Positions)
		writeLE(&buf, uint32(len(m.Indices)), m.Indices)
		writeLE(&buf, m.MaterialIndex)
	}

	if err := writeCount(&buf, len(doc.Morphs), maxMorphs); err != nil {
		return nil, fmt.Errorf("morphs: %w", err)
	}
	for _, name := range doc.Morphs {
		writeString(&buf, name)
	}

	if err := writeCount(&buf, len(doc.Clips), maxClips); err != nil {
		return nil, fmt.Errorf("clips: %w", err)
	}
	for i := range doc.Clips {
		c := &doc.Clips[i]
		writeString(&buf, c.Name)
		writeLE(&buf, c.Duration, c.Loop)
		if err := writeCount(&buf, len(c.Tracks), maxBones); err != nil {
			return nil, fmt.Errorf("clip %s tracks: %w", c.Name, err)
		}
		for j := range c.Tracks {
			tr := &c.Tracks[j]
			writeString(&buf, tr.Bone)
			if err := writeCount(&buf, len(tr.PosKeys), 65535); err != nil {
				return nil, err
			}
			writeLE(&buf, tr.PosKeys)
			if err := writeCount(&buf, len(tr.RotKeys), 65535); err != nil {
				return nil, err
			}
			writeLE(&buf, tr.RotKeys)
			if err := writeCount(&buf, len(tr.ScaleKeys), 65535); err != nil {
				return nil, err
			}
			writeLE(&buf, tr.ScaleKeys)
		}
	}

	if err := writeCount(&buf, len(doc.Materials), maxMeshes); err != nil {
		return nil, fmt.Errorf("materials: %w", err)
	}
	for i := range doc.Materials {
		m := &doc.Materials[i]
		writeString(&buf, m.Name)
		doubleSided := uint8(0)
		if m.DoubleSided {
			doubleSided = 1
		}
		writeLE(&buf, m.TextureIndex, doubleSided, m.Complexity)
	}

	if err := writeCount(&buf, len(doc.Textures), maxTextures); err != nil {
		return nil, fmt.Errorf("textures: %w", err)
	}
	for i := range doc.Textures {
		t := &doc.Textures[i]
		writeString(&buf, t.Name)
		writeLE(&buf, t.Format, uint32(len(t.Data)))
		buf.Write(t.Data)
	}

	return buf.Bytes(), nil
}

func writeCount(buf *bytes.Buffer, n, limit int) error {
	if n > limit {
		return fmt.Errorf("%w: %d exceeds limit %d", ErrInvalidCount, n, limit)
	}
	binary.Write(buf, binary.LittleEndian, uint16(n))
	return nil
}

func writeString(buf *bytes.Buffer, s string) {
	if len(s) > 255 {
		s = s[:255]
	}
	buf.WriteByte(uint8(len(s)))
	buf.WriteString(s)
}

func writeLE(buf *bytes.Buffer, vs ...interface{}) {
	for _, v := range vs {
		binary.Write(buf, binary.LittleEndian, v)
	}
}
