package avm

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// Section count limits used to reject corrupt files early.
const (
	maxNodes    = 4096
	maxBones    = 1024
	maxMeshes   = 256
	maxMorphs   = 512
	maxClips    = 256
	maxTextures = 128
)

// ParseFile reads and parses an AVM file from disk.
func ParseFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return Parse(data)
}

// Parse parses AVM data from a byte slice.
func Parse(data []byte) (*Document, error) {
	if len(data) < 6 {
		return nil, ErrTruncatedData
	}

	r := bytes.NewReader(data)

	magic := make([]byte, 4)
	if _, err := io.ReadFull(r, magic); err != nil {
		return nil, ErrTruncatedData
	}
	if string(magic) != Magic {
		return nil, ErrInvalidMagic
	}

	var verMajor, verMinor uint8
	binary.Read(r, binary.LittleEndian, &verMajor)
	binary.Read(r, binary.LittleEndian, &verMinor)

	doc := &Document{
		Version: Version{Major: verMajor, Minor: verMinor},
	}
	if doc.Version.Major != 1 {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedVersion, doc.Version)
	}

	if err := parseNodes(r, doc); err != nil {
		return nil, err
	}
	if err := parseBones(r, doc); err != nil {
		return nil, err
	}
	if err := parseMeshes(r, doc); err != nil {
		return nil, err
	}
	if err := parseMorphs(r, doc); err != nil {
		return nil, err
	}
	if err := parseClips(r, doc); err != nil {
		return nil, err
	}
	if err := parseMaterials(r, doc); err != nil {
		return nil, err
	}
	if err := parseTextures(r, doc); err != nil {
		return nil, err
	}

	return doc, nil
}

func parseNodes(r *bytes.Reader, doc *Document) error {
	count, err := readCount(r, maxNodes)
	if err != nil {
		return fmt.Errorf("nodes: %w", err)
	}

	doc.Nodes = make([]Node, count)
	for i := range doc.Nodes {
		n := &doc.Nodes[i]
		if n.Name, err = readString(r); err != nil {
			return fmt.Errorf("node %d name: %w", i, err)
		}
		if err = readLE(r, &n.ParentIndex, &n.Position, &n.Rotation, &n.Scale); err != nil {
			return fmt.Errorf("node %d transform: %w", i, err)
		}
	}
	return nil
}

func parseBones(r *bytes.Reader, doc *Document) error {
	count, err := readCount(r, maxBones)
	if err != nil {
		return fmt.Errorf("bones: %w", err)
	}

	doc.Bones = make([]Bone, count)
	for i := range doc.Bones {
		b := &doc.Bones[i]
		if b.Name, err = readString(r); err != nil {
			return fmt.Errorf("bone %d name: %w", i, err)
		}
		if err = readLE(r, &b.ParentIndex, &b.Position, &b.Rotation, &b.Scale); err != nil {
			return fmt.Errorf("bone %d transform: %w", i, err)
		}
	}
	return nil
}

func parseMeshes(r *bytes.Reader, doc *Document) error {
	count, err := readCount(r, maxMeshes)
	if err != nil {
		return fmt.Errorf("meshes: %w", err)
	}

	doc.Meshes = make([]Mesh, count)
	for i := range doc.Meshes {
		m := &doc.Meshes[i]
		if m.Name, err = readString(r); err != nil {
			return fmt.Errorf("mesh %d name: %w", i, err)
		}

		var vertexCount uint32
		if err = readLE(r, &vertexCount); err != nil {
			return fmt.Errorf("mesh %d vertex count: %w", i, err)
		}
		if int(vertexCount)*12 > r.Len() {
			return fmt.Errorf("mesh %d: %w", i, ErrTruncatedData)
		}
		m.Positions = make([][3]float32, vertexCount)
		if err = readLE(r, m.Positions); err != nil {
			return fmt.Errorf("mesh %d positions: %w", i, err)
		}

		var indexCount uint32
		if err = readLE(r, &indexCount); err != nil {
			return fmt.Errorf("mesh %d index count: %w", i, err)
		}
		if int(indexCount)*4 > r.Len() {
			return fmt.Errorf("mesh %d: %w", i, ErrTruncatedData)
		}
		m.Indices = make([]uint32, indexCount)
		if err = readLE(r, m.Indices); err != nil {
			return fmt.Errorf("mesh %d indices: %w", i, err)
		}

		if err = readLE(r, &m.MaterialIndex); err != nil {
			return fmt.Errorf("mesh %d material: %w", i, err)
		}
	}
	return nil
}

func parseMorphs(r *bytes.Reader, doc *Document) error {
	count, err := readCount(r, maxMorphs)
	if err != nil {
		return fmt.Errorf("morphs: %w", err)
	}

	doc.Morphs = make([]string, count)
	for i := range doc.Morphs {
		if doc.Morphs[i], err = readString(r); err != nil {
			return fmt.Errorf("morph %d: %w", i, err)
		}
	}
	return nil
}

func parseClips(r *bytes.Reader, doc *Document) error {
	count, err := readCount(r, maxClips)
	if err != nil {
		return fmt.Errorf("clips: %w", err)
	}

	doc.Clips = make([]Clip, count)
	for i := range doc.Clips {
		c := &doc.Clips[i]
		if c.Name, err = readString(r); err != nil {
			return fmt.Errorf("clip %d name: %w", i, err)
		}
		if err = readLE(r, &c.Duration, &c.Loop); err != nil {
			return fmt.Errorf("clip %d header: %w", i, err)
		}

		trackCount, err := readCount(r, maxBones)
		if err != nil {
			return fmt.Errorf("clip %d tracks: %w", i, err)
		}
		c.Tracks = make([]Track, trackCount)
		for j := range c.Tracks {
			if err := parseTrack(r, &c.Tracks[j]); err != nil {
				return fmt.Errorf("clip %d track %d: %w", i, j, err)
			}
		}
	}
	return nil
}

func parseTrack(r *bytes.Reader, tr *Track) error {
	var err error
	if tr.Bone, err = readString(r); err != nil {
		return err
	}

	posCount, err := readCount(r, 65535)
	if err != nil {
		return err
	}
	tr.PosKeys = make([]PosKey, posCount)
	if err = readLE(r, tr.PosKeys); err != nil {
		return err
	}

	rotCount, err := readCount(r, 65535)
	if err != nil {
		return err
	}
	tr.RotKeys = make([]RotKey, rotCount)
	if err = readLE(r, tr.RotKeys); err != nil {
		return err
	}

	scaleCount, err := readCount(r, 65535)
	if err != nil {
		return err
	}
	tr.ScaleKeys = make([]ScaleKey, scaleCount)
	return readLE(r, tr.ScaleKeys)
}

func parseMaterials(r *bytes.Reader, doc *Document) error {
	count, err := readCount(r, maxMeshes)
	if err != nil {
		return fmt.Errorf("materials: %w", err)
	}

	doc.Materials = make([]Material, count)
	for i := range doc.Materials {
		m := &doc.Materials[i]
		if m.Name, err = readString(r); err != nil {
			return fmt.Errorf("material %d name: %w", i, err)
		}
		var doubleSided uint8
		if err = readLE(r, &m.TextureIndex, &doubleSided, &m.Complexity); err != nil {
			return fmt.Errorf("material %d: %w", i, err)
		}
		m.DoubleSided = doubleSided != 0
	}
	return nil
}

func parseTextures(r *bytes.Reader, doc *Document) error {
	count, err := readCount(r, maxTextures)
	if err != nil {
		return fmt.Errorf("textures: %w", err)
	}

	doc.Textures = make([]Texture, count)
	for i := range doc.Textures {
		t := &doc.Textures[i]
		if t.Name, err = readString(r); err != nil {
			return fmt.Errorf("texture %d name: %w", i, err)
		}
		if err = readLE(r, &t.Format); err != nil {
			return fmt.Errorf("texture %d format: %w", i, err)
		}

		var dataLen uint32
		if err = readLE(r, &dataLen); err != nil {
			return fmt.Errorf("texture %d length: %w", i, err)
		}
		if int(dataLen) > r.Len() {
			return fmt.Errorf("texture %d: %w", i, ErrTruncatedData)
		}
		t.Data = make([]byte, dataLen)
		if _, err = io.ReadFull(r, t.Data); err != nil {
			return fmt.Errorf("texture %d data: %w", i, ErrTruncatedData)
		}
	}
	return nil
}

// readCount reads a uint16 element count and rejects values above limit.
func readCount(r *bytes.Reader, limit int) (int, error) {
	var count uint16
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return 0, ErrTruncatedData
	}
	if int(count) > limit {
		return 0, fmt.Errorf("%w: %d exceeds limit %d", ErrInvalidCount, count, limit)
	}
	return int(count), nil
}

// readString reads a uint8 length-prefixed string.
func readString(r *bytes.Reader) (string, error) {
	var length uint8
	if err := binary.Read(r, binary.LittleEndian, &length); err != nil {
		return "", ErrTruncatedData
	}
	if length == 0 {
		return "", nil
	}
	buf := make([]byte, length)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", ErrTruncatedData
	}
	return string(buf), nil
}

// readLE reads a sequence of little-endian values, stopping at the first error.
func readLE(r *bytes.Reader, vs ...interface{}) error {
	for _, v := range vs {
		if err := binary.Read(r, binary.LittleEndian, v); err != nil {
			return ErrTruncatedData
		}
	}
	return nil
}
