package model

// Clone deep-copies the model so that a cached copy and an in-use copy never
// alias. The scene graph, skeleton, meshes, and morph weights are copied;
// clips are immutable and shared; texture pixel data is shared but each clone
// holds its own releasable reference.
func (m *AnimatedModel) Clone() *AnimatedModel {
	if m == nil {
		return nil
	}

	out := &AnimatedModel{
		ID:       m.ID,
		Source:   m.Source,
		Root:     m.Root.clone(),
		Skeleton: m.Skeleton.clone(),
		Clips:    m.Clips,
		Morphs:   m.Morphs.clone(),
		Meta:     m.Meta,
		disposed: m.disposed,
	}

	if m.Meshes != nil {
		out.Meshes = make([]*Mesh, len(m.Meshes))
		for i, mesh := range m.Meshes {
			out.Meshes[i] = mesh.clone()
		}
	}

	if m.LODs != nil {
		out.LODs = make([]LODLevel, len(m.LODs))
		for i, lod := range m.LODs {
			meshes := make([]*Mesh, len(lod.Meshes))
			for j, mesh := range lod.Meshes {
				meshes[j] = mesh.clone()
			}
			out.LODs[i] = LODLevel{Distance: lod.Distance, Meshes: meshes, Reduction: lod.Reduction}
		}
	}

	if m.Materials != nil {
		out.Materials = make([]*Material, len(m.Materials))
		for i, mat := range m.Materials {
			cp := *mat
			out.Materials[i] = &cp
		}
	}

	if m.Textures != nil {
		out.Textures = make(map[string]*Texture, len(m.Textures))
		for name, tex := range m.Textures {
			cp := *tex
			out.Textures[name] = &cp
		}
	}

	return out
}
