package loader

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lumina3d/avatarcore/internal/cache"
	"github.com/lumina3d/avatarcore/internal/engine/model"
	"github.com/lumina3d/avatarcore/internal/transport"
	"github.com/lumina3d/avatarcore/pkg/avm"
	mathx "github.com/lumina3d/avatarcore/pkg/math"
)

// Stage identifies a loading pipeline stage.
type Stage string

const (
	StageDownloading Stage = "downloading"
	StageParsing     Stage = "parsing"
	StageProcessing  Stage = "processing"
	StageOptimizing  Stage = "optimizing"
	StageComplete    Stage = "complete"
)

// Progress is one progress report. Progress is 0..1, or -1 when the stage
// cannot estimate completion (unknown download size).
type Progress struct {
	Stage       Stage
	Progress    float64
	LoadedBytes int64
	TotalBytes  int64
}

// Options configures one load.
type Options struct {
	URL          string
	Cache        bool
	EnableLOD    bool
	LODDistances []float32
	Requirements Requirements

	OnProgress  func(Progress)
	Preprocess  func(*avm.Document) error
	Postprocess func(*model.AnimatedModel) error
}

// DefaultLODDistances are the thresholds used when LOD is enabled without
// explicit distances, in world units.
var DefaultLODDistances = []float32{10, 25, 50, 100}

// Pipeline turns a URL into a ready AnimatedModel through strictly ordered
// stages. Concurrent loads for the same key are not deduplicated; the last
// completed load overwrites the cache entry.
type Pipeline struct {
	cache   *cache.Cache
	log     *zap.Logger
	timeout time.Duration

	// transportFor is swappable in tests.
	transportFor func(url string) transport.Transport
}

// New creates a pipeline. cache may be nil to disable caching entirely.
func New(c *cache.Cache, log *zap.Logger, httpTimeout time.Duration) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{
		cache:   c,
		log:     log,
		timeout: httpTimeout,
		transportFor: func(url string) transport.Transport {
			return transport.ForURL(url, httpTimeout)
		},
	}
}

// Load runs the full pipeline. On failure it returns a *LoadError and
// leaves any previously cached model for the same key untouched.
func (p *Pipeline) Load(ctx context.Context, opts Options) (*model.AnimatedModel, error) {
	id := uuid.NewString()
	log := p.log.With(zap.String("loadID", id), zap.String("url", opts.URL))
	started := time.Now()

	report := func(stage Stage, progress float64, loaded, total int64) {
		if opts.OnProgress != nil {
			opts.OnProgress(Progress{Stage: stage, Progress: progress, LoadedBytes: loaded, TotalBytes: total})
		}
	}

	// Stage 1: downloading.
	report(StageDownloading, 0, 0, 0)
	tr := p.transportFor(opts.URL)
	data, err := tr.Fetch(ctx, opts.URL, func(loaded, total int64) {
		frac := -1.0
		if total > 0 {
			frac = float64(loaded) / float64(total)
		}
		report(StageDownloading, frac, loaded, total)
	})
	if err != nil {
		le := Classify(err)
		log.Error("download failed", zap.String("kind", string(le.Kind)), zap.Error(err))
		return nil, le
	}
	log.Debug("downloaded", zap.Int("bytes", len(data)))

	// Stage 2: parsing.
	report(StageParsing, 0, int64(len(data)), int64(len(data)))
	doc, err := avm.Parse(data)
	if err != nil {
		le := Classify(err)
		log.Error("parse failed", zap.Error(err))
		return nil, le
	}
	if opts.Preprocess != nil {
		if err := opts.Preprocess(doc); err != nil {
			le := Classify(fmt.Errorf("preprocess hook: %w", err))
			log.Error("preprocess failed", zap.Error(err))
			return nil, le
		}
	}
	report(StageParsing, 1, int64(len(data)), int64(len(data)))

	// Validation runs after parsing and before any caching.
	warnings, err := validate(doc, opts.Requirements)
	if err != nil {
		log.Error("validation failed", zap.Error(err))
		return nil, Classify(err)
	}
	for _, w := range warnings {
		log.Warn("asset warning", zap.String("issue", w))
	}

	// Stage 3: processing.
	report(StageProcessing, 0, 0, 0)
	m, err := p.buildModel(doc, id, opts.URL, log)
	if err != nil {
		return nil, Classify(err)
	}
	report(StageProcessing, 1, 0, 0)

	// Stage 4: optimizing.
	report(StageOptimizing, 0, 0, 0)
	if opts.EnableLOD {
		distances := opts.LODDistances
		if len(distances) == 0 {
			distances = DefaultLODDistances
		}
		m.LODs = generateLODs(m.Meshes, distances)
		log.Debug("generated LODs", zap.Int("levels", len(m.LODs)))
	}
	for _, tex := range m.Textures {
		if downscaleTexture(tex) {
			log.Warn("downscaled oversized texture", zap.String("texture", tex.Name))
		}
	}
	if opts.Postprocess != nil {
		if err := opts.Postprocess(m); err != nil {
			le := Classify(fmt.Errorf("postprocess hook: %w", err))
			log.Error("postprocess failed", zap.Error(err))
			return nil, le
		}
	}
	report(StageOptimizing, 1, 0, 0)

	// Stage 5: complete. Insert into the cache unless disabled.
	if opts.Cache && p.cache != nil {
		p.cache.Put(opts.URL, m)
	}
	report(StageComplete, 1, 0, 0)

	log.Info("model loaded",
		zap.Int("vertices", m.Meta.VertexCount),
		zap.Int("triangles", m.Meta.TriangleCount),
		zap.Int("bones", m.Meta.BoneCount),
		zap.Int("morphs", m.Meta.MorphCount),
		zap.Int64("memoryBytes", m.Meta.MemoryBytes),
		zap.Duration("elapsed", time.Since(started)))

	return m, nil
}

// buildModel extracts the runtime model from a parsed document: scene graph,
// skeleton, meshes, clip and morph dictionaries, materials, decoded
// textures, bounding volume, and memory estimate.
func (p *Pipeline) buildModel(doc *avm.Document, id, source string, log *zap.Logger) (*model.AnimatedModel, error) {
	root, err := buildSceneGraph(doc.Nodes)
	if err != nil {
		return nil, newValidationError(err.Error())
	}

	var skeleton *model.Skeleton
	if len(doc.Bones) > 0 {
		bones := make([]*model.Bone, len(doc.Bones))
		for i := range doc.Bones {
			b := &doc.Bones[i]
			bone := &model.Bone{
				Name:         b.Name,
				Parent:       int(b.ParentIndex),
				BindPosition: vec3(b.Position),
				BindRotation: quat(b.Rotation),
				BindScale:    vec3(b.Scale),
			}
			bone.ResetToBind()
			bones[i] = bone
		}
		skeleton, err = model.NewSkeleton(bones)
		if err != nil {
			return nil, newValidationError(fmt.Sprintf("invalid skeleton: %v", err))
		}
	}

	meshes := make([]*model.Mesh, len(doc.Meshes))
	for i := range doc.Meshes {
		src := &doc.Meshes[i]
		positions := make([]mathx.Vec3, len(src.Positions))
		for j, pos := range src.Positions {
			positions[j] = vec3(pos)
		}
		indices := make([]uint32, len(src.Indices))
		copy(indices, src.Indices)
		meshes[i] = &model.Mesh{
			Name:          src.Name,
			Positions:     positions,
			Indices:       indices,
			MaterialIndex: int(src.MaterialIndex),
		}
	}

	clips := make(map[string]*model.Clip, len(doc.Clips))
	for i := range doc.Clips {
		clips[doc.Clips[i].Name] = buildClip(&doc.Clips[i])
	}

	materials := make([]*model.Material, len(doc.Materials))
	for i := range doc.Materials {
		src := &doc.Materials[i]
		mat := &model.Material{
			Name:        src.Name,
			DoubleSided: src.DoubleSided,
			Complexity:  int(src.Complexity),
		}
		if idx := int(src.TextureIndex); idx >= 0 && idx < len(doc.Textures) {
			mat.TextureName = doc.Textures[idx].Name
		}
		materials[i] = mat
	}

	textures := make(map[string]*model.Texture, len(doc.Textures))
	for i := range doc.Textures {
		tex, err := decodeTexture(&doc.Textures[i])
		if err != nil {
			// A broken texture degrades the surface, not the load.
			log.Warn("texture decode failed", zap.Error(err))
			continue
		}
		textures[tex.Name] = tex
	}

	m := &model.AnimatedModel{
		ID:        id,
		Source:    source,
		Root:      root,
		Skeleton:  skeleton,
		Meshes:    meshes,
		Clips:     clips,
		Morphs:    model.NewMorphSet(doc.Morphs),
		Materials: materials,
		Textures:  textures,
	}

	m.Meta = model.Metadata{
		VertexCount:   doc.VertexCount(),
		TriangleCount: doc.TriangleCount(),
		TextureCount:  len(textures),
		BoneCount:     len(doc.Bones),
		MorphCount:    len(doc.Morphs),
		MaterialCount: len(materials),
		Bounds:        computeBounds(meshes),
		MemoryBytes:   estimateMemory(m, len(doc.Bones)),
	}
	return m, nil
}

// buildSceneGraph links flat parent-indexed nodes into a tree.
func buildSceneGraph(nodes []avm.Node) (*model.Node, error) {
	if len(nodes) == 0 {
		return nil, fmt.Errorf("asset has no scene graph")
	}

	built := make([]*model.Node, len(nodes))
	for i := range nodes {
		src := &nodes[i]
		built[i] = &model.Node{
			Name:     src.Name,
			Position: vec3(src.Position),
			Rotation: quat(src.Rotation),
			Scale:    vec3(src.Scale),
		}
	}

	var root *model.Node
	for i := range nodes {
		parent := int(nodes[i].ParentIndex)
		if parent < 0 {
			if root == nil {
				root = built[i]
			}
			continue
		}
		if parent >= len(built) {
			return nil, fmt.Errorf("node %q: parent index %d out of range", nodes[i].Name, parent)
		}
		built[parent].Children = append(built[parent].Children, built[i])
	}
	if root == nil {
		return nil, fmt.Errorf("scene graph has no root node")
	}
	return root, nil
}

func buildClip(src *avm.Clip) *model.Clip {
	clip := &model.Clip{
		Name:     src.Name,
		Duration: src.Duration,
		Loop:     model.LoopMode(src.Loop),
		Tracks:   make([]model.BoneTrack, len(src.Tracks)),
	}
	for i := range src.Tracks {
		tr := &src.Tracks[i]
		track := model.BoneTrack{Bone: tr.Bone}
		for _, k := range tr.PosKeys {
			track.PosKeys = append(track.PosKeys, model.VecKey{Time: k.Time, Value: vec3(k.Position)})
		}
		for _, k := range tr.RotKeys {
			track.RotKeys = append(track.RotKeys, model.QuatKey{Time: k.Time, Value: quat(k.Rotation)})
		}
		for _, k := range tr.ScaleKeys {
			track.ScaleKeys = append(track.ScaleKeys, model.VecKey{Time: k.Time, Value: vec3(k.Scale)})
		}
		clip.Tracks[i] = track
	}
	return clip
}

// estimateMemory approximates the model's resident footprint in bytes. The
// bone count is passed in because it is estimated before Meta is populated.
func estimateMemory(m *model.AnimatedModel, boneCount int) int64 {
	var total int64 = 1024 // base structure overhead
	for _, mesh := range m.Meshes {
		total += mesh.SizeBytes()
	}
	for _, tex := range m.Textures {
		total += tex.SizeBytes()
	}
	for _, clip := range m.Clips {
		for i := range clip.Tracks {
			tr := &clip.Tracks[i]
			total += int64(len(tr.PosKeys))*16 + int64(len(tr.RotKeys))*20 + int64(len(tr.ScaleKeys))*16
		}
	}
	total += int64(boneCount) * 128
	return total
}

func vec3(v [3]float32) mathx.Vec3 {
	return mathx.Vec3{X: v[0], Y: v[1], Z: v[2]}
}

func quat(q [4]float32) mathx.Quat {
	return mathx.Quat{X: q[0], Y: q[1], Z: q[2], W: q[3]}
}
