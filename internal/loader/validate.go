package loader

import (
	"fmt"

	"github.com/lumina3d/avatarcore/pkg/avm"
)

// Soft-issue thresholds. Exceeding them produces warnings, never failures.
const (
	warnTriangleCount = 100_000
	warnMaterialCount = 16
	warnTextureBytes  = 4 * 1024 * 1024
	warnComplexity    = 8
)

// Requirements declares what a caller's feature set needs from an asset.
// Anything listed here missing from the asset is a hard validation failure.
type Requirements struct {
	RequireSkeleton bool
	RequiredBones   []string
	RequireMorphs   bool
	RequiredMorphs  []string
}

// validate runs structural checks against a parsed document. Hard failures
// return a validation LoadError; soft issues come back as warnings.
func validate(doc *avm.Document, req Requirements) ([]string, error) {
	if len(doc.Nodes) == 0 {
		return nil, newValidationError("asset has no scene graph")
	}

	if req.RequireSkeleton {
		if len(doc.Bones) == 0 {
			return nil, newValidationError("skeletal animation required but asset has no bones")
		}
		have := make(map[string]bool, len(doc.Bones))
		for i := range doc.Bones {
			have[doc.Bones[i].Name] = true
		}
		for _, name := range req.RequiredBones {
			if !have[name] {
				return nil, newValidationError(fmt.Sprintf("required bone %q missing", name))
			}
		}
	}

	if req.RequireMorphs {
		if len(doc.Morphs) == 0 {
			return nil, newValidationError("morph targets required but asset has none")
		}
		have := make(map[string]bool, len(doc.Morphs))
		for _, name := range doc.Morphs {
			have[name] = true
		}
		for _, name := range req.RequiredMorphs {
			if !have[name] {
				return nil, newValidationError(fmt.Sprintf("required morph target %q missing", name))
			}
		}
	}

	var warnings []string
	if tris := doc.TriangleCount(); tris > warnTriangleCount {
		warnings = append(warnings, fmt.Sprintf("high polygon count: %d triangles", tris))
	}
	if len(doc.Materials) > warnMaterialCount {
		warnings = append(warnings, fmt.Sprintf("many materials: %d", len(doc.Materials)))
	}
	for i := range doc.Materials {
		if int(doc.Materials[i].Complexity) > warnComplexity {
			warnings = append(warnings, fmt.Sprintf("material %q has complex shading (%d)", doc.Materials[i].Name, doc.Materials[i].Complexity))
		}
	}
	for i := range doc.Textures {
		if len(doc.Textures[i].Data) > warnTextureBytes {
			warnings = append(warnings, fmt.Sprintf("oversized texture %q: %d bytes", doc.Textures[i].Name, len(doc.Textures[i].Data)))
		}
	}
	return warnings, nil
}
