// avminspect is a CLI utility for inspecting AVM avatar model containers.
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/lumina3d/avatarcore/pkg/avm"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "info":
		cmdInfo(args)
	case "bones":
		cmdBones(args)
	case "clips":
		cmdClips(args)
	case "morphs":
		cmdMorphs(args)
	case "textures":
		cmdTextures(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`avminspect - AVM avatar model inspection utility

Usage:
  avminspect <command> [options]

Commands:
  info <file.avm>               Show model summary
  bones <file.avm>              Print the skeleton hierarchy
  clips <file.avm> [name]       List animation clips (or one clip's tracks)
  morphs <file.avm> [pattern]   List morph target names
  textures <file.avm>           List embedded textures

Examples:
  avminspect info character.avm
  avminspect clips character.avm wave
  avminspect morphs character.avm "eye*"`)
}

func open(path string) *avm.Document {
	doc, err := avm.ParseFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return doc
}

func cmdInfo(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: avminspect info <file.avm>")
		os.Exit(1)
	}

	doc := open(args[0])

	var textureBytes int
	for i := range doc.Textures {
		textureBytes += len(doc.Textures[i].Data)
	}

	fmt.Printf("Model:     %s\n", args[0])
	fmt.Printf("Version:   %s\n", doc.Version)
	fmt.Printf("Nodes:     %d\n", len(doc.Nodes))
	fmt.Printf("Bones:     %d\n", len(doc.Bones))
	fmt.Printf("Meshes:    %d (%d vertices, %d triangles)\n",
		len(doc.Meshes), doc.VertexCount(), doc.TriangleCount())
	fmt.Printf("Morphs:    %d\n", len(doc.Morphs))
	fmt.Printf("Clips:     %d\n", len(doc.Clips))
	fmt.Printf("Materials: %d\n", len(doc.Materials))
	fmt.Printf("Textures:  %d (%.2f MB embedded)\n",
		len(doc.Textures), float64(textureBytes)/(1024*1024))
}

func cmdBones(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: avminspect bones <file.avm>")
		os.Exit(1)
	}

	doc := open(args[0])
	if len(doc.Bones) == 0 {
		fmt.Fprintln(os.Stderr, "No skeleton in model")
		return
	}

	// Indent children under their parents; bones are stored
	// parent-before-child so depth is computable in one pass.
	depth := make([]int, len(doc.Bones))
	for i := range doc.Bones {
		if p := doc.Bones[i].ParentIndex; p >= 0 {
			depth[i] = depth[p] + 1
		}
	}
	for i := range doc.Bones {
		b := &doc.Bones[i]
		fmt.Printf("%s%s  (%.3f, %.3f, %.3f)\n",
			strings.Repeat("  ", depth[i]), b.Name,
			b.Position[0], b.Position[1], b.Position[2])
	}
}

func cmdClips(args []string) {
	fs := flag.NewFlagSet("clips", flag.ExitOnError)
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: avminspect clips <file.avm> [name]")
		os.Exit(1)
	}

	doc := open(fs.Arg(0))

	if fs.NArg() > 1 {
		name := fs.Arg(1)
		for i := range doc.Clips {
			if doc.Clips[i].Name == name {
				printClip(&doc.Clips[i])
				return
			}
		}
		fmt.Fprintf(os.Stderr, "Clip not found: %s\n", name)
		os.Exit(1)
	}

	for i := range doc.Clips {
		c := &doc.Clips[i]
		fmt.Printf("%-24s %6.2fs  %-8s  %d tracks\n",
			c.Name, c.Duration, c.Loop, len(c.Tracks))
	}
}

func printClip(c *avm.Clip) {
	fmt.Printf("Clip:     %s\n", c.Name)
	fmt.Printf("Duration: %.2fs\n", c.Duration)
	fmt.Printf("Loop:     %s\n", c.Loop)
	fmt.Printf("Tracks:   %d\n", len(c.Tracks))
	for i := range c.Tracks {
		tr := &c.Tracks[i]
		fmt.Printf("  %-24s pos:%-4d rot:%-4d scale:%d\n",
			tr.Bone, len(tr.PosKeys), len(tr.RotKeys), len(tr.ScaleKeys))
	}
}

func cmdMorphs(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: avminspect morphs <file.avm> [pattern]")
		os.Exit(1)
	}

	doc := open(args[0])
	names := make([]string, len(doc.Morphs))
	copy(names, doc.Morphs)
	sort.Strings(names)

	pattern := ""
	if len(args) > 1 {
		pattern = strings.ToLower(args[1])
	}

	count := 0
	for _, name := range names {
		if pattern != "" && !strings.Contains(strings.ToLower(name), strings.Trim(pattern, "*")) {
			continue
		}
		fmt.Println(name)
		count++
	}
	if pattern != "" {
		fmt.Fprintf(os.Stderr, "\n(%d morphs matched)\n", count)
	}
}

func cmdTextures(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: avminspect textures <file.avm>")
		os.Exit(1)
	}

	doc := open(args[0])
	for i := range doc.Textures {
		t := &doc.Textures[i]
		fmt.Printf("%-32s %-4s %8d bytes\n", t.Name, t.Format, len(t.Data))
	}
}
