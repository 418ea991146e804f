package loader

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/draw"

	"github.com/lumina3d/avatarcore/internal/engine/model"
	"github.com/lumina3d/avatarcore/pkg/avm"
)

// maxTextureDim is the largest texture edge kept as-is; anything bigger is
// downscaled during the optimizing stage.
const maxTextureDim = 2048

// decodeTexture decodes an embedded texture blob into a runtime texture.
func decodeTexture(t *avm.Texture) (*model.Texture, error) {
	var (
		img image.Image
		err error
	)
	switch t.Format {
	case avm.TexturePNG:
		img, err = png.Decode(bytes.NewReader(t.Data))
	case avm.TextureTGA:
		img, err = tga.Decode(bytes.NewReader(t.Data))
	default:
		err = fmt.Errorf("unknown texture format %d", t.Format)
	}
	if err != nil {
		return nil, fmt.Errorf("decoding texture %q: %w", t.Name, err)
	}

	b := img.Bounds()
	return &model.Texture{
		Name:   t.Name,
		Image:  img,
		Width:  b.Dx(),
		Height: b.Dy(),
	}, nil
}

// downscaleTexture resizes a texture so its largest edge is at most
// maxTextureDim, preserving aspect ratio. Returns false if no resize was
// needed.
func downscaleTexture(t *model.Texture) bool {
	if t.Width <= maxTextureDim && t.Height <= maxTextureDim {
		return false
	}

	scale := float64(maxTextureDim) / float64(max(t.Width, t.Height))
	w := int(float64(t.Width) * scale)
	h := int(float64(t.Height) * scale)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.BiLinear.Scale(dst, dst.Bounds(), t.Image, t.Image.Bounds(), draw.Over, nil)

	t.Image = dst
	t.Width = w
	t.Height = h
	return true
}
