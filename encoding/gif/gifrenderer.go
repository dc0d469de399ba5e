package gif

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"io"
	"math"

	"github.com/golang/freetype/truetype"
	"github.com/gorgonia/rbm"
	"github.com/pkg/errors"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/math/fixed"
	"gorgonia.org/tensor/native"
)

var regular *truetype.Font

const (
	dpi        = 72.0
	fontsize   = 12.0
	lineheight = 1.2
)

func init() {
	var err error
	if regular, err = truetype.Parse(gomono.TTF); err != nil {
		panic(err)
	}
}

// globPalette is 256 greys, dark for negative weights and light for positive ones.
var globPalette = func() color.Palette {
	p := make(color.Palette, 256)
	for i := range p {
		p[i] = color.Gray{uint8(i)}
	}
	return p
}()

// Encoder draws the weight matrix of every snapshot as a frame of an animated GIF.
// Each hidden unit is a row of cells, each visible unit a column.
type Encoder struct {
	H, W int
	font.Drawer
	io.Writer

	out  *gif.GIF
	face font.Face

	Cell  int // side of a cell in pixels
	Delay int // delay per frame, in 100ths of a second

	padH, padW  int
	initialized bool
}

// NewGifEncoder creates an Encoder that writes into w when flushed.
func NewGifEncoder(w io.Writer, cell int) *Encoder {
	if cell < 1 {
		cell = 1
	}
	return &Encoder{
		H:      -1,
		W:      -1,
		Writer: w,
		Cell:   cell,
		Delay:  50,
		padH:   4,
		padW:   4,

		Drawer: font.Drawer{
			Src: image.White,
		},
		out: &gif.GIF{LoopCount: 0},
	}
}

// Frames returns the number of frames encoded so far.
func (enc *Encoder) Frames() int { return len(enc.out.Image) }

// Encode a snapshot
func (enc *Encoder) Encode(s rbm.Snapshot) error {
	rows, err := native.MatrixF32(s.Weights())
	if err != nil {
		return errors.Wrapf(err, "Unable to view weights of %s", s.Name())
	}
	if len(rows) == 0 {
		return errors.Errorf("%s has no weights to draw", s.Name())
	}
	outputs, inputs := len(rows), len(rows[0])
	dy := int(math.Ceil(fontsize * lineheight * dpi / 72))

	if !enc.initialized {
		// lazy init of specifications
		enc.face = truetype.NewFace(regular, &truetype.Options{
			Size:    fontsize,
			DPI:     dpi,
			Hinting: font.HintingFull,
		})
		enc.Drawer.Face = enc.face
		caption := font.MeasureString(enc.face, caption(s)+"00").Ceil()
		enc.W = maxInt(inputs*enc.Cell, caption) + 2*enc.padW
		enc.H = outputs*enc.Cell + dy + 3*enc.padH
		enc.initialized = true
	}

	im := image.NewPaletted(image.Rect(0, 0, enc.W, enc.H), globPalette)
	draw.Draw(im, im.Bounds(), image.Black, image.Point{}, draw.Src)

	lo, hi := bounds(rows)
	top := dy + 2*enc.padH
	for i, row := range rows {
		for j, wij := range row {
			grey := color.Gray{shade(wij, lo, hi)}
			cell := image.Rect(enc.padW+j*enc.Cell, top+i*enc.Cell, enc.padW+(j+1)*enc.Cell, top+(i+1)*enc.Cell)
			draw.Draw(im, cell, &image.Uniform{grey}, image.Point{}, draw.Src)
		}
	}

	enc.Dst = im
	enc.Dot = fixed.P(enc.padW, enc.padH+dy)
	enc.DrawString(caption(s))

	enc.out.Image = append(enc.out.Image, im)
	enc.out.Delay = append(enc.out.Delay, enc.Delay)
	return nil
}

// Flush writes the gif into the writer
func (enc *Encoder) Flush() error {
	if len(enc.out.Image) == 0 {
		return nil
	}
	return errors.WithStack(gif.EncodeAll(enc.Writer, enc.out))
}

func caption(s rbm.Snapshot) string { return fmt.Sprintf("%s, Epoch %d", s.Name(), s.Epoch()) }

// shade maps w into [0, 255], with 0 at the midpoint when the range straddles it.
func shade(w, lo, hi float32) uint8 {
	m := hi
	if -lo > m {
		m = -lo
	}
	if m == 0 {
		return 128
	}
	v := 127.5 + 127.5*w/m
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	}
	return uint8(v)
}

func bounds(rows [][]float32) (lo, hi float32) {
	lo, hi = rows[0][0], rows[0][0]
	for _, row := range rows {
		for _, v := range row {
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
	}
	return
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
