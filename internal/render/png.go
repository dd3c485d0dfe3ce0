package render

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/psidex/simgraph/internal/matrix"
)

const (
	labelPad    = 6
	glyphHeight = 13
	glyphAscent = 11
)

// PNGHeatMap defines a MatrixRenderer that draws the heat-map straight to a PNG file,
// annotating every cell with its value.
type PNGHeatMap struct {
	Title    string
	Palette  Palette
	CellSize int
}

var _ MatrixRenderer = PNGHeatMap{}

func (p PNGHeatMap) RenderToFile(_ context.Context, t matrix.Triple, filename string) error {
	img, err := p.Draw(t)
	if err != nil {
		return err
	}
	return imaging.Save(img, filename+".png")
}

// Draw lays out the labelled heat-map of t.
func (p PNGHeatMap) Draw(t matrix.Triple) (*image.NRGBA, error) {
	if len(t.Rows) == 0 || len(t.Cols) == 0 {
		return nil, errors.New("nothing to draw: matrix is empty")
	}
	cs := p.CellSize

	rowLabelW := 0
	for _, row := range t.Rows {
		rowLabelW = max(rowLabelW, textWidth(row))
	}
	colLabelH := 0
	for _, col := range t.Cols {
		colLabelH = max(colLabelH, textWidth(col))
	}
	rowLabelW += 2 * labelPad
	colLabelH += 2 * labelPad
	titleH := 0
	if p.Title != "" {
		titleH = glyphHeight + 2*labelPad
	}

	// One pixel per cell, then scaled up so cells stay sharp.
	cells := image.NewNRGBA(image.Rect(0, 0, len(t.Cols), len(t.Rows)))
	for i := range t.Rows {
		for j := range t.Cols {
			cells.Set(j, i, p.Palette.At(t.Values[i][j]))
		}
	}
	grid := imaging.Resize(cells, len(t.Cols)*cs, len(t.Rows)*cs, imaging.NearestNeighbor)

	originX, originY := rowLabelW, titleH+colLabelH
	canvas := imaging.New(originX+grid.Bounds().Dx()+labelPad, originY+grid.Bounds().Dy()+labelPad, color.White)
	canvas = imaging.Paste(canvas, grid, image.Pt(originX, originY))

	if p.Title != "" {
		drawText(canvas, labelPad, labelPad+glyphAscent, p.Title, color.Black)
	}
	for i, row := range t.Rows {
		drawText(canvas, labelPad, originY+i*cs+(cs+glyphAscent)/2, row, color.Black)
	}
	for j, col := range t.Cols {
		label := imaging.New(textWidth(col), glyphHeight, color.Transparent)
		drawText(label, 0, glyphAscent, col, color.Black)
		rotated := imaging.Rotate90(label)
		x := originX + j*cs + (cs-glyphHeight)/2
		y := originY - labelPad - rotated.Bounds().Dy()
		canvas = imaging.Overlay(canvas, rotated, image.Pt(x, y), 1)
	}

	for i := range t.Rows {
		for j := range t.Cols {
			value := fmt.Sprintf("%.2f", t.Values[i][j])
			w := textWidth(value)
			if w > cs {
				continue
			}
			var ink color.Color = color.Black
			if Dark(p.Palette.At(t.Values[i][j])) {
				ink = color.White
			}
			drawText(canvas, originX+j*cs+(cs-w)/2, originY+i*cs+(cs+glyphAscent)/2, value, ink)
		}
	}

	return canvas, nil
}

func textWidth(s string) int {
	return font.MeasureString(basicfont.Face7x13, s).Ceil()
}

// drawText draws text with its baseline at y.
func drawText(img *image.NRGBA, x, y int, text string, col color.Color) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(text)
}
