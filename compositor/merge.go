package compositor

import (
	"golang.org/x/sync/errgroup"

	"github.com/e7canasta/peppermint/framedecoder"
)

// mergeBatchRows is the number of rows one merge goroutine handles.
// Regions with fewer rows are merged on the calling goroutine.
const mergeBatchRows = 32

// opaque is the only overlay alpha value that reaches the canvas.
const opaque = 255

// merge returns a copy of base with every fully opaque overlay pixel's
// B,G,R written at its place in the rect. Canvas alpha is never touched.
//
// Rows are independent, so batches of rows run concurrently, at most
// workers at a time.
func merge(base []byte, canvasWidth int, overlay framedecoder.RawFrame, rect Metadata, workers int) []byte {
	out := make([]byte, len(base))
	copy(out, base)

	rows := min(rect.Height, overlay.Height)
	cols := min(rect.Width, overlay.Width)
	if rows <= 0 || cols <= 0 {
		return out
	}

	mergeRows := func(from, to int) {
		for h := from; h < to; h++ {
			row := h + rect.Top
			for w := 0; w < cols; w++ {
				col := w + rect.Left
				over := (h*overlay.Width + w) * framedecoder.BytesPerPixel
				under := (row*canvasWidth + col) * framedecoder.BytesPerPixel

				if overlay.Pix[over+3] != opaque {
					continue
				}
				out[under] = overlay.Pix[over]
				out[under+1] = overlay.Pix[over+1]
				out[under+2] = overlay.Pix[over+2]
			}
		}
	}

	if rows <= mergeBatchRows || workers <= 1 {
		mergeRows(0, rows)
		return out
	}

	var g errgroup.Group
	g.SetLimit(workers)
	for from := 0; from < rows; from += mergeBatchRows {
		from, to := from, min(from+mergeBatchRows, rows)
		g.Go(func() error {
			mergeRows(from, to)
			return nil
		})
	}
	_ = g.Wait() // batches never fail

	return out
}
