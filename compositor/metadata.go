package compositor

import (
	"time"

	"github.com/e7canasta/peppermint/framedecoder"
)

// Disposal tells how a frame's output relates to the next frame's base.
type Disposal int

const (
	// Replace restarts the next frame from the first frame
	Replace Disposal = iota
	// Combine builds the next frame on this frame's output
	Combine
	// Unsupported covers restore-to-background and restore-to-previous.
	// It behaves exactly like Replace.
	Unsupported
)

// String returns a human-readable string representation of the disposal method
func (d Disposal) String() string {
	switch d {
	case Replace:
		return "replace"
	case Combine:
		return "combine"
	default:
		return "unsupported"
	}
}

// DisposalFromCode maps a GIF disposal code (0..7) to a Disposal.
func DisposalFromCode(code uint8) Disposal {
	switch code {
	case 0:
		return Replace
	case 1:
		return Combine
	default:
		return Unsupported
	}
}

// DefaultDelay is used when a frame carries no delay at all.
const DefaultDelay = 100 * time.Millisecond

// delayUnit is the duration of one raw delay tick (GIF centiseconds).
const delayUnit = 10 * time.Millisecond

// DelayPolicy turns raw delays (centiseconds) into durations.
type DelayPolicy struct {
	// ZeroDelay replaces a raw delay of 0
	ZeroDelay uint16
	// MinDelay is the floor applied to every raw delay, after ZeroDelay
	MinDelay uint16
}

// DefaultDelayPolicy maps 0 to 100ms and floors everything else at 50ms.
var DefaultDelayPolicy = DelayPolicy{ZeroDelay: 10, MinDelay: 5}

// Resolve returns the frame delay for raw. A nil raw yields DefaultDelay.
func (p DelayPolicy) Resolve(raw *uint16) time.Duration {
	if raw == nil {
		return DefaultDelay
	}
	ticks := *raw
	if ticks == 0 {
		ticks = p.ZeroDelay
	}
	if ticks < p.MinDelay {
		ticks = p.MinDelay
	}
	return time.Duration(ticks) * delayUnit
}

// Metadata is a frame's resolved metadata: defaults applied and the region
// rect clamped inside the canvas.
type Metadata struct {
	Delay    time.Duration
	Disposal Disposal
	Width    int
	Height   int
	Left     int
	Top      int
}

// ResolveMetadata fills every absent field of raw independently:
// delay from policy, disposal Replace, rect the whole frame at (0,0).
// frameWidth and frameHeight are the raw frame's pixel size.
//
// A rect overflowing the canvas is shifted left/up until it fits; a rect
// larger than the canvas is first cut to the canvas size.
func ResolveMetadata(raw framedecoder.RawMetadata, policy DelayPolicy, frameWidth, frameHeight, canvasWidth, canvasHeight int) Metadata {
	meta := Metadata{
		Delay:    policy.Resolve(raw.Delay),
		Disposal: Replace,
		Width:    frameWidth,
		Height:   frameHeight,
	}
	if raw.Disposal != nil {
		meta.Disposal = DisposalFromCode(*raw.Disposal)
	}
	if raw.Width != nil {
		meta.Width = *raw.Width
	}
	if raw.Height != nil {
		meta.Height = *raw.Height
	}
	if raw.Left != nil {
		meta.Left = *raw.Left
	}
	if raw.Top != nil {
		meta.Top = *raw.Top
	}

	meta.Width = clamp(meta.Width, 0, canvasWidth)
	meta.Height = clamp(meta.Height, 0, canvasHeight)
	if meta.Left+meta.Width > canvasWidth {
		meta.Left = canvasWidth - meta.Width
	}
	if meta.Top+meta.Height > canvasHeight {
		meta.Top = canvasHeight - meta.Height
	}
	meta.Left = max(meta.Left, 0)
	meta.Top = max(meta.Top, 0)

	return meta
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
