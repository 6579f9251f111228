package logic

import (
	"math"
	"math/rand"

	"github.com/sweeney/countdown-strip/internal/color"
	"github.com/sweeney/countdown-strip/internal/settings"
)

// Renderer maps countdown state onto a pixel buffer. The buffer persists
// across ticks: drift mode perturbs the previous frame rather than drawing
// from scratch.
type Renderer struct {
	pixels []color.RGB
	rnd    *rand.Rand
}

// NewRenderer creates a Renderer for a strip of pixelCount pixels.
func NewRenderer(pixelCount int, rnd *rand.Rand) *Renderer {
	return &Renderer{
		pixels: make([]color.RGB, pixelCount),
		rnd:    rnd,
	}
}

// PixelCount returns the strip length the renderer was built for.
func (r *Renderer) PixelCount() int {
	return len(r.pixels)
}

// Render draws one frame for the given state and settings and returns the
// pixel buffer. The buffer is reused between calls; callers must not
// mutate it or retain it past the strip write.
func (r *Renderer) Render(st *State, cfg settings.Settings) []color.RGB {
	if st.Mode() == ModeCountdown {
		r.renderCountdown(st, cfg)
	} else {
		r.renderBreathing(st, cfg)
	}
	return r.pixels
}

func (r *Renderer) renderCountdown(st *State, cfg settings.Settings) {
	n := int64(len(r.pixels))
	length := st.Length

	// Flash group and eased pulse are shared by the whole frame. Group 0
	// lightens primary blocks, group 1 secondary blocks; the smoothstep
	// pulse turns the alternation into a slow breathing flash instead of a
	// hard blink.
	group := 0
	if math.Sin(st.Phase) < 0 {
		group = 1
	}
	raw := (math.Sin(st.Phase) + 1) / 2
	pulse := raw * raw * (3 - 2*raw)
	lightenFactor := 1.0 + 0.35*pulse

	blockSize := n / length

	// Reverse=false iterates elapsed days (length down to remaining);
	// Reverse=true iterates days left (remaining-1 down to 0). These are
	// genuinely different visuals, both driven by settings.
	var first, last int64
	if !cfg.Reverse {
		first, last = length, st.Remaining
	} else {
		first, last = st.Remaining-1, 0
	}

	for day := first; day >= last; day-- {
		blockMin, blockMax := blockSpan(day, length, blockSize, n, cfg.FromStart)

		for px := blockMin; px < blockMax; px++ {
			primary := day%2 == 0
			if st.Swap {
				primary = !primary
			}

			var c color.RGB
			if cfg.UseCustomColors {
				if primary {
					c = cfg.PrimaryColor
				} else {
					c = cfg.SecondaryColor
				}
			} else {
				// Drift: perturb the previous frame per channel, scaled by
				// how deep into the countdown the block sits. Red and blue
				// get independent signed deltas, green mirrors red.
				v1 := float64(length+1-day) * r.randSign()
				v2 := float64(length+1-day) * r.randSign()
				prev := r.getPixel(int(px))
				c = color.RGB{
					R: color.Clamp(float64(prev.R) + v1),
					G: color.Clamp(float64(prev.G) - v1),
					B: color.Clamp(float64(prev.B) + v2),
				}
			}

			if (group == 0) == primary {
				c = color.Lighten(c, lightenFactor)
			}
			r.setPixel(int(px), c)
		}

		// Mark the first pixel of every block outside the span just drawn.
		// Re-applied for every day index on purpose: later iterations
		// overwrite boundary pixels of blocks drawn earlier in the pass,
		// which is exactly the guide-mark look the device shipped with.
		if cfg.WithMarker {
			for block := int64(0); block < length; block++ {
				var blockStart int64
				if cfg.FromStart {
					blockStart = block * blockSize
				} else {
					blockStart = n - (block+1)*blockSize
				}
				if blockStart < blockMin || blockStart >= blockMax {
					r.setPixel(int(blockStart), cfg.MarkerColor)
				}
			}
		}
	}
}

// blockSpan returns the [min, max) pixel bounds of a day block. Day 1 is
// the edge block: it extends to the strip boundary and absorbs the
// partition's rounding remainder.
func blockSpan(day, length, blockSize, pixelCount int64, fromStart bool) (int64, int64) {
	if fromStart {
		blockMin := (length - day) * blockSize
		blockMax := pixelCount
		if day > 1 {
			blockMax = blockMin + blockSize
		}
		return blockMin, blockMax
	}
	blockMax := pixelCount - (length-day)*blockSize
	blockMin := int64(0)
	if day > 1 {
		blockMin = blockMax - blockSize
	}
	return blockMin, blockMax
}

func (r *Renderer) renderBreathing(st *State, cfg settings.Settings) {
	n := len(r.pixels)

	// Peak intensity and Gaussian spread both ride the phase, a half cycle
	// apart, so the glow swells as it narrows and fades as it widens.
	peak := 32 * (1 + 4*(math.Sin(st.Phase+math.Pi)+1))
	spread := 1 + 20*(math.Sin(st.Phase)+1)

	for i := 0; i < n; i++ {
		idx := i
		if cfg.FromStart {
			idx = n - 1 - i
		}
		dist := float64(n)/2 - float64(i)
		brightness := peak * math.Exp(-(dist*dist)/(spread*spread))
		r.setPixel(idx, color.RGB{
			R: color.Clamp(st.BaseR * brightness),
			G: color.Clamp(st.BaseG * brightness),
			B: color.Clamp(st.BaseB * brightness),
		})
	}
}

// setPixel ignores out-of-range indices. The display runs unattended and
// must never halt on a bad index.
func (r *Renderer) setPixel(i int, c color.RGB) {
	if i < 0 || i >= len(r.pixels) {
		return
	}
	r.pixels[i] = c
}

func (r *Renderer) getPixel(i int) color.RGB {
	if i < 0 || i >= len(r.pixels) {
		return color.RGB{}
	}
	return r.pixels[i]
}

func (r *Renderer) randSign() float64 {
	if r.rnd.Intn(2) == 0 {
		return -1
	}
	return 1
}
