package transcode

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	xdraw "golang.org/x/image/draw"

	"github.com/savishkar/mediakit/profile"
)

// FitPlan describes how a source image maps onto the requested target box.
// Scaled is the resample size; Canvas is the final output size after any
// crop (cover) or letterbox (contain).
type FitPlan struct {
	ScaledW, ScaledH int
	CanvasW, CanvasH int
}

// PlanFit computes the output geometry for the given fit mode.  Upscaling is
// disabled: when the requested target exceeds the source on the governing
// axis the native size is kept.
func PlanFit(srcW, srcH, targetW, targetH int, fit profile.FitMode) FitPlan {
	native := FitPlan{ScaledW: srcW, ScaledH: srcH, CanvasW: srcW, CanvasH: srcH}
	if srcW <= 0 || srcH <= 0 || (targetW <= 0 && targetH <= 0) {
		return native
	}

	rw, rh := math.Inf(1), math.Inf(1)
	if targetW > 0 {
		rw = float64(targetW) / float64(srcW)
	}
	if targetH > 0 {
		rh = float64(targetH) / float64(srcH)
	}

	// Single-axis targets behave the same for every mode.
	if targetW <= 0 || targetH <= 0 {
		return scalePlan(srcW, srcH, math.Min(math.Min(rw, rh), 1))
	}

	switch fit {
	case profile.FitFill:
		w, h := min(targetW, srcW), min(targetH, srcH)
		return FitPlan{ScaledW: w, ScaledH: h, CanvasW: w, CanvasH: h}
	case profile.FitOutside:
		return scalePlan(srcW, srcH, math.Min(math.Max(rw, rh), 1))
	case profile.FitCover:
		r := math.Max(rw, rh)
		if r >= 1 {
			return native
		}
		p := scalePlan(srcW, srcH, r)
		p.CanvasW = min(targetW, p.ScaledW)
		p.CanvasH = min(targetH, p.ScaledH)
		return p
	case profile.FitContain:
		r := math.Min(rw, rh)
		if r >= 1 {
			return native
		}
		p := scalePlan(srcW, srcH, r)
		p.CanvasW = targetW
		p.CanvasH = targetH
		return p
	default: // FitInside
		return scalePlan(srcW, srcH, math.Min(math.Min(rw, rh), 1))
	}
}

func scalePlan(srcW, srcH int, r float64) FitPlan {
	w := int(math.Round(float64(srcW) * r))
	h := int(math.Round(float64(srcH) * r))
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return FitPlan{ScaledW: w, ScaledH: h, CanvasW: w, CanvasH: h}
}

// resizeFit applies the profile's target box and fit mode to src.
// Resampling uses Catmull-Rom, the slowest and highest-quality kernel
// available; encode/resample effort is a fixed trade-off, not per call.
func resizeFit(src image.Image, prof profile.ConversionProfile) image.Image {
	b := src.Bounds()
	plan := PlanFit(b.Dx(), b.Dy(), prof.Width, prof.Height, prof.Fit)

	out := src
	if plan.ScaledW != b.Dx() || plan.ScaledH != b.Dy() {
		out = scale(src, plan.ScaledW, plan.ScaledH)
	}
	switch {
	case plan.CanvasW < plan.ScaledW || plan.CanvasH < plan.ScaledH:
		out = centerCrop(out, plan.CanvasW, plan.CanvasH)
	case plan.CanvasW > plan.ScaledW || plan.CanvasH > plan.ScaledH:
		out = letterbox(out, plan.CanvasW, plan.CanvasH)
	}
	return out
}

func scale(src image.Image, w, h int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Over, nil)
	return dst
}

func centerCrop(src image.Image, w, h int) image.Image {
	b := src.Bounds()
	ox := b.Min.X + (b.Dx()-w)/2
	oy := b.Min.Y + (b.Dy()-h)/2
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), src, image.Point{X: ox, Y: oy}, draw.Src)
	return dst
}

// letterbox centres src on a white canvas of the given size.
func letterbox(src image.Image, w, h int) image.Image {
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	offset := image.Point{X: (w - b.Dx()) / 2, Y: (h - b.Dy()) / 2}
	draw.Draw(dst, b.Sub(b.Min).Add(offset), src, b.Min, draw.Over)
	return dst
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
