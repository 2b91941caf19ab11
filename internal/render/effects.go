package render

import (
	"fmt"
	"hash/fnv"

	"slidecast/internal/filtergraph"
)

// Effect is a Ken-Burns motion applied to a still image.
type Effect int

const (
	EffectZoomIn Effect = iota
	EffectZoomOut
	EffectPanLeft
	EffectPanRight
	EffectPanUp
	EffectPanDown
	effectCount
)

func (e Effect) String() string {
	switch e {
	case EffectZoomIn:
		return "zoom-in"
	case EffectZoomOut:
		return "zoom-out"
	case EffectPanLeft:
		return "pan-left"
	case EffectPanRight:
		return "pan-right"
	case EffectPanUp:
		return "pan-up"
	case EffectPanDown:
		return "pan-down"
	default:
		return "none"
	}
}

// maxEffectIntensity bounds the configured intensity so the crop window
// never travels outside the source frame.
const maxEffectIntensity = 0.08

// effectFor picks the motion effect for a scene. The choice depends only
// on the segment and scene positions, so re-rendering a manifest yields
// identical motion.
func effectFor(segmentIndex, sceneIndex int) Effect {
	h := fnv.New32a()
	fmt.Fprintf(h, "%d:%d", segmentIndex, sceneIndex)
	return Effect(h.Sum32() % uint32(effectCount))
}

// motionStages returns the filter stages that animate a still image into a
// moving clip of totalFrames frames at the output resolution. The image is
// upscaled first so the zoompan crop samples from a dense grid instead of
// jittering across source pixels.
func motionStages(effect Effect, intensity float64, totalFrames, width, height, fps int) []fmt.Stringer {
	if intensity > maxEffectIntensity {
		intensity = maxEffectIntensity
	}
	if intensity < 0 {
		intensity = 0
	}

	upscale := filtergraph.New("scale").
		Int("w", 8000).
		Int("h", -1)

	zp := filtergraph.New("zoompan").
		Int("d", totalFrames).
		Opt("s", fmt.Sprintf("%dx%d", width, height)).
		Int("fps", fps)

	// All expressions are linear in the output frame counter `on`, which
	// gives constant-velocity motion over the clip.
	progress := fmt.Sprintf("on/%d", totalFrames)
	centerX := "iw/2-(iw/zoom/2)"
	centerY := "ih/2-(ih/zoom/2)"
	spanX := "(iw-iw/zoom)"
	spanY := "(ih-ih/zoom)"

	switch effect {
	case EffectZoomIn:
		zp.Expr("z", fmt.Sprintf("1.0+%.4f*%s", intensity, progress)).
			Expr("x", centerX).
			Expr("y", centerY)
	case EffectZoomOut:
		zp.Expr("z", fmt.Sprintf("%.4f-%.4f*%s", 1.0+intensity, intensity, progress)).
			Expr("x", centerX).
			Expr("y", centerY)
	case EffectPanLeft:
		zp.Expr("z", fmt.Sprintf("%.4f", 1.0+intensity)).
			Expr("x", fmt.Sprintf("%s*(1-%s)", spanX, progress)).
			Expr("y", centerY)
	case EffectPanRight:
		zp.Expr("z", fmt.Sprintf("%.4f", 1.0+intensity)).
			Expr("x", fmt.Sprintf("%s*%s", spanX, progress)).
			Expr("y", centerY)
	case EffectPanUp:
		zp.Expr("z", fmt.Sprintf("%.4f", 1.0+intensity)).
			Expr("x", centerX).
			Expr("y", fmt.Sprintf("%s*(1-%s)", spanY, progress))
	case EffectPanDown:
		zp.Expr("z", fmt.Sprintf("%.4f", 1.0+intensity)).
			Expr("x", centerX).
			Expr("y", fmt.Sprintf("%s*%s", spanY, progress))
	}

	return []fmt.Stringer{upscale, zp}
}

// stillStages returns the filter stages for a motionless clip: scale the
// image to fit the output frame and pad the remainder with black.
func stillStages(width, height int) []fmt.Stringer {
	scale := filtergraph.New("scale").
		Int("w", width).
		Int("h", height).
		Opt("force_original_aspect_ratio", "decrease")
	pad := filtergraph.New("pad").
		Int("w", width).
		Int("h", height).
		Expr("x", "(ow-iw)/2").
		Expr("y", "(oh-ih)/2").
		Opt("color", "black")
	return []fmt.Stringer{scale, pad}
}
