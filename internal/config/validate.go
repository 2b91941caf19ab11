package config

import (
	"errors"
	"fmt"

	"slidecast/internal/language"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateComposer(); err != nil {
		return err
	}
	if err := c.validateSubtitle(); err != nil {
		return err
	}
	if err := c.validateFFmpeg(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateComposer() error {
	if c.Composer.FrameRate <= 0 {
		return errors.New("composer.frame_rate must be positive")
	}
	switch c.Composer.Transition {
	case TransitionFade, TransitionHardCut, TransitionPush, TransitionZoom:
	default:
		return fmt.Errorf("composer.transition: unsupported value %q", c.Composer.Transition)
	}
	if c.Composer.TransitionDuration < 0 {
		return errors.New("composer.transition_duration must not be negative")
	}
	if c.Composer.KenBurnsEnabled {
		if c.Composer.KenBurnsIntensity < 0.05 || c.Composer.KenBurnsIntensity > 0.3 {
			return errors.New("composer.kenburns_intensity must be between 0.05 and 0.3")
		}
	}
	if c.Composer.MinSegmentDuration <= 0 {
		return errors.New("composer.min_segment_duration must be positive")
	}
	if c.Composer.SegmentPadding < 0 {
		return errors.New("composer.segment_padding must not be negative")
	}
	if c.Composer.FallbackCharsPerSecond <= 0 {
		return errors.New("composer.fallback_chars_per_second must be positive")
	}
	switch c.Composer.Resolution {
	case "", "1080p", "720p":
	default:
		return fmt.Errorf("composer.resolution: unsupported value %q", c.Composer.Resolution)
	}
	return nil
}

func (c *Config) validateSubtitle() error {
	switch c.Subtitle.Format {
	case SubtitleFormatSRT, SubtitleFormatASS:
	default:
		return fmt.Errorf("subtitle.format: unsupported value %q", c.Subtitle.Format)
	}
	if c.Subtitle.Language != "" {
		normalized, err := language.Normalize(c.Subtitle.Language)
		if err != nil {
			return fmt.Errorf("subtitle.language: %w", err)
		}
		c.Subtitle.Language = normalized
	}
	if c.Subtitle.FontSize <= 0 {
		return errors.New("subtitle.font_size must be positive")
	}
	if c.Subtitle.MaxCharsPerLine < 0 {
		return errors.New("subtitle.max_chars_per_line must not be negative")
	}
	return nil
}

func (c *Config) validateFFmpeg() error {
	if c.FFmpeg.Binary == "" {
		return errors.New("ffmpeg.binary must be set")
	}
	if c.FFmpeg.Timeout <= 0 {
		return errors.New("ffmpeg.timeout must be positive")
	}
	if c.FFmpeg.CRF < 0 || c.FFmpeg.CRF > 51 {
		return errors.New("ffmpeg.crf must be between 0 and 51")
	}
	return nil
}
