package config

import "strings"

func (c *Config) normalize() error {
	var err error
	if c.Paths.WorkspaceDir, err = expandPath(strings.TrimSpace(c.Paths.WorkspaceDir)); err != nil {
		return err
	}
	if c.Paths.OutputDir, err = expandPath(strings.TrimSpace(c.Paths.OutputDir)); err != nil {
		return err
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return err
	}
	if c.Subtitle.FontFile != "" {
		if c.Subtitle.FontFile, err = expandPath(strings.TrimSpace(c.Subtitle.FontFile)); err != nil {
			return err
		}
	}

	c.Composer.Transition = strings.ToLower(strings.TrimSpace(c.Composer.Transition))
	c.Composer.Resolution = strings.ToLower(strings.TrimSpace(c.Composer.Resolution))
	c.Subtitle.Format = strings.ToLower(strings.TrimSpace(c.Subtitle.Format))
	c.Subtitle.Language = strings.TrimSpace(c.Subtitle.Language)
	c.FFmpeg.Binary = strings.TrimSpace(c.FFmpeg.Binary)
	c.FFmpeg.FFprobeBinary = strings.TrimSpace(c.FFmpeg.FFprobeBinary)
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)

	if c.Composer.Transition == "" {
		c.Composer.Transition = defaultTransition
	}
	if c.Subtitle.Format == "" {
		c.Subtitle.Format = defaultSubtitleFormat
	}
	if c.FFmpeg.Binary == "" {
		c.FFmpeg.Binary = defaultFFmpegBinary
	}
	if c.FFmpeg.FFprobeBinary == "" {
		c.FFmpeg.FFprobeBinary = defaultFFprobeBinary
	}
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNtfyTimeout
	}
	return nil
}

// MaxCharsPerLine returns the configured caption line width, or an
// orientation-derived default when unset.
func (c *Config) MaxCharsPerLine() int {
	if c.Subtitle.MaxCharsPerLine > 0 {
		return c.Subtitle.MaxCharsPerLine
	}
	if c.Composer.Portrait {
		return 18
	}
	return 28
}
