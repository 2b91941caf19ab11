package config

// Transition types accepted by composer.transition.
const (
	TransitionFade    = "fade"
	TransitionHardCut = "hard-cut"
	TransitionPush    = "push"
	TransitionZoom    = "zoom"
)

// Subtitle sidecar formats accepted by subtitle.format.
const (
	SubtitleFormatSRT = "srt"
	SubtitleFormatASS = "ass"
)

const (
	defaultWorkspaceDir = "~/.local/share/slidecast/workspace"
	defaultOutputDir    = "~/.local/share/slidecast/output"
	defaultLogDir       = "~/.local/share/slidecast/logs"
	defaultAPIBind      = "127.0.0.1:7512"

	defaultFrameRate          = 30
	defaultTransition         = TransitionFade
	defaultTransitionDuration = 0.5
	defaultKenBurnsIntensity  = 0.15
	defaultMinSegmentDuration = 1.5
	defaultSegmentPadding     = 0.3
	defaultFallbackCPS        = 4.5

	defaultSubtitleFormat  = SubtitleFormatSRT
	defaultSubtitleLang    = "zh"
	defaultFontName        = "Noto Sans CJK SC"
	defaultFontSize        = 40
	defaultFontColor       = "FFFFFF"
	defaultMarginBottom    = 80
	defaultOnScreenSize    = 48
	defaultOnScreenMargin  = 60
	defaultFFmpegBinary    = "ffmpeg"
	defaultFFprobeBinary   = "ffprobe"
	defaultInvocationLimit = 300
	defaultPreset          = "fast"
	defaultCRF             = 23
	defaultAudioBitrate    = "128k"
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"

	defaultNtfyTimeout = 10
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			WorkspaceDir: defaultWorkspaceDir,
			OutputDir:    defaultOutputDir,
			LogDir:       defaultLogDir,
			APIBind:      defaultAPIBind,
		},
		Composer: Composer{
			FrameRate:              defaultFrameRate,
			Portrait:               true,
			Transition:             defaultTransition,
			TransitionDuration:     defaultTransitionDuration,
			KenBurnsEnabled:        true,
			KenBurnsIntensity:      defaultKenBurnsIntensity,
			MinSegmentDuration:     defaultMinSegmentDuration,
			SegmentPadding:         defaultSegmentPadding,
			FallbackCharsPerSecond: defaultFallbackCPS,
		},
		Subtitle: Subtitle{
			Enabled:        true,
			BurnIn:         true,
			Format:         defaultSubtitleFormat,
			Language:       defaultSubtitleLang,
			FontName:       defaultFontName,
			FontSize:       defaultFontSize,
			FontColor:      defaultFontColor,
			MarginBottom:   defaultMarginBottom,
			OnScreenSize:   defaultOnScreenSize,
			OnScreenMargin: defaultOnScreenMargin,
		},
		FFmpeg: FFmpeg{
			Binary:        defaultFFmpegBinary,
			FFprobeBinary: defaultFFprobeBinary,
			Timeout:       defaultInvocationLimit,
			Preset:        defaultPreset,
			CRF:           defaultCRF,
			AudioBitrate:  defaultAudioBitrate,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNtfyTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
