package simconfig

import (
	"fmt"

	"github.com/dbehnke/turbosim/pkg/trellis/presets"
)

func validate(cfg *Config) error {
	if cfg.FrameLength <= 0 {
		return fmt.Errorf("frame_length must be positive")
	}

	validTrellis := false
	for _, name := range presets.Names {
		if cfg.Trellis == name {
			validTrellis = true
			break
		}
	}
	if !validTrellis {
		return fmt.Errorf("trellis %q must be one of %v", cfg.Trellis, presets.Names)
	}

	switch cfg.Interleaver.Type {
	case "block":
		if cfg.Interleaver.Width*cfg.Interleaver.Height != cfg.FrameLength {
			return fmt.Errorf("interleaver.width*height (%d*%d) must equal frame_length (%d)",
				cfg.Interleaver.Width, cfg.Interleaver.Height, cfg.FrameLength)
		}
	case "identity":
		// no shape constraints
	default:
		return fmt.Errorf("interleaver.type must be \"block\" or \"identity\", got %q", cfg.Interleaver.Type)
	}

	if len(cfg.EbN0s) == 0 {
		return fmt.Errorf("ebn0s must contain at least one value")
	}
	if len(cfg.RepeatCount) == 0 {
		return fmt.Errorf("repeat_count must be set")
	}
	for _, rc := range cfg.RepeatCount {
		if rc <= 0 {
			return fmt.Errorf("repeat_count values must be positive")
		}
	}
	if len(cfg.RepeatCount) > 1 && len(cfg.RepeatCount) != len(cfg.EbN0s) {
		return fmt.Errorf("repeat_count must be a single value or match ebn0s length (%d), got %d values",
			len(cfg.EbN0s), len(cfg.RepeatCount))
	}
	if cfg.Iterations <= 0 {
		return fmt.Errorf("iterations must be positive")
	}
	if cfg.Workers <= 0 {
		return fmt.Errorf("workers must be positive")
	}

	if cfg.Metrics.Enabled {
		if cfg.Metrics.Port <= 0 || cfg.Metrics.Port > 65535 {
			return fmt.Errorf("metrics.port must be between 1 and 65535")
		}
	}
	if cfg.Dashboard.Enabled {
		if cfg.Dashboard.Port <= 0 || cfg.Dashboard.Port > 65535 {
			return fmt.Errorf("dashboard.port must be between 1 and 65535")
		}
	}
	if cfg.Notify.Enabled {
		if cfg.Notify.Broker == "" {
			return fmt.Errorf("notify.broker is required when notify is enabled")
		}
	}

	return nil
}
