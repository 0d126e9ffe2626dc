package beatsync

import (
	"encoding/json"
	"io"
	"os"

	"github.com/pkg/errors"
)

// Config specifies the tempo bounds and GIF defaults used by the tools.
type Config struct {
	// ReferenceBPM is the tempo report annotations are relative to.
	ReferenceBPM float64 `json:"reference_bpm"`

	// MinBPM and MaxBPM bound any tempo derived from user interaction, such
	// as tapping or doubling.
	MinBPM float64 `json:"min_bpm"`
	MaxBPM float64 `json:"max_bpm"`

	// DefaultBeats is used when the beat count of a loop cannot be
	// determined from its filename.
	DefaultBeats float64 `json:"default_beats"`

	// MinFrameDelayMS is the shortest frame delay written to a retimed GIF.
	// Most viewers treat shorter delays as 100ms.
	MinFrameDelayMS int `json:"min_frame_delay_ms"`

	// DefaultFrameMS replaces frame delays of zero when summing the length
	// of a GIF loop.
	DefaultFrameMS int `json:"default_frame_ms"`
}

// DefaultConfig returns the configuration used when none is provided.
func DefaultConfig() Config {
	return Config{
		ReferenceBPM:    ReferenceBPM,
		MinBPM:          30,
		MaxBPM:          600,
		DefaultBeats:    2,
		MinFrameDelayMS: 20,
		DefaultFrameMS:  100,
	}
}

// Validate checks the configured bounds are coherent.
func (c Config) Validate() error {
	if c.MinBPM <= 0 || c.MinBPM > c.ReferenceBPM || c.ReferenceBPM > c.MaxBPM {
		return errors.Wrapf(ErrInvalidConfig, "bpm bounds %v <= %v <= %v", c.MinBPM, c.ReferenceBPM, c.MaxBPM)
	}

	if c.DefaultBeats <= 0 {
		return errors.Wrapf(ErrInvalidConfig, "default beats %v", c.DefaultBeats)
	}

	if c.MinFrameDelayMS < 0 {
		return errors.Wrapf(ErrInvalidConfig, "min frame delay %dms", c.MinFrameDelayMS)
	}

	if c.DefaultFrameMS <= 0 {
		return errors.Wrapf(ErrInvalidConfig, "default frame ms %d", c.DefaultFrameMS)
	}

	return nil
}

// ErrInvalidConfig is returned by Config.Validate.
var ErrInvalidConfig = errors.New("invalid config")

// LoadConfig decodes a JSON config over the defaults. Fields absent from the
// document keep their default value. Unknown fields and anything following
// the config object are rejected.
func LoadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()

	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	err := dec.Decode(&cfg)
	if err == io.EOF {
		return cfg, nil
	}
	if err != nil {
		return Config{}, errors.Wrap(err, "failed to decode config")
	}

	if err := dec.Decode(&json.RawMessage{}); err != io.EOF {
		return Config{}, errors.Wrap(ErrInvalidConfig, "trailing data after config")
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// LoadConfigFile loads the config at path. A missing file yields the
// default configuration.
func LoadConfigFile(path string) (Config, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		Log.Debug("No config file, using defaults", "path", path)
		return DefaultConfig(), nil
	}
	if err != nil {
		return Config{}, errors.Wrap(err, "failed to open config")
	}
	defer f.Close()

	cfg, err := LoadConfig(f)
	if err != nil {
		return Config{}, errors.Wrapf(err, "config %s", path)
	}

	Log.Info("Loaded config", "path", path)

	return cfg, nil
}
