// SPDX-License-Identifier: EPL-2.0

package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	flags "github.com/jessevdk/go-flags"

	"github.com/ik5/sal"
)

const (
	defaultVoices     = 16
	defaultStep       = 10 * time.Millisecond
	defaultPause      = 2 * time.Second
	defaultDebugLevel = "info"
)

// duration reads "50ms" style values from both flags and TOML.
type duration time.Duration

func (d *duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = duration(v)

	return nil
}

func (d *duration) UnmarshalFlag(value string) error {
	return d.UnmarshalText([]byte(value))
}

func (d duration) String() string { return time.Duration(d).String() }

type config struct {
	ConfigFile string `short:"C" long:"config" toml:"-" description:"Path to a TOML configuration file"`

	Driver   string        `short:"d" long:"driver" toml:"driver" description:"Backend to play through (alsa, oss, oto, malgo, loopback); empty picks the first available"`
	Device   string        `long:"device" toml:"device" description:"Backend specific device name, e.g. hw:0,0 or /dev/dsp"`
	Channels int           `short:"c" long:"channels" toml:"channels" description:"Output channels (1 or 2)"`
	Bits     int           `short:"b" long:"bits" toml:"bits" description:"Bits per sample (8 or 16)"`
	Rate     int           `short:"r" long:"rate" toml:"rate" description:"Sample rate in Hz"`
	Buffer   duration      `long:"buffer" toml:"buffer" description:"Output buffer length"`
	Voices   int           `long:"voices" toml:"voices" description:"Number of simultaneous voices"`

	LogFile    string `long:"logfile" toml:"logfile" description:"Also write the log to this file, rotating it"`
	DebugLevel string `long:"debuglevel" toml:"debuglevel" description:"Logging level for all subsystems {trace, debug, info, warn, error, critical} or SUBSYS=level pairs separated by commas"`

	Record  string `long:"record" toml:"record" description:"Mix into this WAV file instead of a sound card"`
	Metrics string `long:"metrics" toml:"metrics" description:"Serve Prometheus metrics on this address"`

	Test  bool          `long:"test" toml:"test" description:"Run the panning and volume test harness over every supported format"`
	Step  duration      `long:"step" toml:"step" description:"Delay between steps of a pan or volume sweep"`
	Pause duration      `long:"pause" toml:"pause" description:"Delay between harness tests"`

	Args struct {
		Files []string `positional-arg-name:"FILE"`
	} `positional-args:"yes" toml:"-"`
}

func defaultConfig() config {
	f := sal.DefaultFormat()

	return config{
		Channels:   f.Channels,
		Bits:       f.Bits,
		Rate:       f.SampleRate,
		Buffer:     duration(sal.DefaultBufferLength),
		Voices:     defaultVoices,
		DebugLevel: defaultDebugLevel,
		Step:       duration(defaultStep),
		Pause:      duration(defaultPause),
	}
}

func (c *config) format() sal.Format {
	return sal.Format{Channels: c.Channels, Bits: c.Bits, SampleRate: c.Rate}
}

func (c *config) systemParams() *sal.SystemParams {
	return &sal.SystemParams{
		Driver:       c.Driver,
		DeviceName:   c.Device,
		BufferLength: time.Duration(c.Buffer),
	}
}

// loadConfig parses args once to find the config file, loads the file
// over the defaults and parses args again so flags win over the file.
func loadConfig(args []string) (*config, error) {
	pre := defaultConfig()
	preParser := flags.NewParser(&pre, flags.HelpFlag|flags.PassDoubleDash)
	if _, err := preParser.ParseArgs(args); err != nil {
		return nil, err
	}

	cfg := defaultConfig()
	if pre.ConfigFile != "" {
		md, err := toml.DecodeFile(pre.ConfigFile, &cfg)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", pre.ConfigFile, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return nil, fmt.Errorf("%s: unknown keys %s", pre.ConfigFile, strings.Join(keys, ", "))
		}
	}

	parser := flags.NewParser(&cfg, flags.HelpFlag|flags.PassDoubleDash)
	if _, err := parser.ParseArgs(args); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *config) validate() error {
	if c.Voices <= 0 {
		return fmt.Errorf("voices must be positive, got %d", c.Voices)
	}
	if c.Buffer <= 0 {
		return fmt.Errorf("buffer must be positive, got %v", time.Duration(c.Buffer))
	}
	if c.Record != "" && c.Test {
		return errors.New("--record and --test cannot be combined")
	}
	if !c.Test && len(c.Args.Files) == 0 {
		return errors.New("nothing to play: give files or --test")
	}

	return nil
}
