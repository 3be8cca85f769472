// Package app turns command-line flags, a config file and the environment
// into a run of the band workers.
package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"bandlife/internal/core"
	"bandlife/internal/gather"
	"bandlife/internal/halo"
	"bandlife/internal/seed"
	"bandlife/internal/worker"
)

// EnvPrefix prefixes environment overrides, e.g. BANDLIFE_WORKERS=8.
const EnvPrefix = "BANDLIFE"

// Config represents the command-line parameters for the application.
type Config struct {
	Workers   int
	Side      int
	Seed      string
	SeedFile  string
	Density   float64
	RandSeed  int64
	Transport string
	Exchange  string
	Host      string
	Rank      int
	Peers     string
	LogLevel  string

	Scale int
	FPS   int
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Workers:   4,
		Side:      16,
		Seed:      "glider",
		Density:   0.3,
		RandSeed:  42,
		Transport: "local",
		Exchange:  "parity",
		Host:      "127.0.0.1",
		LogLevel:  "warn",
		Scale:     16,
		FPS:       8,
	}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.IntVar(&c.Workers, "workers", c.Workers, "number of band workers")
	fs.IntVar(&c.Side, "side", c.Side, "grid side length (must be divisible by workers)")
	fs.StringVar(&c.Seed, "seed", c.Seed, "initial pattern: "+strings.Join(seed.Names(), ", "))
	fs.StringVar(&c.SeedFile, "seed-file", c.SeedFile, "YAML seed file (overrides -seed and -side)")
	fs.Float64Var(&c.Density, "density", c.Density, "live cell density for the random pattern")
	fs.Int64Var(&c.RandSeed, "rand-seed", c.RandSeed, "RNG seed for the random pattern")
	fs.StringVar(&c.Transport, "transport", c.Transport, "message transport: local or rpc")
	fs.StringVar(&c.Exchange, "exchange", c.Exchange, "ghost exchange ordering: parity or async")
	fs.StringVar(&c.Host, "host", c.Host, "listen host for the rpc transport")
	fs.IntVar(&c.Rank, "rank", c.Rank, "rank served by this process when -peers is set")
	fs.StringVar(&c.Peers, "peers", c.Peers, "comma-separated host:port of every rank; runs one rank per process")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level (debug, info, warn, error)")
}

// BindView attaches the viewer-only settings.
func (c *Config) BindView(fs *flag.FlagSet) {
	fs.IntVar(&c.Scale, "scale", c.Scale, "pixel scale multiplier")
	fs.IntVar(&c.FPS, "fps", c.FPS, "generations shown per second")
}

// Resolve fills c from v, which is expected to have the command-line flags
// bound, so flags win over the config file and the environment.
func (c *Config) Resolve(v *viper.Viper) {
	c.Workers = v.GetInt("workers")
	c.Side = v.GetInt("side")
	c.Seed = v.GetString("seed")
	c.SeedFile = v.GetString("seed-file")
	c.Density = v.GetFloat64("density")
	c.RandSeed = v.GetInt64("rand-seed")
	c.Transport = v.GetString("transport")
	c.Exchange = v.GetString("exchange")
	c.Host = v.GetString("host")
	c.Rank = v.GetInt("rank")
	c.Peers = v.GetString("peers")
	c.LogLevel = v.GetString("log-level")
}

// BindFlagSet makes v aware of a parsed standard FlagSet: flags set on the
// command line override every other source, the remaining flag values become
// defaults.
func BindFlagSet(v *viper.Viper, fs *flag.FlagSet) {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	fs.VisitAll(func(f *flag.Flag) {
		if set[f.Name] {
			v.Set(f.Name, f.Value.String())
			return
		}
		v.SetDefault(f.Name, f.Value.String())
	})
}

// NewViper returns a viper instance reading BANDLIFE_* variables and, when
// path is set, the given YAML config file.
func NewViper(path string) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if path == "" {
		return v, nil
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, &UsageError{Msg: fmt.Sprintf("reading config %s: %v", path, err)}
	}
	return v, nil
}

// NewLogger builds the run logger. Logs go to w so stdout stays reserved for
// the grid dump.
func NewLogger(level string, w io.Writer) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, &UsageError{Msg: err.Error()}
	}
	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(lvl)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	return l, nil
}

// SeedGrid builds the generation-zero grid. A seed file also fixes the grid
// side.
func (c *Config) SeedGrid() (*core.Grid, error) {
	if c.SeedFile != "" {
		g, err := seed.LoadFile(c.SeedFile)
		if err != nil {
			return nil, err
		}
		c.Side = g.Side
		return g, nil
	}
	return seed.Build(seed.Options{Pattern: c.Seed, Side: c.Side, Density: c.Density, RandSeed: c.RandSeed})
}

// PeerList splits -peers into one address per rank.
func (c *Config) PeerList() []string {
	var out []string
	for _, p := range strings.Split(c.Peers, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Options assembles the worker options for iterations generations. A peer
// list fixes the worker count.
func (c *Config) Options(iterations int, reporter gather.Reporter, log logrus.FieldLogger) (worker.Options, error) {
	strategy, err := halo.ParseStrategy(c.Exchange)
	if err != nil {
		return worker.Options{}, &UsageError{Msg: err.Error()}
	}
	g, err := c.SeedGrid()
	if err != nil {
		return worker.Options{}, err
	}
	if peers := c.PeerList(); len(peers) > 0 {
		c.Workers = len(peers)
	}
	return worker.Options{
		Side:       c.Side,
		Workers:    c.Workers,
		Iterations: iterations,
		Strategy:   strategy,
		Seed:       g,
		Reporter:   reporter,
		Logger:     log,
	}, nil
}

// ErrUnknownTransport is returned for a -transport value other than local
// or rpc.
var ErrUnknownTransport = errors.New("unknown transport")

// Execute runs opts over the configured transport. With a peer list this
// process runs only its own rank over TCP.
func (c *Config) Execute(ctx context.Context, opts worker.Options) error {
	if peers := c.PeerList(); len(peers) > 0 {
		return worker.RunPeer(ctx, opts, c.Rank, peers)
	}
	switch strings.ToLower(c.Transport) {
	case "", "local":
		return worker.RunLocal(ctx, opts)
	case "rpc":
		return worker.RunRPC(ctx, opts, c.Host)
	}
	return &UsageError{Msg: fmt.Sprintf("%v %q (want local or rpc)", ErrUnknownTransport, c.Transport)}
}
