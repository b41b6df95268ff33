// This file maps the CLI context and the optional TOML file onto Config.

package launcher

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/urfave/cli.v1"

	"github.com/octopus-appchains/debio-node/chainspec"
)

// CustomChain selects the [Custom] section of the config file.
const CustomChain = "custom"

// Config aggregates everything the launcher needs.
type Config struct {
	Chain   ChainConfig
	Logging LoggingConfig
	Custom  chainspec.Params
}

type ChainConfig struct {
	Name          string
	Runtime       string
	Output        string
	NominatorSeed *int64
	Nominators    []string
}

type LoggingConfig struct {
	Verbosity int
	Format    string
	Color     bool
	SentryDSN string
}

func defaultConfig() Config {
	d := DefaultConfig()
	return Config{
		Chain: ChainConfig{
			Name:    d.Chain.Name,
			Runtime: d.Chain.Runtime,
			Output:  d.Chain.Output,
		},
		Logging: LoggingConfig{
			Verbosity: d.Logging.Verbosity,
			Format:    d.Logging.Format,
			Color:     d.Logging.Color,
		},
	}
}

// MakeAllConfigs merges defaults, the config file, then CLI overrides.
func MakeAllConfigs(ctx *cli.Context) (Config, error) {
	cfg := defaultConfig()

	if file := ctx.String("config"); file != "" {
		if err := loadConfigFile(file, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to load config file %s: %w", file, err)
		}
	}

	applyCLIOverrides(ctx, &cfg)
	return cfg, nil
}

// Params resolves the network parameters the config selects.
func (cfg Config) Params() (chainspec.Params, error) {
	var (
		params chainspec.Params
		err    error
	)
	if strings.EqualFold(strings.TrimSpace(cfg.Chain.Name), CustomChain) {
		params = cfg.Custom
		if params.ID == "" {
			return chainspec.Params{}, fmt.Errorf("chain %q needs a [Custom] section with an id", CustomChain)
		}
	} else if params, err = chainspec.ParamsByName(cfg.Chain.Name); err != nil {
		return chainspec.Params{}, err
	}
	params.Nominators = append(append([]string(nil), params.Nominators...), cfg.Chain.Nominators...)
	return params, nil
}

func loadConfigFile(path string, cfg *Config) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	if cfg.Chain.Runtime != "" {
		cfg.Chain.Runtime = resolvePathFrom(filepath.Dir(path), cfg.Chain.Runtime)
	}
	return nil
}

func applyCLIOverrides(ctx *cli.Context, cfg *Config) {
	if ctx.IsSet("chain") {
		cfg.Chain.Name = ctx.String("chain")
	}
	// the runtime may also come from the environment
	if rt := ctx.String("runtime"); ctx.IsSet("runtime") || rt != "" {
		cfg.Chain.Runtime = resolvePath(rt)
	}
	if ctx.IsSet("output") {
		cfg.Chain.Output = resolvePath(ctx.String("output"))
	}
	if ctx.IsSet("nominator-seed") {
		seed := ctx.Int64("nominator-seed")
		cfg.Chain.NominatorSeed = &seed
	}
	if ctx.IsSet("nominators") {
		cfg.Chain.Nominators = splitCSV(ctx.String("nominators"))
	}

	if ctx.IsSet("log.format") {
		cfg.Logging.Format = ctx.String("log.format")
	}
	if ctx.IsSet("log.verbosity") {
		cfg.Logging.Verbosity = ctx.Int("log.verbosity")
	}
	if ctx.IsSet("log.color") {
		cfg.Logging.Color = ctx.Bool("log.color")
	}
	if ctx.IsSet("sentry.dsn") {
		cfg.Logging.SentryDSN = ctx.String("sentry.dsn")
	}
}

// -----------------------------------------------------------------------------
// Helpers
// -----------------------------------------------------------------------------

func resolvePath(p string) string {
	return resolvePathFrom(GuessWorkDir(), p)
}

func resolvePathFrom(base, p string) string {
	if p == "" {
		return ""
	}
	if strings.HasPrefix(p, "~") {
		return filepath.Join(GuessHomeDir(), strings.TrimPrefix(p, "~"))
	}
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

func splitCSV(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func GuessWorkDir() string {
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}

func GuessHomeDir() string {
	if dir, err := os.UserHomeDir(); err == nil {
		return dir
	}
	return "."
}
