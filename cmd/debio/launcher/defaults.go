package launcher

// Defaults bundles the baseline values the launcher uses before the config
// file and flags override them.
type Defaults struct {
	Chain   ChainDefaults
	Logging LoggingDefaults
}

// ChainDefaults selects what build-spec produces.
type ChainDefaults struct {
	Name    string //	Network preset (dev, local) or "custom" for the [Custom] config section.
	Runtime string //	Path of the compiled runtime; empty means the build fails with a missing-runtime error.
	Output  string //	Destination file; empty writes to stdout.
}

// LoggingDefaults controls log verbosity/format.
type LoggingDefaults struct {
	Verbosity int    //	Log level numeric (0=fatal, 1=error, 2=warn, 3=info, 4=debug, 5=trace).
	Format    string //	Log output format (text vs json).
	Color     bool   //	Force ANSI colors even when stderr is not a terminal.
}

// DefaultConfig returns a fully populated Defaults instance.
func DefaultConfig() Defaults {
	return Defaults{
		Chain: ChainDefaults{
			Name: "dev",
		},
		Logging: LoggingDefaults{
			Verbosity: 3,
			Format:    "text",
			Color:     false,
		},
	}
}
