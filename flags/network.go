package flags

import (
	"gopkg.in/urfave/cli.v1"
)

// RuntimeEnvVar names the environment variable that locates the runtime wasm.
const RuntimeEnvVar = "DEBIO_RUNTIME_WASM"

// ChainFlags select the network and the artifacts of build-spec.
func ChainFlags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{
			Name:  "chain",
			Usage: "Network to build (dev|development|local|local-testnet|custom)",
			Value: "dev",
		},
		cli.StringFlag{
			Name:   "runtime",
			Usage:  "Path to the compiled runtime wasm (raw or compressed blob)",
			EnvVar: RuntimeEnvVar,
		},
		cli.StringFlag{
			Name:  "output",
			Usage: "Write the chain specification to this file instead of stdout",
		},
		cli.Int64Flag{
			Name:  "nominator-seed",
			Usage: "Seed the nomination sampler for a reproducible staker list",
		},
		cli.StringFlag{
			Name:  "nominators",
			Usage: "Comma-separated extra nominators (//Seed, hex or SS58)",
		},
	}
}
