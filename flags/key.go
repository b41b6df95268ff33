package flags

import (
	"gopkg.in/urfave/cli.v1"
)

// KeyFlags configure the key subcommands.
func KeyFlags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{
			Name:  "scheme",
			Usage: "Signature scheme (sr25519|ed25519|ecdsa)",
			Value: "sr25519",
		},
	}
}
