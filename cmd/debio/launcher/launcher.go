package launcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"text/tabwriter"

	"github.com/sirupsen/logrus"
	"gopkg.in/urfave/cli.v1"

	"github.com/octopus-appchains/debio-node/chainspec"
	"github.com/octopus-appchains/debio-node/crypto/derive"
	"github.com/octopus-appchains/debio-node/flags"
	"github.com/octopus-appchains/debio-node/genesis/staking"
	"github.com/octopus-appchains/debio-node/inter/account"
	"github.com/octopus-appchains/debio-node/inter/rolekey"
	"github.com/octopus-appchains/debio-node/runtime/wasm"
)

// Version is reported by --version.
const Version = "0.1.0"

var errMissingSURI = errors.New("missing secret URI argument")

// NewApp assembles the CLI.
func NewApp() *cli.App {
	app := flags.NewApp(Version)
	app.Commands = []cli.Command{
		{
			Name:   "build-spec",
			Usage:  "Build a chain specification",
			Flags:  append(flags.ChainFlags(), flags.CommonFlags()...),
			Action: buildSpec,
		},
		{
			Name:  "key",
			Usage: "Development key utilities",
			Subcommands: []cli.Command{
				{
					Name:      "inspect",
					Usage:     "Derive and print the public identity of a secret URI",
					ArgsUsage: "<suri>",
					Flags:     flags.KeyFlags(),
					Action:    keyInspect,
				},
			},
		},
	}
	return app
}

// Launch runs the CLI with the given process arguments.
func Launch(args []string) error {
	return NewApp().Run(args)
}

func errWriter(ctx *cli.Context) io.Writer {
	if ctx.App.ErrWriter != nil {
		return ctx.App.ErrWriter
	}
	return os.Stderr
}

func buildSpec(ctx *cli.Context) error {
	cfg, err := MakeAllConfigs(ctx)
	if err != nil {
		return err
	}
	log, err := newLogger(cfg.Logging, errWriter(ctx))
	if err != nil {
		return err
	}
	return runBuildSpec(context.Background(), cfg, log, ctx.App.Writer)
}

func runBuildSpec(ctx context.Context, cfg Config, log *logrus.Logger, stdout io.Writer) error {
	params, err := cfg.Params()
	if err != nil {
		return err
	}

	img, err := wasm.Load(ctx, cfg.Chain.Runtime)
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"path":       cfg.Chain.Runtime,
		"size":       len(img.Code),
		"compressed": img.Compressed,
		"hash":       img.Hash().Hex(),
	}).Info("Loaded runtime")

	var rnd *rand.Rand
	if cfg.Chain.NominatorSeed != nil {
		rnd = rand.New(rand.NewSource(*cfg.Chain.NominatorSeed))
	} else if len(params.Nominators) > 0 {
		log.Warn("Nomination sampling is not reproducible, set --nominator-seed to pin it")
		rnd = staking.NewEntropyRand()
	}

	spec, err := chainspec.Build(params, img.Code, chainspec.Options{Rand: rnd, Log: log})
	if err != nil {
		return err
	}
	fingerprint, err := spec.Genesis.Runtime.Fingerprint()
	if err != nil {
		return err
	}

	if cfg.Chain.Output == "" {
		err = spec.WriteJSON(stdout)
	} else {
		err = spec.WriteFile(cfg.Chain.Output)
	}
	if err != nil {
		return fmt.Errorf("write chain spec: %w", err)
	}
	log.WithFields(logrus.Fields{
		"chain":       spec.ID,
		"output":      cfg.Chain.Output,
		"fingerprint": fingerprint.Hex(),
	}).Info("Chain specification written")
	return nil
}

func keyInspect(ctx *cli.Context) error {
	suri := ctx.Args().First()
	if suri == "" {
		return errMissingSURI
	}
	scheme, err := rolekey.ParseScheme(ctx.String("scheme"))
	if err != nil {
		return err
	}
	return inspect(ctx.App.Writer, derive.Default(), scheme, suri)
}

func inspect(w io.Writer, d *derive.Deriver, scheme uint8, suri string) error {
	uri, err := derive.ParseURI(suri)
	if err != nil {
		return err
	}
	pk, err := d.Public(scheme, suri)
	if err != nil {
		return err
	}
	id, err := account.FromPublic(pk)
	if err != nil {
		return err
	}
	ss58, err := account.EncodeSS58(account.GenericPrefix, pk.Raw)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)
	fmt.Fprintf(tw, "Secret URI:\t%s\n", uri)
	fmt.Fprintf(tw, "Scheme:\t%s\n", rolekey.SchemeName(scheme))
	fmt.Fprintf(tw, "Public key (hex):\t%s\n", pk)
	fmt.Fprintf(tw, "Public key (SS58):\t%s\n", ss58)
	fmt.Fprintf(tw, "Account ID:\t%s\n", id.Hex())
	fmt.Fprintf(tw, "SS58 Address:\t%s\n", id)
	return tw.Flush()
}
