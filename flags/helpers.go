package flags

import (
	"os"

	cli "gopkg.in/urfave/cli.v1"
)

// NewApp creates an app with the debio defaults. Commands are attached by
// the launcher.
func NewApp(version string) *cli.App {
	app := cli.NewApp()
	app.Name = "debio"
	app.Usage = "DeBio chain specification builder"
	app.Version = version
	app.Writer = os.Stdout
	app.ErrWriter = os.Stderr
	return app
}
