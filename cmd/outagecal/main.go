package main

import (
	"github.com/alecthomas/kong"

	appLog "outagecal/internal/log"
)

var (
	version = "dev"
	cli     struct {
		Config string `help:"Path to config file." default:"./outagecal.yaml"`
		Debug  bool   `help:"Enable debug logging."`

		Serve    ServeCmd    `cmd:"" help:"Run the API server and reminder scanner."`
		Status   StatusCmd   `cmd:"" help:"Show the active session for a suburb."`
		Upcoming UpcomingCmd `cmd:"" help:"List upcoming sessions for a suburb."`
		Week     WeekCmd     `cmd:"" help:"Print the weekly layout for a suburb."`
		Sessions SessionsCmd `cmd:"" help:"List (optionally filtered) sessions for a suburb."`
		Export   ExportCmd   `cmd:"" help:"Serialize a suburb's schedule to stdout."`

		Version kong.VersionFlag `help:"Print version and exit."`
	}
)

func main() {
	cmd := kong.Parse(&cli,
		kong.Name("outagecal"),
		kong.Description("Recurring weekly outage-session schedule engine."),
		kong.Vars{"version": version},
	)
	appLog.SetDebug(cli.Debug)
	err := cmd.Run(&Globals{ConfigPath: cli.Config, Debug: cli.Debug})
	cmd.FatalIfErrorf(err)
}
