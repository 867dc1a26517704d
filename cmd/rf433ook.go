package main

import (
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"rf433ook/pkg/app"
	"rf433ook/pkg/app/config"
	"rf433ook/pkg/homeeasy"
	"rf433ook/pkg/ook"
	"rf433ook/pkg/transmitter"

	"github.com/urfave/cli/v2"
	"github.com/womat/debug"
)

const defaultConfigFile = "/opt/womat/config/" + app.MODULE + ".yaml"

func main() {
	exitCode := 1
	defer func() {
		os.Exit(exitCode)
	}()

	// cfg holds the application configuration
	cfg := config.NewConfig()

	cliApp := &cli.App{
		Name:    app.MODULE,
		Usage:   "Receive and transmit 433MHz OOK codes of HomeEasy remote controls",
		Version: app.VERSION,
		Description: "Decode the pulses of a 433MHz receiver module into codes and send them to mqtt," +
			"\n transmit codes over a 433MHz transmitter module by console or web request." +
			"\n HomeEasy V1A and V2A codes are decoded into group, device and command.",
		UsageText: "rf433ook [--config <file>] [--log standard|debug|trace]" +
			"\n   rf433ook encode v1a --group 5 --device 3" +
			"\n\nEXAMPLE:" +
			"\n\tstart the receiver and use the configuration file rf433ook.yaml" +
			"\n\t\trf433ook --config /opt/womat/rf433ook.yaml",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Destination: &cfg.Flag.ConfigFile, Value: defaultConfigFile, Usage: "load configuration from `FILE`"},
			&cli.StringFlag{Name: "log", Aliases: []string{"l"}, Destination: &cfg.Flag.Debug, Usage: "`LEVEL` defines the log level (standard|debug|trace)"},
		},
		Action: func(ctx *cli.Context) error {
			return run(cfg)
		},
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "start the receiver, the console and the web services (default)",
				Action: func(ctx *cli.Context) error {
					return run(cfg)
				},
			},
			{
				Name:  "encode",
				Usage: "print the code literal of a HomeEasy command",
				Subcommands: []*cli.Command{
					{
						Name:  "v1a",
						Usage: "HomeEasy V1A (transmitter preset S=0)",
						Flags: []cli.Flag{
							&cli.IntFlag{Name: "group", Aliases: []string{"g"}, Required: true, Usage: "group `0..15`"},
							&cli.IntFlag{Name: "device", Aliases: []string{"d"}, Value: homeeasy.NoDevice, Usage: "device `0..15`, omit for a group command"},
							&cli.BoolFlag{Name: "off", Usage: "switch off"},
						},
						Action: func(ctx *cli.Context) error {
							code, err := homeeasy.EncodeV1A(ctx.Int("group"), ctx.Int("device"), !ctx.Bool("off"))
							if err != nil {
								return err
							}
							return printCode(homeeasy.PresetV1A, code)
						},
					},
					{
						Name:  "v2a",
						Usage: "HomeEasy V2A (transmitter preset S=3)",
						Flags: []cli.Flag{
							&cli.UintFlag{Name: "group", Aliases: []string{"g"}, Required: true, Usage: "26 bit group `ID`"},
							&cli.IntFlag{Name: "device", Aliases: []string{"d"}, Value: homeeasy.NoDevice, Usage: "device `0..15`, omit for a group command"},
							&cli.BoolFlag{Name: "off", Usage: "switch off"},
							&cli.IntFlag{Name: "level", Value: homeeasy.NoDimLevel, Usage: "dim `LEVEL` 0..100"},
						},
						Action: func(ctx *cli.Context) error {
							code, err := homeeasy.EncodeV2A(uint32(ctx.Uint("group")), ctx.Int("device"), !ctx.Bool("off"), ctx.Int("level"))
							if err != nil {
								return err
							}
							return printCode(homeeasy.PresetV2A, code)
						},
					},
				},
			},
		},
	}

	// we expect to have more command line flags in the future - sort them
	sort.Sort(cli.FlagsByName(cliApp.Flags))
	sort.Sort(cli.CommandsByName(cliApp.Commands))

	err := cliApp.Run(os.Args)
	if err != nil {
		debug.FatalLog.Print(err)
		exitCode = 1
		return
	}

	exitCode = 0
	return
}

// run starts the application and waits for a signal to exit.
func run(cfg *config.Config) error {
	if err := cfg.LoadConfig(); err != nil {
		return err
	}

	debug.SetDebug(cfg.Debug.File, cfg.Debug.Flag)
	defer func() {
		debug.InfoLog.Printf("closing debug file %s", cfg.Debug.FileString)
		_ = cfg.Debug.File.Close()
	}()

	a, err := app.New(cfg)
	defer func() {
		debug.InfoLog.Printf("closing app %s", app.Version())
		_ = a.Close()
	}()

	if err != nil {
		return err
	}

	debug.InfoLog.Printf("starting app %s", app.Version())
	if err = a.Run(); err != nil {
		return err
	}

	// capture exit signals to ensure resources are released on exit.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	// wait for am os.Interrupt signal (CTRL C)
	select {
	case sig := <-quit:
		debug.InfoLog.Printf("Got %s signal. Aborting...", sig)
	case <-a.Shutdown():
		debug.InfoLog.Print("shutdown")
	}

	return nil
}

// printCode prints the console line to transmit the code and its decode record.
func printCode(preset int, literal string) error {
	code, err := ook.ParseCode(literal)
	if err != nil {
		return err
	}

	fmt.Printf("S=%d,%s\n", preset, literal)
	fmt.Printf("# %v: %v\n", transmitter.Presets[preset].Name, code.Record())
	return nil
}
