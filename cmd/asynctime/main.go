// Command asynctime runs every time combinator end to end against the real
// clock and reports how each scenario resolved.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/kbukum/asynctime/bootstrap"
	"github.com/kbukum/asynctime/config"
	"github.com/kbukum/asynctime/observability"
	"github.com/kbukum/asynctime/version"
)

func main() {
	configFile := flag.String("config", "", "path to config.yml (default: search standard locations)")
	envFile := flag.String("env", "", "path to .env file (default: search standard locations)")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	info := version.Get()
	if *showVersion {
		fmt.Println(info.Banner(config.ServiceName))
		return
	}

	if err := run(context.Background(), info, *configFile, *envFile); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, info version.Info, configFile, envFile string) error {
	var opts []config.LoaderOption
	if configFile != "" {
		opts = append(opts, config.WithConfigFile(configFile))
	}
	if envFile != "" {
		opts = append(opts, config.WithEnvFile(envFile))
	}
	cfg, err := config.Load(opts...)
	if err != nil {
		return err
	}
	if cfg.Version == "" {
		cfg.Version = info.String()
	}

	app, err := bootstrap.NewApp(cfg)
	if err != nil {
		return err
	}
	app.Logger.Info("build", info.Fields())
	app.OnStart(telemetryHook(app))

	return app.RunTask(ctx, func(ctx context.Context) error {
		runScenarios(ctx, cfg.Timing, app.Summary)
		if n := app.Summary.Failed(); n > 0 {
			return fmt.Errorf("%d scenario(s) failed", n)
		}
		return nil
	})
}

// telemetryHook installs the OTLP exporters the config enables and registers
// their shutdown.
func telemetryHook(app *bootstrap.App[*config.Config]) bootstrap.Hook {
	return func(ctx context.Context) error {
		cfg := app.Cfg
		tel := cfg.Telemetry

		if tel.Metrics {
			mc := observability.DefaultMeterConfig(cfg.Name)
			mc.ServiceVersion = cfg.Version
			mc.Environment = cfg.Environment
			mc.Endpoint = tel.Endpoint
			mc.Insecure = tel.Insecure
			mc.Interval = tel.ExportInterval

			mp, err := observability.InitMeter(ctx, mc)
			if err != nil {
				return err
			}
			m, err := observability.NewMetrics(mp.Meter(observability.InstrumentationName))
			if err != nil {
				return err
			}
			observability.SetMetrics(m)
			app.OnStop(mp.Shutdown)
		}

		if tel.Tracing {
			tc := observability.DefaultTracerConfig(cfg.Name)
			tc.ServiceVersion = cfg.Version
			tc.Environment = cfg.Environment
			tc.Endpoint = tel.Endpoint
			tc.Insecure = tel.Insecure
			tc.SampleRate = tel.SampleRate

			tp, err := observability.InitTracer(ctx, tc)
			if err != nil {
				return err
			}
			app.OnStop(tp.Shutdown)
		}
		return nil
	}
}
