package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dfryer1193/goimages/images/application"
	"github.com/dfryer1193/goimages/internal/config"
	"github.com/dfryer1193/goimages/internal/logging"
	"github.com/dfryer1193/goimages/internal/rest"
	"github.com/dfryer1193/goimages/internal/server"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("Exiting")
	}
}

func newApp() *cli.App {
	serveFlags := []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "path to a YAML, TOML or JSON config file",
			EnvVars: []string{"IMAGES_CONFIG"},
		},
		&cli.StringFlag{
			Name:  "addr",
			Usage: "listen address, overrides server.addr",
		},
		&cli.StringFlag{
			Name:  "backend",
			Usage: "record store (sqlite, gorm, redis, memory), overrides store.backend",
		},
		&cli.BoolFlag{
			Name:  "debug",
			Usage: "console logging at debug level and gin debug mode",
		},
	}

	return &cli.App{
		Name:   "images-server",
		Usage:  "REST API for image metadata records",
		Flags:  serveFlags,
		Action: serve,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP server (default)",
				Flags:  serveFlags,
				Action: serve,
			},
			{
				Name:  "openapi",
				Usage: "print the Swagger document",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "format",
						Value: "json",
						Usage: "json or yaml",
					},
				},
				Action: printOpenAPI,
			},
		},
	}
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	v := config.New()
	if c.IsSet("addr") {
		v.Set("server.addr", c.String("addr"))
	}
	if c.IsSet("backend") {
		v.Set("store.backend", c.String("backend"))
	}
	if c.IsSet("debug") {
		v.Set("debug", c.Bool("debug"))
	}
	return config.Load(v, c.String("config"))
}

func serve(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	logging.Setup(cfg.Log.Level, cfg.Debug)

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, closeRepo, err := server.OpenRepository(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeRepo(); err != nil {
			log.Error().Err(err).Msg("Failed to close record store")
		}
	}()

	log.Info().Str("backend", cfg.Store.Backend).Msg("Record store ready")

	engine := server.NewEngine(cfg, application.NewImageService(repo))
	return server.New(cfg.Server, engine).Run(ctx)
}

func printOpenAPI(c *cli.Context) error {
	data, err := rest.MarshalOpenAPI(rest.NewOpenAPIDocument(), c.String("format"))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(c.App.Writer, string(data))
	return err
}
