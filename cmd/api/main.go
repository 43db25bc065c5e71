package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	jwtauth "pet-weight-tracker/internal/adapters/auth/jwt"
	"pet-weight-tracker/internal/adapters/storage"
	"pet-weight-tracker/internal/app"
	"pet-weight-tracker/internal/config"
	"pet-weight-tracker/internal/domain/pets"
	"pet-weight-tracker/internal/domain/users"
	"pet-weight-tracker/internal/platform/httpclient"
	"pet-weight-tracker/internal/platform/logger"
	"pet-weight-tracker/internal/validation"

	"github.com/urfave/cli/v3"
)

// @title Pet Weight Tracker API
// @version 1.0
// @description Mascotas por usuario y su historial de pesos.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}

func newRootCommand() *cli.Command {
	return &cli.Command{
		Name:  "pet-weight-tracker",
		Usage: "API de mascotas y registros de peso",
		Flags: storeFlags(),
		Commands: []*cli.Command{
			serveCommand(),
			migrateCommand(),
			usersCommand(),
			petsCommand(),
			seedCommand(),
			healthcheckCommand(),
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return serve(ctx, c)
		},
	}
}

// storeFlags van solo en el root; los subcomandos las heredan, así que
// `--db-driver` vale antes o después del nombre del subcomando.
func storeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "db-driver", Usage: "memory|postgres|sqlite (default: DB_DRIVER)"},
		&cli.StringFlag{Name: "db-dsn", Usage: "postgres DSN (default: DB_DSN)"},
		&cli.StringFlag{Name: "sqlite-path", Usage: "sqlite database file (default: SQLITE_PATH)"},
	}
}

// loadConfig lee env/.env y aplica los overrides de flags.
func loadConfig(c *cli.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if v := strings.TrimSpace(c.String("db-driver")); v != "" {
		cfg.DBDriver = strings.ToLower(v)
	}
	if v := strings.TrimSpace(c.String("db-dsn")); v != "" {
		cfg.DBDSN = v
		if c.String("db-driver") == "" {
			cfg.DBDriver = config.DriverPostgres
		}
	}
	if v := strings.TrimSpace(c.String("sqlite-path")); v != "" {
		cfg.SQLitePath = v
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Levanta la API HTTP",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "addr", Usage: "dirección de escucha (default: :$PORT)"},
		},
		Action: serve,
	}
}

func serve(ctx context.Context, c *cli.Command) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if v := strings.TrimSpace(c.String("addr")); v != "" {
		cfg.Port = v
	}
	return app.Serve(ctx, cfg, app.NewLogger(cfg))
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Aplica las migraciones del driver configurado",
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			return app.Migrate(ctx, cfg, app.NewLogger(cfg))
		},
	}
}

// withServices abre el store y arma los services que usan los comandos.
func withServices(ctx context.Context, c *cli.Command, fn func(usersSvc *users.Service, petsSvc *pets.Service) error) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	log := app.NewLogger(cfg)

	store, err := app.OpenStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore(store, log)

	usersSvc := users.NewService(store.Users())
	petsSvc := pets.NewService(store.Pets(), store.Weights(), usersSvc)
	return fn(usersSvc, petsSvc)
}

func closeStore(store storage.Store, log logger.Logger) {
	if err := store.Close(); err != nil {
		log.Error("store close failed", map[string]any{"error": err})
	}
}

func usersCommand() *cli.Command {
	return &cli.Command{
		Name:  "users",
		Usage: "Gestión de usuarios",
		Commands: []*cli.Command{
			{
				Name:  "create",
				Usage: "Da de alta un usuario",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Required: true},
					&cli.StringFlag{Name: "plan", Value: string(users.PlanFree), Usage: "free|premium"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					return withServices(ctx, c, func(usersSvc *users.Service, _ *pets.Service) error {
						u, err := usersSvc.Create(ctx, c.String("email"), c.String("plan"))
						if err != nil {
							return err
						}
						fmt.Printf("user created: id=%d email=%s plan=%s\n", u.ID, u.Email, u.Plan)
						return nil
					})
				},
			},
			{
				Name:  "token",
				Usage: "Emite un bearer token para un usuario (requiere AUTH_JWT_SECRET)",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "user", Required: true},
					&cli.DurationFlag{Name: "ttl", Value: 24 * time.Hour},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := loadConfig(c)
					if err != nil {
						return err
					}
					if cfg.JWTSecret == "" {
						return errors.New("AUTH_JWT_SECRET is not set")
					}
					return withServices(ctx, c, func(usersSvc *users.Service, _ *pets.Service) error {
						u, err := usersSvc.GetByID(ctx, c.Int("user"))
						if err != nil {
							return err
						}
						tok, err := jwtauth.Sign(cfg.JWTSecret, u.ID, u.Email, c.Duration("ttl"))
						if err != nil {
							return err
						}
						fmt.Println(tok)
						return nil
					})
				},
			},
		},
	}
}

func petsCommand() *cli.Command {
	return &cli.Command{
		Name:  "pets",
		Usage: "Mantenimiento de mascotas",
		Commands: []*cli.Command{
			{
				Name:  "assign",
				Usage: "Asigna todas las mascotas sin dueño a un usuario",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "user", Required: true},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					return withServices(ctx, c, func(_ *users.Service, petsSvc *pets.Service) error {
						n, err := petsSvc.AssignUnowned(ctx, c.Int("user"))
						if err != nil {
							return err
						}
						fmt.Printf("assigned %d pets to user %d\n", n, c.Int("user"))
						return nil
					})
				},
			},
		},
	}
}

func seedCommand() *cli.Command {
	return &cli.Command{
		Name:  "seed",
		Usage: "Crea la mascota de ejemplo (Buddy)",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "user", Usage: "dueño; sin valor queda sin asignar"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return withServices(ctx, c, func(_ *users.Service, petsSvc *pets.Service) error {
				in, err := validation.PetCreate(validation.Record{
					"name":        "Buddy",
					"species":     "Dog",
					"breed":       "Golden Retriever",
					"age":         float64(4),
					"description": "Friendly family dog",
				})
				if err != nil {
					return err
				}

				var p pets.Pet
				if uid := c.Int("user"); uid > 0 {
					p, err = petsSvc.Create(ctx, uid, in)
				} else {
					p, err = petsSvc.CreateUnowned(ctx, in)
				}
				if err != nil {
					return err
				}
				fmt.Printf("seeded pet: id=%d name=%s\n", p.ID, p.Name)
				return nil
			})
		},
	}
}

func healthcheckCommand() *cli.Command {
	return &cli.Command{
		Name:  "healthcheck",
		Usage: "Consulta GET /health y sale con error si no está ok",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "url", Value: "http://localhost:8080", Sources: cli.EnvVars("HEALTHCHECK_URL")},
			&cli.DurationFlag{Name: "timeout", Value: 5 * time.Second},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			client, err := httpclient.NewWithBaseURL(c.String("url"), c.Duration("timeout"))
			if err != nil {
				return err
			}
			h, err := client.CheckHealth(ctx)
			if err != nil {
				return err
			}
			fmt.Println(h.Status)
			return nil
		},
	}
}
