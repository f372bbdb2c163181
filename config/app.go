package config

import "time"

type App struct {
	Port        string `envconfig:"APP_PORT" default:"8080"`
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`
	JWTSecret   string `envconfig:"JWT_SECRET" default:"local_dev_secret"`
	Env         string `envconfig:"APP_ENV" default:"dev"`

	// SweepInterval is the staleness bound for the denormalized car
	// availability flag: how often the expiry sweep runs.
	SweepInterval time.Duration `envconfig:"SWEEP_INTERVAL" default:"5m"`
}
