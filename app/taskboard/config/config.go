package config

import (
	"context"
	"fmt"

	"github.com/jrazmi/taskboard/core/repositories/tasksrepo"
	"github.com/jrazmi/taskboard/core/services/credentials"
	"github.com/jrazmi/taskboard/sdk/environment"
	"github.com/jrazmi/taskboard/sdk/logger"
	"github.com/jrazmi/taskboard/sdk/telemetry"
	"golang.org/x/text/language"
)

// site wide globals.
const (
	ApiRoute = "api"
)

// Store drivers understood by STORE_DRIVER.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Store selects and prepares the persistence backend.
type Store struct {
	Driver      string `env:"STORE_DRIVER" default:"sqlite"`
	AutoMigrate bool   `env:"AUTO_MIGRATE" default:"true"`
	// Collation is the BCP 47 tag titles are sorted by.
	Collation string `env:"TASKS_COLLATION" default:"en"`
}

// LoadStore reads Store from the environment under prefix.
func LoadStore(prefix string) (Store, error) {
	var cfg Store
	if err := environment.ParseEnvTags(prefix, &cfg); err != nil {
		return Store{}, fmt.Errorf("parsing store config: %w", err)
	}
	switch cfg.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		return Store{}, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
	return cfg, nil
}

// Locale parses the configured collation tag.
func (s Store) Locale() (language.Tag, error) {
	tag, err := language.Parse(s.Collation)
	if err != nil {
		return language.Und, fmt.Errorf("parsing collation %q: %w", s.Collation, err)
	}
	return tag, nil
}

// Repositories represents the specific repositories that this instance of
// taskboard needs.
type Repositories struct {
	Tasks *tasksrepo.Repository
}

// Services are the use cases that sit above the repositories.
type Services struct {
	Credentials *credentials.Service
}

// Taskboard is the overall configuration for the taskboard application.
type Taskboard struct {
	Build  string
	Logger *logger.Logger

	Repositories Repositories
	Services     Services
	Telemetry    telemetry.Telemetry

	// CORSOrigins lists the browser origins allowed to call the API.
	CORSOrigins []string
	// HealthCheck reports whether the datastore is reachable.
	HealthCheck func(ctx context.Context) error
}
