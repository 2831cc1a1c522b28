package main

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"surveybar/internal/infra/config"
	"surveybar/internal/infra/wiring"
)

func TestRunReturnsStartupErrors(t *testing.T) {
	var cfg config.AppConfig
	cfg.TZ = "UTC"
	cfg.Store.Driver = wiring.DriverMemory
	cfg.Events.Driver = "kafka"

	if err := run(cfg, zerolog.Nop()); !errors.Is(err, wiring.ErrUnknownDriver) {
		t.Fatalf("ожидали ErrUnknownDriver, получили %v", err)
	}
}
