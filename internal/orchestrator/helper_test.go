package orchestrator

import (
	"io"

	"github.com/rs/zerolog"

	"github.com/PhilippHeuer/ghostpp/internal/clock"
	"github.com/PhilippHeuer/ghostpp/internal/language"
)

func newTestOrchestrator(factory GameFactory, realms []Realm, cfg AutohostConfig) *Orchestrator {
	if factory == nil {
		factory = func(hostCounter uint32, m Map, save SaveGame, hostPort int) Game {
			return &fakeGame{nextTicks: 1000}
		}
	}
	return New(Options{
		Clock:       clock.New(),
		Logger:      zerolog.New(io.Discard),
		Catalog:     language.Default(),
		DB:          &fakeDB{},
		GameFactory: factory,
		MaxGames:    20,
		HostPort:    6112,
		Enabled:     true,
		Realms:      realms,
		Autohost:    cfg,
	})
}
