package command

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/BASIC-BIT/meeting-notes-discord-bot-sub002/internal/cache"
	"github.com/BASIC-BIT/meeting-notes-discord-bot-sub002/internal/config"
	"github.com/BASIC-BIT/meeting-notes-discord-bot-sub002/internal/engine"
	"github.com/BASIC-BIT/meeting-notes-discord-bot-sub002/internal/logging"
	"github.com/BASIC-BIT/meeting-notes-discord-bot-sub002/internal/remote"
	"github.com/BASIC-BIT/meeting-notes-discord-bot-sub002/internal/route"
)

// app is one wired session: config, logger, cache, router and engine.
type app struct {
	cfg     config.AppConfig
	log     *log.Logger
	cache   *cache.Cache
	history *route.History
	session *engine.Session

	logCloser io.Closer
}

func openApp(cmd *cobra.Command, start route.Route) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger, logCloser, err := logging.New(logging.Options{Path: cfg.LogPath, Level: cfg.LogLevel})
	if err != nil {
		return nil, err
	}

	client, err := remote.NewClient(cfg.APIURL, cfg.Token, cfg.RequestTimeout.Duration())
	if err != nil {
		_ = logCloser.Close()
		return nil, fmt.Errorf("api client: %w", err)
	}

	store, err := cache.OpenSQLite(cfg.DBPath, cfg.ResetCache)
	if err != nil {
		_ = logCloser.Close()
		return nil, err
	}
	c := cache.New(store, logger)

	history := route.NewHistory(start)
	session := engine.New(engine.Options{
		Remote: client,
		Cache:  c,
		Router: history,
		Access: engine.Access{
			ServerID:             cfg.ServerID,
			AskAllowed:           cfg.AskAllowed,
			SharingEnabled:       cfg.SharingEnabled,
			PublicSharingEnabled: cfg.PublicSharingEnabled,
		},
		Logger: logger,
	})
	logger.Debug("session opened",
		"server_id", cfg.ServerID,
		"db_path", cfg.DBPath,
		"route", start.String())

	return &app{
		cfg:       cfg,
		log:       logger,
		cache:     c,
		history:   history,
		session:   session,
		logCloser: logCloser,
	}, nil
}

func (a *app) Close() error {
	return errors.Join(a.cache.Close(), a.logCloser.Close())
}
