package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"bookstore-manager/bookstore"
	"bookstore-manager/internal/config"
	"bookstore-manager/internal/logging"
	"bookstore-manager/shell"
)

const version = "0.1.0"

// app holds the resources opened for one command run. They are acquired in
// open and released in close, which runs on every exit path.
type app struct {
	cfg *config.Config
	log *zap.Logger
	db  *bookstore.Database
	mgr *bookstore.Manager
}

func (a *app) open(cfg *config.Config) error {
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = logger

	db, err := bookstore.NewDatabase(cfg.DB.Path)
	if err != nil {
		logger.Error("open database", zap.String("path", cfg.DB.Path), zap.Error(err))
		return fmt.Errorf("open database %s: %w", cfg.DB.Path, err)
	}
	a.db = db
	a.mgr = bookstore.NewManager(db, logger)
	logger.Debug("database opened", zap.String("path", cfg.DB.Path))
	return nil
}

func (a *app) close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil && a.log != nil {
			a.log.Error("close database", zap.Error(err))
		}
		a.db = nil
	}
	if a.log != nil {
		_ = a.log.Sync()
	}
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	a := &app{}
	defer a.close()

	cmd := newRootCmd(a)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, shell.Describe(err))
		return 1
	}
	return 0
}
