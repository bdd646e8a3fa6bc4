package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/pkg/errors"

	echoweb "github.com/trezcool/gradebook/apps/web/echo"
	"github.com/trezcool/gradebook/core"
	"github.com/trezcool/gradebook/core/gradebook"
	"github.com/trezcool/gradebook/core/notify"
	backendsvc "github.com/trezcool/gradebook/services/backend"
	"github.com/trezcool/gradebook/services/backend/dummy"
	logsvc "github.com/trezcool/gradebook/services/logger"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "WEB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	backend, err := newBackend(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up backend: %v", err), err)
	}

	ctrl := gradebook.NewController(
		gradebook.NewViewModel(),
		backend,
		notify.New(conf.UI.NotificationTimeout),
		logger,
	)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	// first load; failures are shown on the page and the app keeps running
	ctx, cancel := context.WithTimeout(context.Background(), conf.Backend.Timeout*3)
	if err = ctrl.RefreshAll(ctx); err != nil {
		logger.Error(fmt.Sprintf("initial load: %v", err), err)
	}
	cancel()

	// =========================================================================
	// Start Debug Service
	//
	// /debug/vars - Added to the default mux by importing the expvar package.

	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)
	expvar.NewString("backend").Set(conf.Backend.BaseURL)

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start Web Service

	server := echoweb.NewServer(echoweb.ServerDeps{
		Conf:       conf,
		Logger:     logger,
		Controller: ctrl,
	})

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

func newBackend(conf *core.Config) (core.Backend, error) {
	switch conf.Backend.Driver {
	case core.BackendDriverHTTP:
		return backendsvc.NewClientFromConfig(conf), nil
	case core.BackendDriverMemory:
		return dummybackend.New(), nil
	}
	return nil, errors.Errorf("unknown backend driver %q", conf.Backend.Driver)
}
