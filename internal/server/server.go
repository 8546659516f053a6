package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"sync"

	"github.com/rizkyfm/docchat/internal/adapter/utils"
	"github.com/rizkyfm/docchat/internal/config"
	"github.com/rizkyfm/docchat/internal/middleware"
	"github.com/rizkyfm/docchat/pkg/logx"
)

var (
	server  *http.Server
	_logger *logx.Logger
)

type ShutdownParams struct {
	GracefulShutdown chan os.Signal
	StopExecution    chan bool
	WorkerStop       chan bool
	Group            *sync.WaitGroup
	CloseServices    context.CancelFunc
}

func CreateServer(listenAddr string) {
	_logger = logx.NewLogger("server")

	r := utils.GetRouter()

	r.Router.Get("/health", middleware.GetHandler)
	r.Router.Post("/chat", middleware.ChatHandler)
	r.Router.Get("/status/{id}", middleware.GetStatusHandler)
	r.Router.Post("/ingest", middleware.PostIngestHandler)
	r.Router.Get("/conversations/{id}/messages", middleware.GetMessagesHandler)
	r.Router.Post("/prompts", middleware.PostPromptHandler)
	r.Router.Get("/prompts", middleware.GetPromptsHandler)
	r.Router.Post("/prompts/{id}/pin", middleware.PinPromptHandler)

	server = &http.Server{
		Addr:         listenAddr,
		Handler:      r.Router,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
	}

	_logger.Info("Server is listening", "address", listenAddr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		_logger.Error("Server crashed", "error", err.Error(), "addr", listenAddr)
	}
}

func ShutDownHandler(shutdownParams ShutdownParams) {
	state := <-shutdownParams.GracefulShutdown
	_logger.Info("Server is shutting down", "signal", state.String())

	ctx, cancel := context.WithTimeout(context.Background(), config.ShutdownContextTimeout)
	defer cancel()

	done := make(chan struct{})

	go func() {
		server.SetKeepAlivesEnabled(false)

		if err := server.Shutdown(ctx); err != nil {
			_logger.Error("Could not shutdown gracefully", "error", err)
		}

		//close workers
		close(shutdownParams.WorkerStop)
		shutdownParams.Group.Wait()
		shutdownParams.CloseServices()
		close(shutdownParams.StopExecution)
		close(done)
	}()

	select {
	case <-done:
		_logger.Info("Graceful shutdown complete")
	case <-ctx.Done():
		_logger.Info("Forced shutdown")
		os.Exit(1)
	}
}
