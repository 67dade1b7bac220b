package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"nazcraft_server/internal/account"
	"nazcraft_server/internal/api"
)

func serveCmd(configDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the local Nazcraft console",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			a, err := bootstrap(*configDir)
			if err != nil {
				return err
			}
			defer a.close()
			return a.serve()
		},
	}
}

func (a *app) newRouter(session *account.Session) *gin.Engine {
	if a.cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
		a.log.Info("running in gin debug mode", nil)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	api.RegisterRoutes(router, api.NewAPIHandler(a.newGenerator(), session, a.log))
	return router
}

func (a *app) serve() error {
	session, err := account.Load(a.cfg.StorePath, account.AdminCredential{
		Email:    a.cfg.AdminEmail,
		Password: a.cfg.AdminPassword,
	}, a.log)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:         a.cfg.ServerAddress,
		Handler:      a.newRouter(session),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second, // generations can take a while
		IdleTimeout:  60 * time.Second,
	}

	listenErr := make(chan error, 1)
	go func() {
		a.log.Info("starting API server", map[string]interface{}{"address": a.cfg.ServerAddress})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			listenErr <- err
		}
		close(listenErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err, ok := <-listenErr:
		if ok {
			a.log.WithError(err).Error("API server listen error", nil)
			return err
		}
		return nil
	case sig := <-quit:
		a.log.Info("received signal, shutting down server", map[string]interface{}{"signal": sig.String()})
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		a.log.WithError(err).Error("API server forced shutdown", nil)
		return err
	}
	if err := session.Save(); err != nil {
		a.log.WithError(err).Error("failed to save session on exit", nil)
		return err
	}
	a.log.Info("API server gracefully stopped", nil)
	return nil
}
