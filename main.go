package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/prismaasset360/web/internal/apiclient"
	"github.com/prismaasset360/web/internal/appinit"
	"github.com/prismaasset360/web/internal/background"
	"github.com/prismaasset360/web/internal/controller"
	"github.com/prismaasset360/web/internal/session"
	"github.com/prismaasset360/web/internal/utils/idutils"
	"github.com/prismaasset360/web/pkg/errorcode"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func main() {
	var configPath string

	confFlag := func() cli.Flag {
		return &cli.StringFlag{
			Name:        "conf",
			Aliases:     []string{"c"},
			Value:       "server.yaml",
			EnvVars:     []string{"PA360_CONF"},
			Destination: &configPath,
		}
	}

	app := &cli.App{
		Name:  "prismaasset360-web",
		Usage: "Frontend web de PrismaAsset360",
		Commands: []*cli.Command{
			{
				Name:    "serve",
				Aliases: []string{"s"},
				Usage:   "Start the web server",
				Flags:   []cli.Flag{confFlag()},
				Action:  getServeFunc(&configPath),
			},
			{
				Name:    "migrate",
				Aliases: []string{"m"},
				Usage:   "Create or update the session table",
				Flags:   []cli.Flag{confFlag()},
				Action:  getMigrateFunc(&configPath),
			},
			{
				Name:    "ping",
				Aliases: []string{"p"},
				Usage:   "Check that the backend is reachable",
				Flags:   []cli.Flag{confFlag()},
				Action:  getPingFunc(&configPath),
			},
		},
	}

	// Run the cli helper
	if err := app.Run(os.Args); err != nil {
		log.Fatalln(err)
	}
}

// loadConfig loads the server info and sets up the logger from it.
func loadConfig(configPath string) (*appinit.ServerInfo, func(), error) {
	serverInfo, err := appinit.LoadServerInfo(configPath)
	if err != nil {
		return nil, nil, err
	}

	logCloser, err := appinit.SetupLogger(serverInfo.Log)
	if err != nil {
		return nil, nil, err
	}

	closeLog := func() {
		if err := logCloser.Close(); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}

	return &serverInfo, closeLog, nil
}

func getMigrateFunc(configPath *string) func(c *cli.Context) error {
	migrateFunc := func(c *cli.Context) error {
		serverInfo, closeLog, err := loadConfig(*configPath)
		if err != nil {
			return err
		}
		defer closeLog()

		if err := appinit.MigrateDatabase(serverInfo.Database); err != nil {
			return err
		}

		log.Infof("Tabla de sesiones migrada (%v).", serverInfo.Database.Driver)
		return nil
	}

	return migrateFunc
}

func getPingFunc(configPath *string) func(c *cli.Context) error {
	pingFunc := func(c *cli.Context) error {
		serverInfo, closeLog, err := loadConfig(*configPath)
		if err != nil {
			return err
		}
		defer closeLog()

		client := apiclient.NewClient(serverInfo.Backend.APIPrefix, serverInfo.Backend.Timeout())

		// Any answer, including a 401, proves the backend is up.
		start := time.Now()
		err = client.Do(c.Context, &apiclient.Request{
			Method:   http.MethodGet,
			Path:     "/auth/me",
			SkipAuth: true,
		}, nil)
		if err != nil && errors.Cause(err) == errorcode.ErrorBackendUnavailable {
			return errors.Wrapf(err, "el servidor '%v' no responde", client.APIPrefix())
		}

		fmt.Printf("El servidor '%v' respondió en %v\n", client.APIPrefix(), time.Since(start).Round(time.Millisecond))
		return nil
	}

	return pingFunc
}

func getServeFunc(configPath *string) func(c *cli.Context) error {
	serveFunc := func(c *cli.Context) error {
		serverInfo, closeLog, err := loadConfig(*configPath)
		if err != nil {
			return err
		}
		defer closeLog()

		if log.GetLevel() < log.DebugLevel {
			gin.SetMode(gin.ReleaseMode)
		}

		if err := idutils.SetNodeID(serverInfo.NodeID); err != nil {
			return err
		}

		// Open the session store
		store, closeStore, err := appinit.OpenSessionStore(serverInfo.Database)
		if err != nil {
			return err
		}
		defer closeStore()

		sessionInfo := serverInfo.Session
		sessions := session.NewManager(store, sessionInfo.CookieName, sessionInfo.TTL(), sessionInfo.SecureCookie)

		// Prepare the pages
		renderer, err := controller.NewRenderer()
		if err != nil {
			return err
		}

		router, err := controller.NewRouter(&controller.RouterConfig{
			Client:                   apiclient.NewClient(serverInfo.Backend.APIPrefix, serverInfo.Backend.Timeout()),
			Sessions:                 sessions,
			HTMLRender:               renderer,
			AllowedOrigins:           serverInfo.AllowedOrigins,
			NotificationPollInterval: serverInfo.Notifications.PollInterval(),
		})
		if err != nil {
			return err
		}

		// Start the session sweeper
		sweeper := background.NewSessionSweeper(store, sessionInfo.SweepInterval())
		if err := sweeper.Start(); err != nil {
			return err
		}

		// Start the HTTP server
		httpServer := &http.Server{
			Addr:    fmt.Sprintf(":%v", serverInfo.Port),
			Handler: router,
		}

		chanError := make(chan error, 1)
		go func() {
			log.Infof("Servidor web escuchando en el puerto %v (backend: %v).", serverInfo.Port, serverInfo.Backend.APIPrefix)
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				chanError <- errors.Wrap(err, "no se pudo iniciar el servidor HTTP")
			}
		}()

		// Listen Ctrl+C signals. On receiving a signal stops the app elegantly
		chanQuit := make(chan os.Signal, 1)
		signal.Notify(chanQuit, os.Interrupt, syscall.SIGTERM)

		var serveErr error
		select {
		case serveErr = <-chanError:
		case <-chanQuit:
			log.Infoln("Señal de salida recibida, deteniendo el servidor...")

			// Stop the HTTP server elegantly
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			log.Infoln("Deteniendo el servidor HTTP...")
			if err := httpServer.Shutdown(ctx); err != nil {
				serveErr = errors.Wrap(err, "no se pudo detener el servidor HTTP correctamente")
			}
		}

		log.Infoln("Deteniendo el limpiador de sesiones...")
		wg, err := sweeper.Stop()
		if err != nil {
			log.Warnln(err)
		} else {
			wg.Wait()
		}

		return serveErr
	}

	return serveFunc
}
