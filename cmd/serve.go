package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"strconv"
	"syscall"
	"time"

	"vermlog/web"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	servePort   int
	serveHost   string
	serveNoOpen bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the local web form for entries and monthly reports",
	Long: `Start a local HTTP server with a day page (entry form and the entries of the day),
a monthly summary page and report downloads.

The server is meant for a single user on this machine; it binds to 127.0.0.1 by default and
has no authentication.`,
	Example: `
  # Start local server on default port and open the browser
  vermlog serve

  # Use another port, do not open a browser
  vermlog serve --port 9090 --no-open
`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := loadApp()
		if err != nil {
			return err
		}
		store, err := app.openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		handler := web.NewServer(store, web.Settings{
			Calculator: app.calc,
			Employee:   app.cfg.EmployeeName(),
			Activities: app.cfg.ActivityChoices(),
			Delimiter:  app.cfg.DelimiterRune(),
		})

		addr := net.JoinHostPort(serveHost, strconv.Itoa(servePort))
		server := &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			errCh <- server.ListenAndServe()
		}()

		listenURL := "http://" + addr
		if serveHost == "127.0.0.1" || serveHost == "" {
			listenURL = fmt.Sprintf("http://localhost:%d", servePort)
		}
		fmt.Printf("Listening on %s (database %s)\n", listenURL, app.dbPath)
		log.Info().Str("addr", addr).Str("db", app.dbPath).Msg("web server started")
		if !serveNoOpen {
			if openErr := openURLInBrowser(listenURL); openErr != nil {
				log.Warn().Err(openErr).Msg("failed to open browser")
			}
		}

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(sigCh)

		select {
		case err := <-errCh:
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		case <-sigCh:
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := server.Shutdown(ctx); err != nil {
				return fmt.Errorf("shutdown server: %w", err)
			}
			err := <-errCh
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			log.Info().Msg("web server stopped")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntVar(&servePort, "port", 8080, "HTTP port for the local web server")
	serveCmd.Flags().StringVar(&serveHost, "host", "127.0.0.1", "Interface to bind")
	serveCmd.Flags().BoolVar(&serveNoOpen, "no-open", false, "Do not open browser automatically")
}

func openURLInBrowser(rawURL string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", rawURL)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", rawURL)
	default:
		cmd = exec.Command("xdg-open", rawURL)
	}
	return cmd.Start()
}
