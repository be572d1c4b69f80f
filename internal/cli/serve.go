package cli

import (
	"context"
	"crypto/tls"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mithrel/tablemark/internal/config"
	"github.com/mithrel/tablemark/internal/db"
	"github.com/mithrel/tablemark/internal/server"
	"github.com/mithrel/tablemark/internal/wire"
)

func newServeCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP preview server",
		Long: `Serve the render endpoints over HTTP until interrupted.

With tls.domains set, certificates are obtained through ACME and an HTTP-01
challenge listener runs on :80. With tls.cert_file and tls.key_file set,
those PEM files are served instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			v := app.Cfg
			if addr != "" {
				v.Set("http_addr", addr)
			}
			logger := log.New(cmd.ErrOrStderr(), "tablemark ", log.LstdFlags)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			var archive db.Archive
			if app.Archiving() {
				a, err := app.Archive(ctx)
				if err != nil {
					return fmt.Errorf("open archive: %w", err)
				}
				archive = a
			}

			tlsConf, challenge, err := serveTLS(ctx, app)
			if err != nil {
				return err
			}
			srv := server.New(v, app.Renderer, archive, logger)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Preview server listening on %s\n", v.GetString("http_addr"))
			return srv.ListenAndServe(ctx, v.GetString("http_addr"), tlsConf, challenge)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides http_addr)")
	return cmd
}

func serveTLS(ctx context.Context, app *wire.App) (*tls.Config, http.Handler, error) {
	v := app.Cfg
	if domains := v.GetStringSlice("tls.domains"); len(domains) > 0 {
		app.Log.Printf("tls: managing certificates for %s", strings.Join(domains, ","))
		return server.BuildCertMagicTLS(ctx, server.CertMagicConfig{
			Domains:    domains,
			Email:      v.GetString("tls.email"),
			StorageDir: filepath.Join(filepath.Dir(config.ResolveDBPath(v)), "certmagic"),
		})
	}
	if cert := v.GetString("tls.cert_file"); cert != "" {
		conf, err := server.BuildFileTLS(cert, v.GetString("tls.key_file"))
		return conf, nil, err
	}
	return nil, nil, nil
}
