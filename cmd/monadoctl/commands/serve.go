package commands

import (
	"github.com/spf13/cobra"

	libmonado "github.com/technobaboo/libmonado-go"
	"github.com/technobaboo/libmonado-go/internal/exporter"
	"github.com/technobaboo/libmonado-go/internal/server"
)

func (a *app) serveCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP control API and Prometheus metrics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("addr") {
				addr = a.cfg.Serve.Addr
			}
			return a.withMonado(func(m *libmonado.Monado) error {
				exp := exporter.New(m.Snapshot, a.logger)
				return server.New(m, exp, a.logger).ListenAndServe(cmd.Context(), addr)
			})
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, else 127.0.0.1:9812)")
	return cmd
}
