package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	libmonado "github.com/technobaboo/libmonado-go"
	"github.com/technobaboo/libmonado-go/internal/watch"
)

// eventPrinter writes one event per line in table mode, one JSON object
// per line, or one YAML document per event.
func (a *app) eventPrinter(w io.Writer) func(watch.Event) {
	switch a.cfg.Output {
	case "json":
		enc := json.NewEncoder(w)
		return func(e watch.Event) {
			if err := enc.Encode(e); err != nil {
				a.logger.Warn("failed to write event", "error", err)
			}
		}
	case "yaml":
		return func(e watch.Event) {
			enc := yaml.NewEncoder(w)
			if err := enc.Encode(e); err != nil {
				a.logger.Warn("failed to write event", "error", err)
			}
			enc.Close()
		}
	default:
		return func(e watch.Event) {
			fmt.Fprintf(w, "%s  %s\n", e.Time.Format(time.TimeOnly), e)
		}
	}
}

func (a *app) watchCmd() *cobra.Command {
	var interval time.Duration
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print client and device changes until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("interval") {
				interval = a.cfg.Watch.Interval.Duration
			}
			if interval <= 0 {
				return fmt.Errorf("interval must be positive, got %s", interval)
			}
			return a.withMonado(func(m *libmonado.Monado) error {
				return a.watch(cmd.Context(), m, interval, a.eventPrinter(cmd.OutOrStdout()))
			})
		},
	}
	cmd.Flags().DurationVar(&interval, "interval", 0, "poll interval (default from config, else 1s)")
	return cmd
}

// watch polls m and, alongside, reports when the active runtime manifest
// changes so the user knows a reconnect would load a different library.
func (a *app) watch(ctx context.Context, m *libmonado.Monado, interval time.Duration, handle func(watch.Event)) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return watch.NewPoller(m.Snapshot, interval, a.logger).Run(ctx, handle)
	})

	if a.cfg.Library == "" {
		rw, err := watch.NewRuntimeWatcher(libmonado.RuntimeCandidates(a.libOptions()...), func(path string) {
			loc, err := libmonado.LocateLibrary(a.libOptions()...)
			switch {
			case err != nil:
				a.logger.Warn("active runtime changed and libmonado can no longer be found", "manifest", path, "error", err)
			case loc.Path != m.Path():
				a.logger.Warn("active runtime changed; restart to use the new libmonado", "manifest", path, "path", loc.Path)
			default:
				a.logger.Info("active runtime manifest rewritten", "manifest", path)
			}
		}, watch.WithLogger(a.logger))
		if err != nil {
			return err
		}
		g.Go(func() error {
			if err := rw.Start(ctx); err != nil {
				rw.Stop()
				if errors.Is(err, watch.ErrNoWatchableDir) {
					a.logger.Debug("not watching the active runtime", "error", err)
					return nil
				}
				return err
			}
			<-ctx.Done()
			return rw.Stop()
		})
	}

	return g.Wait()
}
