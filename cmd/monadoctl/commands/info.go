package commands

import (
	"fmt"
	"io"
	"runtime/debug"
	"strconv"

	"github.com/spf13/cobra"

	libmonado "github.com/technobaboo/libmonado-go"
)

func (a *app) infoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Print clients, devices, roles and tracking origins",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withMonado(func(m *libmonado.Monado) error {
				s, err := m.Snapshot()
				if err != nil {
					return err
				}
				return a.render(cmd.OutOrStdout(), s, func(w io.Writer) {
					snapshotTable(w, s)
				})
			})
		},
	}
}

func snapshotTable(w io.Writer, s *libmonado.Snapshot) {
	fmt.Fprintf(w, "Library:     %s\n", s.Library)
	fmt.Fprintf(w, "API version: %s\n", s.APIVersion)

	fmt.Fprintln(w, "\nClients:")
	clientTable(w, s.Clients)
	fmt.Fprintln(w, "\nDevices:")
	deviceTable(w, s.Devices)

	fmt.Fprintln(w, "\nRoles:")
	roles := newTable(w, "ROLE", "DEVICE")
	for _, r := range s.Roles {
		roles.Append([]string{r.Role.String(), strconv.FormatUint(uint64(r.Index), 10)})
	}
	roles.Render()

	fmt.Fprintln(w, "\nTracking origins:")
	originTable(w, s.Origins)
}

func (a *app) locateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "locate",
		Short: "Show which libmonado would be loaded, without loading it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			loc := libmonado.Location{Path: a.cfg.Library, Source: "flag"}
			if loc.Path == "" {
				var err error
				if loc, err = libmonado.LocateLibrary(a.libOptions()...); err != nil {
					return err
				}
			}
			return a.render(cmd.OutOrStdout(), loc, func(w io.Writer) {
				table := newTable(w, "PATH", "SOURCE", "MANIFEST")
				table.Append([]string{loc.Path, string(loc.Source), loc.Manifest})
				table.Render()
			})
		},
	}
}

type versionInfo struct {
	Version    string `json:"version" yaml:"version"`
	APIVersion string `json:"api_version,omitempty" yaml:"api_version,omitempty"`
	Library    string `json:"library,omitempty" yaml:"library,omitempty"`
}

func buildVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "(devel)"
}

func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the monadoctl version and, if reachable, the libmonado API version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v := versionInfo{Version: buildVersion()}
			if m, err := a.connect(); err != nil {
				a.logger.Debug("libmonado not reachable", "error", err)
			} else {
				v.APIVersion = m.APIVersion().String()
				v.Library = m.Path()
				m.Close()
			}
			return a.render(cmd.OutOrStdout(), v, func(w io.Writer) {
				fmt.Fprintf(w, "monadoctl %s\n", v.Version)
				if v.APIVersion != "" {
					fmt.Fprintf(w, "libmonado API %s (%s)\n", v.APIVersion, v.Library)
				}
			})
		},
	}
}
