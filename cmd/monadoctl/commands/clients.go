package commands

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	libmonado "github.com/technobaboo/libmonado-go"
)

func clientTable(w io.Writer, clients []libmonado.ClientInfo) {
	table := newTable(w, "ID", "NAME", "STATE", "ERROR")
	for _, c := range clients {
		table.Append([]string{strconv.FormatUint(uint64(c.ID), 10), c.Name, c.State.String(), c.Error})
	}
	table.Render()
}

func (a *app) clientsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clients",
		Short: "List connected applications",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withMonado(func(m *libmonado.Monado) error {
				clients, err := m.Clients()
				if err != nil {
					return err
				}
				infos := make([]libmonado.ClientInfo, 0, len(clients))
				for _, c := range clients {
					infos = append(infos, c.Info())
				}
				return a.render(cmd.OutOrStdout(), infos, func(w io.Writer) {
					clientTable(w, infos)
				})
			})
		},
	}
}

func (a *app) clientCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "client",
		Short: "Change a connected application",
	}

	action := func(use, short string, fn func(c libmonado.Client) error) *cobra.Command {
		return &cobra.Command{
			Use:   use + " <id>",
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseIndex(args[0], "client id")
				if err != nil {
					return err
				}
				return a.withMonado(func(m *libmonado.Monado) error {
					return fn(m.Client(id))
				})
			},
		}
	}

	ioCmd := &cobra.Command{
		Use:       "io <id> on|off",
		Short:     "Enable or disable a client's input and output",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"on", "off"},
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIndex(args[0], "client id")
			if err != nil {
				return err
			}
			var active bool
			switch args[1] {
			case "on":
				active = true
			case "off":
			default:
				return fmt.Errorf("want on or off, got %q", args[1])
			}
			return a.withMonado(func(m *libmonado.Monado) error {
				return m.Client(id).SetIOActive(active)
			})
		},
	}

	cmd.AddCommand(
		action("primary", "Make a client the primary application", libmonado.Client.SetPrimary),
		action("focus", "Give a client input focus", libmonado.Client.SetFocused),
		ioCmd,
	)
	return cmd
}
