package commands

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	libmonado "github.com/technobaboo/libmonado-go"
)

func deviceTable(w io.Writer, devices []libmonado.DeviceInfo) {
	table := newTable(w, "INDEX", "NAME", "SERIAL", "BATTERY", "BRIGHTNESS")
	for _, d := range devices {
		battery := "-"
		if b := d.Battery; b != nil {
			battery = fmt.Sprintf("%.0f%%", b.Charge*100)
			if b.Charging {
				battery += " (charging)"
			}
		}
		brightness := "-"
		if d.Brightness != nil {
			brightness = strconv.FormatFloat(float64(*d.Brightness), 'f', 2, 32)
		}
		table.Append([]string{strconv.FormatUint(uint64(d.Index), 10), d.Name, d.Serial, battery, brightness})
	}
	table.Render()
}

func (a *app) devicesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "devices",
		Short: "List devices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withMonado(func(m *libmonado.Monado) error {
				devices, err := m.Devices()
				if err != nil {
					return err
				}
				infos := make([]libmonado.DeviceInfo, 0, len(devices))
				for _, d := range devices {
					infos = append(infos, d.Info())
				}
				return a.render(cmd.OutOrStdout(), infos, func(w io.Writer) {
					deviceTable(w, infos)
				})
			})
		},
	}
}

func (a *app) deviceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "device",
		Short: "Inspect or change a device",
	}

	var relative bool
	brightness := &cobra.Command{
		Use:   "brightness <index> [value]",
		Short: "Print or set a display's brightness",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parseIndex(args[0], "device index")
			if err != nil {
				return err
			}
			var value float32
			if len(args) == 2 {
				if value, err = parseFloat(args[1], "brightness"); err != nil {
					return err
				}
			}
			return a.withMonado(func(m *libmonado.Monado) error {
				d, err := m.Device(index)
				if err != nil {
					return err
				}
				if len(args) == 2 {
					if err := d.SetBrightness(value, relative); err != nil {
						return err
					}
				}
				current, err := d.Brightness()
				if err != nil {
					return err
				}
				out := struct {
					Index      uint32  `json:"index" yaml:"index"`
					Brightness float32 `json:"brightness" yaml:"brightness"`
				}{index, current}
				return a.render(cmd.OutOrStdout(), out, func(w io.Writer) {
					fmt.Fprintf(w, "%s: %.2f\n", d.Name, current)
				})
			})
		},
	}
	brightness.Flags().BoolVar(&relative, "relative", false, "add value to the current brightness")

	cmd.AddCommand(brightness)
	return cmd
}

func (a *app) roleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "role <role>",
		Short: "Show the device assigned to a role such as head or left",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			role, err := libmonado.ParseDeviceRole(args[0])
			if err != nil {
				return err
			}
			return a.withMonado(func(m *libmonado.Monado) error {
				d, err := m.DeviceFromRole(role)
				if err != nil {
					return err
				}
				info := d.Info()
				return a.render(cmd.OutOrStdout(), info, func(w io.Writer) {
					deviceTable(w, []libmonado.DeviceInfo{info})
				})
			})
		},
	}
}
