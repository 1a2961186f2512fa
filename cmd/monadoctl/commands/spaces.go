package commands

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	libmonado "github.com/technobaboo/libmonado-go"
)

func originTable(w io.Writer, origins []libmonado.OriginInfo) {
	table := newTable(w, "ID", "NAME", "POSITION", "ORIENTATION", "ERROR")
	for _, o := range origins {
		var position, orientation string
		if o.Offset != nil {
			position, orientation = formatPosition(*o.Offset), formatOrientation(*o.Offset)
		}
		table.Append([]string{strconv.FormatUint(uint64(o.ID), 10), o.Name, position, orientation, o.Error})
	}
	table.Render()
}

func (a *app) originsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "origins",
		Short: "List tracking origins and their offsets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withMonado(func(m *libmonado.Monado) error {
				origins, err := m.TrackingOrigins()
				if err != nil {
					return err
				}
				infos := make([]libmonado.OriginInfo, 0, len(origins))
				for _, o := range origins {
					infos = append(infos, o.Info())
				}
				return a.render(cmd.OutOrStdout(), infos, func(w io.Writer) {
					originTable(w, infos)
				})
			})
		},
	}
}

// poseFlags adds --position and --orientation to cmd.
func poseFlags(cmd *cobra.Command, position, orientation *string) {
	cmd.Flags().StringVar(position, "position", "", "new position as x,y,z in meters")
	cmd.Flags().StringVar(orientation, "orientation", "", "new orientation quaternion as x,y,z,w")
}

// updatePose reads the current pose, applies any pose flags and writes it
// back if something changed. It returns the resulting pose.
func updatePose(get func() (libmonado.Pose, error), set func(libmonado.Pose) error, position, orientation string) (libmonado.Pose, error) {
	pose, err := get()
	if err != nil {
		return libmonado.Pose{}, err
	}
	if position == "" && orientation == "" {
		return pose, nil
	}
	if pose, err = applyPose(pose, position, orientation); err != nil {
		return libmonado.Pose{}, err
	}
	if err := set(pose); err != nil {
		return libmonado.Pose{}, err
	}
	return pose, nil
}

func (a *app) originCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "origin",
		Short: "Inspect or move a tracking origin",
	}

	var position, orientation string
	offset := &cobra.Command{
		Use:   "offset <id>",
		Short: "Print or set a tracking origin's offset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIndex(args[0], "origin id")
			if err != nil {
				return err
			}
			return a.withMonado(func(m *libmonado.Monado) error {
				o := m.TrackingOrigin(id)
				pose, err := updatePose(o.Offset, o.SetOffset, position, orientation)
				if err != nil {
					return err
				}
				return a.render(cmd.OutOrStdout(), pose, func(w io.Writer) {
					poseTable(w, pose)
				})
			})
		},
	}
	poseFlags(offset, &position, &orientation)

	cmd.AddCommand(offset)
	return cmd
}

func (a *app) spaceCmd() *cobra.Command {
	var position, orientation string
	cmd := &cobra.Command{
		Use:       "space <view|local|local-floor|stage|unbounded>",
		Short:     "Print or set a reference space offset",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"view", "local", "local-floor", "stage", "unbounded"},
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := libmonado.ParseReferenceSpaceType(args[0])
			if err != nil {
				return err
			}
			return a.withMonado(func(m *libmonado.Monado) error {
				get := func() (libmonado.Pose, error) { return m.ReferenceSpaceOffset(t) }
				set := func(p libmonado.Pose) error { return m.SetReferenceSpaceOffset(t, p) }
				pose, err := updatePose(get, set, position, orientation)
				if err != nil {
					return err
				}
				return a.render(cmd.OutOrStdout(), pose, func(w io.Writer) {
					poseTable(w, pose)
				})
			})
		},
	}
	poseFlags(cmd, &position, &orientation)
	return cmd
}

func (a *app) recenterCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recenter",
		Short: "Recenter the local spaces on the current head pose",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withMonado(func(m *libmonado.Monado) error {
				return m.RecenterLocalSpaces()
			})
		},
	}
}

func (a *app) chromaKeyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chroma-key <color> <threshold> <smoothing>",
		Short: "Set the passthrough chroma key",
		Long: `Set the passthrough chroma key.

color is #rrggbb, #rgb or r,g,b with components in 0..1.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			color, err := libmonado.ParseRGB(args[0])
			if err != nil {
				return err
			}
			threshold, err := parseFloat(args[1], "threshold")
			if err != nil {
				return err
			}
			smoothing, err := parseFloat(args[2], "smoothing")
			if err != nil {
				return err
			}
			return a.withMonado(func(m *libmonado.Monado) error {
				if err := m.SetChromaKeyParams(color, threshold, smoothing); err != nil {
					return fmt.Errorf("set chroma key: %w", err)
				}
				a.logger.Debug("chroma key set", "color", color.Hex(), "threshold", threshold, "smoothing", smoothing)
				return nil
			})
		},
	}
}
