package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"

	libmonado "github.com/technobaboo/libmonado-go"
)

// render writes v as JSON or YAML, or calls table for the default format.
func (a *app) render(w io.Writer, v any, table func(w io.Writer)) error {
	switch a.cfg.Output {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		table(w)
		return nil
	}
}

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")
	return table
}

func formatVec(v []float32) string {
	parts := make([]string, len(v))
	for i, f := range v {
		parts[i] = strconv.FormatFloat(float64(f), 'f', 3, 32)
	}
	return strings.Join(parts, ", ")
}

func formatPosition(p libmonado.Pose) string {
	return formatVec(p.Position[:])
}

func formatOrientation(p libmonado.Pose) string {
	q := p.Orientation
	return formatVec([]float32{q.V[0], q.V[1], q.V[2], q.W})
}

func poseTable(w io.Writer, p libmonado.Pose) {
	table := newTable(w, "POSITION", "ORIENTATION")
	table.Append([]string{formatPosition(p), formatOrientation(p)})
	table.Render()
}

// parseFloats reads exactly n comma separated numbers.
func parseFloats(s string, n int) ([]float32, error) {
	parts := strings.Split(s, ",")
	if len(parts) != n {
		return nil, fmt.Errorf("want %d comma separated numbers, got %q", n, s)
	}
	out := make([]float32, n)
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", p)
		}
		out[i] = float32(f)
	}
	return out, nil
}

// applyPose overrides the parts of p given as "x,y,z" and "x,y,z,w".
// Empty strings leave that part unchanged.
func applyPose(p libmonado.Pose, position, orientation string) (libmonado.Pose, error) {
	if position != "" {
		v, err := parseFloats(position, 3)
		if err != nil {
			return p, fmt.Errorf("position: %w", err)
		}
		p.Position = mgl32.Vec3{v[0], v[1], v[2]}
	}
	if orientation != "" {
		v, err := parseFloats(orientation, 4)
		if err != nil {
			return p, fmt.Errorf("orientation: %w", err)
		}
		q := mgl32.Quat{W: v[3], V: mgl32.Vec3{v[0], v[1], v[2]}}
		if q.Len() == 0 {
			return p, fmt.Errorf("orientation: zero quaternion")
		}
		p.Orientation = q.Normalize()
	}
	return p, nil
}

func parseIndex(s, what string) (uint32, error) {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", what, s)
	}
	return uint32(v), nil
}

func parseFloat(s, what string) (float32, error) {
	v, err := strconv.ParseFloat(s, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", what, s)
	}
	return float32(v), nil
}
