// Package svgpath rescales SVG path data strings between bounding
// boxes. The engine treats it as an opaque d-string transform.
package svgpath

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/linea-app/linea/backend-go/internal/engine"
)

// command is one parsed path command with its numeric arguments.
type command struct {
	op   byte
	args []float64
}

var commandRe = regexp.MustCompile(`([MmLlHhVvCcSsQqTtAaZz])([^MmLlHhVvCcSsQqTtAaZz]*)`)

// Resizer implements engine.PathResizer.
type Resizer struct{}

// Resize maps every coordinate of d from oldBounds into newBounds.
// Absolute coordinates are translated and scaled; relative ones are
// scaled only. A zero-length source axis maps with scale 1. Malformed
// input is returned unchanged.
func (Resizer) Resize(d string, oldBounds, newBounds engine.Bounds) string {
	commands := parse(d)
	if len(commands) == 0 {
		return d
	}

	sx := 1.0
	if oldBounds.Width() != 0 {
		sx = newBounds.Width() / oldBounds.Width()
	}
	sy := 1.0
	if oldBounds.Height() != 0 {
		sy = newBounds.Height() / oldBounds.Height()
	}
	absX := func(v float64) float64 { return newBounds.MinX + (v-oldBounds.MinX)*sx }
	absY := func(v float64) float64 { return newBounds.MinY + (v-oldBounds.MinY)*sy }
	relX := func(v float64) float64 { return v * sx }
	relY := func(v float64) float64 { return v * sy }

	var sb strings.Builder
	for ci, cmd := range commands {
		if ci > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteByte(cmd.op)

		args := make([]float64, len(cmd.args))
		copy(args, cmd.args)

		switch cmd.op {
		case 'M', 'L', 'T':
			mapPairs(args, absX, absY)
		case 'm', 'l', 't':
			mapPairs(args, relX, relY)
		case 'C', 'S', 'Q':
			mapPairs(args, absX, absY)
		case 'c', 's', 'q':
			mapPairs(args, relX, relY)
		case 'H':
			mapAll(args, absX)
		case 'h':
			mapAll(args, relX)
		case 'V':
			mapAll(args, absY)
		case 'v':
			mapAll(args, relY)
		case 'A', 'a':
			// rx ry x-axis-rotation large-arc sweep x y, repeated
			for i := 0; i+6 < len(args); i += 7 {
				args[i] = relX(args[i])
				args[i+1] = relY(args[i+1])
				if cmd.op == 'A' {
					args[i+5] = absX(args[i+5])
					args[i+6] = absY(args[i+6])
				} else {
					args[i+5] = relX(args[i+5])
					args[i+6] = relY(args[i+6])
				}
			}
		case 'Z', 'z':
			// no arguments
		}

		for _, a := range args {
			sb.WriteByte(' ')
			sb.WriteString(strconv.FormatFloat(a, 'g', -1, 64))
		}
	}

	return sb.String()
}

// parse splits a d-string into commands. Unknown bytes are dropped.
func parse(d string) []command {
	matches := commandRe.FindAllStringSubmatch(strings.TrimSpace(d), -1)
	commands := make([]command, 0, len(matches))
	for _, m := range matches {
		commands = append(commands, command{op: m[1][0], args: parseArgs(m[2])})
	}
	return commands
}

func parseArgs(s string) []float64 {
	s = strings.ReplaceAll(s, ",", " ")
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return nil
	}
	args := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			continue
		}
		args = append(args, v)
	}
	return args
}

func mapPairs(args []float64, fx, fy func(float64) float64) {
	for i := 0; i+1 < len(args); i += 2 {
		args[i] = fx(args[i])
		args[i+1] = fy(args[i+1])
	}
}

func mapAll(args []float64, f func(float64) float64) {
	for i := range args {
		args[i] = f(args[i])
	}
}
