package color

import (
	"fmt"
	"hash/fnv"
	"io"
	"os"

	"github.com/fatih/color"
)

// Palette for speaker prefixes. A label always maps to the same color.
var prefixColors = []*color.Color{
	color.New(color.FgHiGreen),
	color.New(color.FgHiYellow),
	color.New(color.FgHiBlue),
	color.New(color.FgHiMagenta),
	color.New(color.FgHiCyan),
	color.New(color.FgGreen),
	color.New(color.FgYellow),
	color.New(color.FgBlue),
	color.New(color.FgMagenta),
	color.New(color.FgCyan),
}

var (
	success = color.New(color.FgGreen)
	warning = color.New(color.FgYellow)
	failure = color.New(color.FgRed, color.Bold)
	faint   = color.New(color.Faint)
)

func init() {
	// fatih/color already honors NO_COLOR and non-terminal stdout.
	if os.Getenv("FORCE_COLOR") != "" {
		color.NoColor = false
	}
}

func colorFor(label string) *color.Color {
	h := fnv.New32a()
	h.Write([]byte(label))
	return prefixColors[int(h.Sum32()%uint32(len(prefixColors)))]
}

// Prefix formats label as a colored "[label]".
func Prefix(label string) string {
	return colorFor(label).Sprintf("[%s]", label)
}

func Success(text string) string { return success.Sprint(text) }
func Warning(text string) string { return warning.Sprint(text) }
func Failure(text string) string { return failure.Sprint(text) }
func Faint(text string) string   { return faint.Sprint(text) }

// Fprintln writes text behind the colored prefix of label.
func Fprintln(w io.Writer, label, text string) {
	fmt.Fprintf(w, "%s %s\n", Prefix(label), text)
}
