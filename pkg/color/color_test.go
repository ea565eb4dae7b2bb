package color

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func TestPrefixIsStable(t *testing.T) {
	assert.Same(t, colorFor("Agnes"), colorFor("Agnes"))
}

func TestPlainOutputWithoutColor(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = prev }()

	assert.Equal(t, "[you]", Prefix("you"))
	var buf bytes.Buffer
	Fprintln(&buf, "Agnes", "Water early in the morning.")
	assert.Equal(t, "[Agnes] Water early in the morning.\n", buf.String())
	assert.Equal(t, "done", Success("done"))
}
