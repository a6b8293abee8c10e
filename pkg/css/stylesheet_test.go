package css

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStylesheet(t *testing.T) {
	sheet, err := ParseStylesheet(`
		/* tooltip */
		#tip, .popover { position: absolute; top: 0 /* reset */; }
		.card > .anchor { background-color: red !important; }
	`)
	require.NoError(t, err)
	require.Len(t, sheet.Rules, 2)
	assert.Len(t, sheet.Rules[0].Selectors, 2)
	assert.Equal(t, []Declaration{
		{Property: "position", Value: "absolute"},
		{Property: "top", Value: "0"},
	}, sheet.Rules[0].Declarations)
	assert.Equal(t, []Declaration{
		{Property: "background-color", Value: "red", Important: true},
	}, sheet.Rules[1].Declarations)
	assert.Zero(t, sheet.Skipped)
}

func TestParseStylesheetRecovers(t *testing.T) {
	sheet, err := ParseStylesheet(`
		@charset "utf-8";
		@media (min-width: 600px) { .a { color: red } .b { color: blue } }
		a:hover { color: green }
		p { color: black; bogus; : nothing; width: }
	`)
	require.NoError(t, err)
	require.Len(t, sheet.Rules, 1)
	assert.Equal(t, []Declaration{{Property: "color", Value: "black"}}, sheet.Rules[0].Declarations)
	assert.Equal(t, 3, sheet.Skipped)
}

func TestParseStylesheetErrors(t *testing.T) {
	for _, src := range []string{`div { color: red`, `div color: red }`} {
		_, err := ParseStylesheet(src)
		assert.Error(t, err, src)
	}
}

func TestParseStylesheetUnterminatedComment(t *testing.T) {
	sheet, err := ParseStylesheet(`p { color: red } /* trailing`)
	require.NoError(t, err)
	assert.Len(t, sheet.Rules, 1)
}
