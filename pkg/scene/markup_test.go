package scene

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tether/pkg/css"
	"tether/pkg/geom"
)

func TestLoadMarkupMatchesTOML(t *testing.T) {
	fromHTML, err := Load(filepath.Join("testdata", "tooltip.html"))
	require.NoError(t, err)
	fromTOML, err := Load(filepath.Join("testdata", "tooltip.toml"))
	require.NoError(t, err)

	assert.Equal(t, fromTOML.Title, fromHTML.Title)
	assert.Equal(t, fromTOML.Viewport, fromHTML.Viewport)
	assert.Equal(t, fromTOML.Position, fromHTML.Position)

	htmlStage, err := fromHTML.Build()
	require.NoError(t, err)
	tomlStage, err := fromTOML.Build()
	require.NoError(t, err)
	assert.Equal(t, tomlStage.IDs(), htmlStage.IDs())

	for _, id := range tomlStage.IDs() {
		want, _ := tomlStage.Element(id)
		got, err := htmlStage.Element(id)
		require.NoError(t, err)
		assert.Equal(t, want.BoundingClientRect(), got.BoundingClientRect(), id)
		assert.Equal(t, want.ComputedStyle().String(), got.ComputedStyle().String(), id)
	}

	pos, err := htmlStage.Compute()
	require.NoError(t, err)
	assert.Equal(t, geom.Coords{X: 110, Y: 140}, pos.Coords())
}

func TestParseMarkupStructure(t *testing.T) {
	s, err := ParseMarkup(`
		<style>.host { position: relative } svg circle { display: none }</style>
		<div id="host" class="host" data-rect="0,0,200,100" style="overflow: auto" data-scroll="0 15">
			<template shadowrootmode="open">
				<div class="wrap"><slot name="label"></slot></div>
			</template>
			<span slot="label"></span>
		</div>
		<svg data-rect="0,100,50,50"><circle id="dot"/></svg>
		<iframe id="frame" data-cross-origin data-rect="0,150,100,100"></iframe>
		<div id="div-1"></div>
		<script>var ready = true;</script>
	`)
	require.NoError(t, err)

	ids := make([]string, len(s.Elements))
	for i, el := range s.Elements {
		ids[i] = el.ID
	}
	assert.Equal(t, []string{"host", "div-2", "slot-3", "span-4", "svg-5", "dot", "frame", "div-1"}, ids)

	byID := make(map[string]Element)
	for _, el := range s.Elements {
		byID[el.ID] = el
	}
	assert.Equal(t, []float64{0, 15}, byID["host"].Scroll)
	assert.Equal(t, "overflow: auto; overflow-x: auto; overflow-y: auto; position: relative", byID["host"].Style)

	wrap := byID["div-2"]
	assert.True(t, wrap.Shadow)
	assert.Equal(t, "host", wrap.Parent)
	assert.Equal(t, Element{ID: "slot-3", Tag: "slot", Parent: "div-2", Slot: "label"}, byID["slot-3"])
	assert.Equal(t, Element{ID: "span-4", Tag: "span", Parent: "host", Slot: "label"}, byID["span-4"])

	assert.True(t, byID["svg-5"].Foreign)
	assert.True(t, byID["dot"].Foreign)
	assert.Equal(t, "svg-5", byID["dot"].Parent)
	assert.Equal(t, "display: none", byID["dot"].Style)
	assert.True(t, byID["frame"].CrossOrigin)
	assert.False(t, byID["div-1"].Foreign)

	assert.Equal(t, "var ready = true;", s.Script)
	assert.Nil(t, s.Position)
	assert.Equal(t, 1024.0, s.Viewport.Width, "viewport defaults apply")

	_, err = s.Build()
	require.NoError(t, err)
}

func TestTOMLSceneWithMarkup(t *testing.T) {
	s, err := Parse([]byte(`
title = "mixed"
script = "var fromTOML = 1;"
markup = """
<div id="card" style="position: relative" data-rect="10,10,100,100"></div>
<script>var fromMarkup = 1;</script>
"""

[position]
reference = "card"
floating = "tip"

[[element]]
id = "tip"
parent = "card"
rect = [0, 0, 10, 10]
style = "position: absolute"
`))
	require.NoError(t, err)
	require.Len(t, s.Elements, 2)
	assert.Equal(t, "card", s.Elements[0].ID, "markup elements come first")
	assert.Equal(t, "var fromMarkup = 1;\nvar fromTOML = 1;", s.Script)
	assert.Empty(t, s.Markup, "markup is consumed by Parse")

	st, err := s.Build()
	require.NoError(t, err)
	pos, err := st.Compute()
	require.NoError(t, err)
	assert.Equal(t, geom.Coords{X: 45, Y: 100}, pos.Coords())
}

func TestParseMarkupErrors(t *testing.T) {
	tests := map[string]string{
		"bad rect":       `<div data-rect="1,2,3"></div>`,
		"bad number":     `<div data-scroll="a,b"></div>`,
		"orphan shadow":  `<template shadowrootmode="open"><div></div></template>`,
		"bad stylesheet": `<style>div { color: red</style>`,
		"bad viewport":   `<body data-viewport="800"></body>`,
		"duplicate ids":  `<div id="a"></div><p id="a"></p>`,
	}
	for name, markup := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseMarkup(markup)
			assert.Error(t, err)
		})
	}
}

func TestMarkupCascadeUsesSharedSelectors(t *testing.T) {
	s, err := ParseMarkup(`<style>#a > .b { z-index: 3 }</style><div id="a"><div class="b"></div></div>`)
	require.NoError(t, err)
	style := css.ParseInlineStyle(s.Elements[1].Style)
	assert.Equal(t, "3", style.GetOr("z-index", ""))
}
