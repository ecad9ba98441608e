package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/meigma/shoko"
)

func TestRenderTree(t *testing.T) {
	t.Parallel()

	entries := []shoko.Entry{
		{Path: "src/main.go", Size: 120},
		{Path: "README", Size: 40},
		{Path: "src/lib/util.go", Size: 77},
		{Path: "src", Size: 9},
	}

	var buf bytes.Buffer
	renderTree(&buf, buildTree(entries))

	want := "" +
		"├── README (40 bytes)\n" +
		"├── src\n" +
		"│   ├── lib\n" +
		"│   │   └── util.go (77 bytes)\n" +
		"│   └── main.go (120 bytes)\n" +
		"└── src (9 bytes)\n"
	assert.Equal(t, want, buf.String())
}

func TestRenderTree_Empty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	renderTree(&buf, buildTree(nil))
	assert.Empty(t, buf.String())
}
