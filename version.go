package panel

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var version string

// Version of the panel module, a semantic version such as v0.4.0.
var Version = strings.TrimSpace(version)
