// Command panel drives displays and serves previews of what is drawn on them.
package main

import (
	"context"

	"github.com/BeatGlow/panel/internal/cli"
)

func main() {
	cli.Execute(context.Background())
}
