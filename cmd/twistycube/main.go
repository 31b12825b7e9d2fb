// twistycube - an N×N×N twisty cube played in the terminal, mirrored from
// a GoCube, or recorded and replayed.
package main

import (
	"github.com/SeamusWaldron/twistycube/internal/cli"
)

func main() {
	cli.Execute()
}
