// Command gwen2d edits 2D game content projects stored in SQLite files.
package main

import "github.com/mesh-intelligence/gwen2d/internal/cli"

func main() {
	cli.Execute()
}
