// Command bobbin is the thin CLI entrypoint (spec §6): it only wires
// cobra's root command and defers everything else to internal/cli.
package main

import "github.com/bobbinhq/bobbin/internal/cli"

func main() {
	cli.Execute()
}
