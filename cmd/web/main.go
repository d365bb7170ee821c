// Command web runs the headless mkFocus HTTP API. It builds the same core as
// the desktop app, so business logic and storage are shared without
// duplication.
package main

import "github.com/MihkelHunter/mkFocus/internal/cli"

func main() {
	cli.Execute()
}
