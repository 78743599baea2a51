// Command plaide answers questions about a local corpus of legal
// documents, with cited sources.
package main

import (
	"github.com/plaide-labs/plaide-cli/internal/adapters/driving/cli"
)

func main() {
	cli.Execute()
}
