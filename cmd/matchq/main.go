// Command matchq compiles and runs declarative filter documents.
package main

import (
	"os"

	"github.com/roach88/matchq/internal/cli"
)

func main() {
	os.Exit(cli.Execute(cli.NewRootCommand()))
}
