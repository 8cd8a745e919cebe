package main

import (
	"os"

	"github.com/roach88/htmlconf/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
