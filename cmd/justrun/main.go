package main

import (
	"os"

	"github.com/vk/justrun/internal/cli"
)

func main() {
	os.Exit(cli.Execute(os.Stdout, os.Stderr, os.Args[1:]))
}
