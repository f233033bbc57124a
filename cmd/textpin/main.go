package main

import (
	"os"

	"github.com/kyiku/textpin-back/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
