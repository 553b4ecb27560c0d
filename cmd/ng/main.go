package main

import (
	"os"

	"github.com/ngcli/ng/cmd/ng/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
