package main

import (
	"fmt"
	"os"

	"github.com/zingzy/wallbot/internal/cli"
	"github.com/zingzy/wallbot/internal/version"
)

func main() {
	cli.SetVersion(version.Version)

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}
