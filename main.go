package main

import (
	"os"

	"github.com/open-prophetdb/siteproxy/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
