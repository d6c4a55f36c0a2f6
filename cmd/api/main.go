package main

import (
	"os"

	"comicshare/cmd/api/command"
)

func main() {
	if err := command.Execute(); err != nil {
		os.Exit(1)
	}
}
