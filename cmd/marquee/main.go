package main

import (
	"fmt"
	"os"

	"github.com/mmcdole/marquee/internal/cli"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	app := cli.NewApp(nil)
	return app.Execute()
}
