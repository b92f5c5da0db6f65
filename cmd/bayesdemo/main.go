package main

import (
	"fmt"
	"os"

	"github.com/fujihiraryo/watanabe-bayes/cmd/bayesdemo/demo"
)

// main implements the bayesdemo cli.
func main() {
	app := demo.NewApp()
	if err := app.Run(os.Args); err != nil {
		code := 1
		fmt.Fprintln(os.Stderr, err)
		os.Exit(code)
	}
}
