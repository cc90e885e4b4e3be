package main

import (
	"os"

	"github.com/CMSgov/healthcare-facade/facade/facadecli"
	"github.com/CMSgov/healthcare-facade/log"
)

func main() {
	app := facadecli.GetApp()
	if err := app.Run(os.Args); err != nil {
		log.API.Fatal(err)
	}
}
