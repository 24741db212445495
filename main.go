package main

import (
	"log"

	"github.com/campusfund/fee-api/app"
)

func main() {
	if err := app.SetupAndRunServer(); err != nil {
		log.Fatal(err)
	}
}
