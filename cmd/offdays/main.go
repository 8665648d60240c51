package main

import (
	"log"

	"github.com/teamoff/offdays/internal/app"
)

func main() {
	a, err := app.New()
	if err != nil {
		log.Fatalf("offdays failed to start: %v", err)
	}
	if err := a.Run(); err != nil {
		log.Fatalf("offdays failed: %v", err)
	}
}
