package main

import (
	"log"

	"github.com/teachstack/edudir/internal/app"
)

func main() {
	if err := app.New().Run(); err != nil {
		log.Fatalf("edudir failed to start: %v", err)
	}
}
