package main

import (
	"log"

	"github.com/immodirect7-wq/immodirect/internal/app"
	"github.com/immodirect7-wq/immodirect/internal/app/config"
)

func main() {
	cfg := config.MustLoad()

	application, err := app.New(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	application.Run()
}
