package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/Paulndambo/nismart-go/internal/cli"
	"github.com/Paulndambo/nismart-go/internal/config"
)

func main() {
	// A missing .env file is fine; real environment variables still apply.
	_ = godotenv.Load()

	root := cli.NewRootCmd(config.New())
	if err := root.Execute(); err != nil {
		log.SetFlags(0)
		log.Fatalf("Error: %s", err)
	}
}
