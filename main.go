package main

import (
	"golang-backtest/cmd"
	"log"

	"github.com/joho/godotenv"
)

func main() {
	// Load .env if present; real deployments configure via environment.
	_ = godotenv.Load()

	if err := cmd.Execute(); err != nil {
		log.Fatalf("could not start application: %v", err)
	}
}
