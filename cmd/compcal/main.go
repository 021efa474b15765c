package main

import (
	"github.com/joho/godotenv"

	"github.com/pfrederiksen/compcal/internal/cli"
)

func main() {
	// .env is optional; real environment variables take precedence
	_ = godotenv.Load()

	cli.Execute()
}
