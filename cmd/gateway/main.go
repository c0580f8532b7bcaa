package main

import (
	_ "github.com/joho/godotenv/autoload" // Autoload .env file.

	"github.com/vietanh2810/fulfillment/internal/app"
)

func main() {
	if err := app.StartGateway("./cmd/gateway/config.yml"); err != nil {
		panic(err)
	}
}
