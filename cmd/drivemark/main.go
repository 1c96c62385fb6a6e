package main

import (
	"log"

	"github.com/MrSnakeDoc/drivemark/internal/app"
)

func main() {
	if err := app.New().Run(); err != nil {
		log.Fatalf("❌ drivemark failed to start: %v", err)
	}
}
