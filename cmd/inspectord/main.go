package main

import (
	"log"

	"github.com/k8ika0s/wheel-inspector/internal/service"
)

func main() {
	if err := service.Run(); err != nil {
		log.Fatalf("inspector exited: %v", err)
	}
}
