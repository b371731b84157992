package main

import (
	"log"

	"arcade/internal/server"
)

// Configuration comes from $ARCADE_CONFIG and the environment; see
// internal/config.
func main() {
	if err := server.Run(""); err != nil {
		log.Fatalf("api: %v", err)
	}
}
