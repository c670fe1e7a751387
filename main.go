package main

import (
	"log"
	"os"

	"github.com/penwyp/claudestat/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.SetFlags(0)
		log.Printf("Error: %v", err)
		os.Exit(1)
	}
}
