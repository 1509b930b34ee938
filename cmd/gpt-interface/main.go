package main

import (
	"log"

	"github.com/gpt-interface/gpt-interface-go/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		log.Fatalf("gpt-interface: %v", err)
	}
}
