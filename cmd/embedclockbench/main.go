package main

import (
	"context"
	"log"

	"github.com/embedclock/embedclock/internal/embedclockbench"
)

func main() {
	if err := embedclockbench.Run(context.Background()); err != nil {
		log.Fatal(err)
	}
}
