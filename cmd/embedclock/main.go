package main

import (
	"context"

	"github.com/embedclock/embedclock/internal/embedclock"
)

func main() {
	if err := embedclock.Run(context.Background()); err != nil {
		embedclock.Fatal(err)
	}
}
