package main

import (
	"context"
	"os"
	"time"

	"github.com/shandysiswandi/gobank/internal/app"
)

func main() {
	application := app.New(os.Stdin, os.Stdout) // Initialize the application
	wait := application.Start()                 // Run the console until exit or a termination signal
	<-wait                                      // Wait for the console to end or a signal

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	application.Stop(ctx) // Stop the application gracefully
}
