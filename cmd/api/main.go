package main

import (
	"fmt"
	"os"

	"github.com/veritasedu/veritas/internal/server"
)

func main() {
	srv, err := server.NewServer()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize server: %v\n", err)
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Server exited with error: %v\n", err)
		os.Exit(1)
	}
}
