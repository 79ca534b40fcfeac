package main

import (
	"flag"
	"fmt"
	"os"

	"pollchat/internal/app"
)

func main() {
	cfg, err := app.ClientConfigFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "pollchat-client: %v\n", err)
		os.Exit(1)
	}

	server := flag.String("server", cfg.ServerURL, "pollchat server base URL")
	username := flag.String("user", cfg.Username, "display name")
	flag.Parse()
	cfg.ServerURL = *server
	cfg.Username = *username

	if err := app.RunClient(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "pollchat-client: %v\n", err)
		os.Exit(1)
	}
}
