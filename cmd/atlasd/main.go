package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"atlascli/internal/app"
)

func main() {
	port := flag.Int("port", 0, "listen port (overrides ATLAS_SERVER_PORT)")
	flag.Parse()

	application, err := app.NewApplication()
	if err != nil {
		slog.Error("Failed to initialize application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if *port != 0 {
		application.Config.Server.Port = *port
		application.Server.Addr = fmt.Sprintf(":%d", *port)
	}

	if err := application.Run(); err != nil {
		slog.Error("Application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
