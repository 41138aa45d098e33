package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dmitriylogunov/basic-pitch-experiment/internal/server"
	"github.com/dmitriylogunov/basic-pitch-experiment/pkg/logger"
)

var (
	servePort    int
	serveOrigins string
)

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", defaultPort(), "Port for the HTTP server (env: BASICPITCH_PORT)")
	serveCmd.Flags().StringVar(&serveOrigins, "origins", "*", "Comma separated list of allowed CORS origins")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP transcription server",
	Long: `Serve starts an HTTP server that accepts audio uploads and returns
transcriptions as JSON. Stored transcriptions can be listed, fetched
and deleted through the same API.`,
	Run: func(cmd *cobra.Command, args []string) {
		runServe()
	},
}

func defaultPort() int {
	if v := os.Getenv("BASICPITCH_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			return p
		}
	}
	return 8080
}

func splitOrigins(s string) []string {
	var origins []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			origins = append(origins, part)
		}
	}
	return origins
}

func runServe() {
	log := logger.GetLogger()

	fmt.Println("\n🔧 Initializing service...")
	svc, err := createService()
	if err != nil {
		fmt.Printf("❌ Failed to create service: %v\n", err)
		log.Errorf("Service initialization failed: %v", err)
		os.Exit(1)
	}
	defer svc.Close()

	srv := server.New(svc, &server.Config{
		Port:           servePort,
		TempDir:        tempDir,
		AllowedOrigins: splitOrigins(serveOrigins),
	})

	if err := srv.Start(); err != nil {
		fmt.Printf("❌ Server stopped: %v\n", err)
		log.Errorf("Server stopped: %v", err)
		os.Exit(1)
	}
}
