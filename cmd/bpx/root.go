package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/dmitriylogunov/basic-pitch-experiment/pkg/basicpitch"
)

// Global flags shared by every command
var (
	dbPath     string
	tempDir    string
	configFile string
)

var rootCmd = &cobra.Command{
	Use:   "bpx",
	Short: "Audio to MIDI transcription tool",
	Long: `bpx converts audio recordings into note events with pitch, timing and
tempo using a spectral analysis pipeline. Transcriptions can be written
out as standard MIDI files or stored in a local SQLite database.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", getEnvOrDefault("BASICPITCH_DB_PATH", "basicpitch.sqlite3"), "Path to the SQLite database file")
	rootCmd.PersistentFlags().StringVar(&tempDir, "temp", getEnvOrDefault("BASICPITCH_TEMP_DIR", "/tmp"), "Directory for temporary audio conversion files")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to a YAML config file (env: BASICPITCH_CONFIG)")
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// createService creates a transcription service with the global flag options
func createService() (basicpitch.Service, error) {
	opts := []basicpitch.Option{
		basicpitch.WithDBPath(dbPath),
		basicpitch.WithTempDir(tempDir),
	}
	if configFile != "" {
		opts = append(opts, basicpitch.WithConfigFile(configFile))
	}
	return basicpitch.NewService(opts...)
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
