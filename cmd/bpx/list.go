package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dmitriylogunov/basic-pitch-experiment/pkg/basicpitch/model"
	"github.com/dmitriylogunov/basic-pitch-experiment/pkg/logger"
)

var listSource string

func init() {
	listCmd.Flags().StringVar(&listSource, "source", "", "Only show transcriptions of this source file")
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored transcriptions",
	Long:  `List shows every transcription in the database, newest first.`,
	Run: func(cmd *cobra.Command, args []string) {
		runList()
	},
}

func runList() {
	log := logger.GetLogger()

	svc, err := createService()
	if err != nil {
		fmt.Printf("❌ Failed to create service: %v\n", err)
		log.Errorf("Service initialization failed: %v", err)
		os.Exit(1)
	}
	defer svc.Close()

	var transcriptions []model.Transcription
	if listSource != "" {
		transcriptions, err = svc.FindTranscriptionsBySource(listSource)
	} else {
		transcriptions, err = svc.ListTranscriptions()
	}
	if err != nil {
		fmt.Printf("❌ Failed to list transcriptions: %v\n", err)
		log.Errorf("ListTranscriptions failed: %v", err)
		os.Exit(1)
	}

	if len(transcriptions) == 0 {
		fmt.Println("\n📭 No transcriptions in database")
		log.Infof("No transcriptions in database")
		return
	}

	fmt.Printf("\n📚 Found %d transcription(s):\n\n", len(transcriptions))
	for i, tr := range transcriptions {
		fmt.Printf("%d. %s (ID: %s)\n", i+1, tr.Source, tr.ID)
		fmt.Printf("   Tempo: %.1f BPM | Duration: %.1fs | Created: %s\n",
			tr.Tempo, tr.Duration, tr.CreatedAt.Format("2006-01-02 15:04"))
		fmt.Println()
	}
	log.Infof("Listed %d transcriptions", len(transcriptions))
}
