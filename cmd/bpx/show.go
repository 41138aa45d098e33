package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dmitriylogunov/basic-pitch-experiment/pkg/logger"
)

func init() {
	rootCmd.AddCommand(showCmd)
}

var showCmd = &cobra.Command{
	Use:   "show <transcription_id>",
	Short: "Show a stored transcription with all of its notes",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runShow(args[0])
	},
}

func runShow(id string) {
	log := logger.GetLogger()

	svc, err := createService()
	if err != nil {
		fmt.Printf("❌ Failed to create service: %v\n", err)
		log.Errorf("Service initialization failed: %v", err)
		os.Exit(1)
	}
	defer svc.Close()

	tr, err := svc.GetTranscription(id)
	if err != nil {
		fmt.Printf("❌ Transcription not found (ID: %s)\n", id)
		log.Warnf("Transcription %s not found: %v", id, err)
		os.Exit(1)
	}

	fmt.Printf("\n🎵 %s\n", tr.Source)
	fmt.Printf("   ID:       %s\n", tr.ID)
	fmt.Printf("   Tempo:    %.1f BPM\n", tr.Tempo)
	fmt.Printf("   Duration: %.1fs\n", tr.Duration)
	fmt.Printf("   Created:  %s\n", tr.CreatedAt.Format("2006-01-02 15:04"))
	fmt.Printf("   Notes:    %d\n", len(tr.Notes))

	if len(tr.Notes) > 0 {
		fmt.Println()
		for i, n := range tr.Notes {
			fmt.Printf("%4d. pitch %-3d  %7.2fs - %7.2fs  confidence %.2f\n",
				i+1, n.Pitch, n.StartSec, n.EndSec, n.Confidence)
		}
	}
	log.Infof("Showed transcription %s (%d notes)", tr.ID, len(tr.Notes))
}
