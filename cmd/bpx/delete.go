package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dmitriylogunov/basic-pitch-experiment/pkg/logger"
)

func init() {
	rootCmd.AddCommand(deleteCmd)
}

var deleteCmd = &cobra.Command{
	Use:   "delete <transcription_id>",
	Short: "Delete a stored transcription",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runDelete(args[0])
	},
}

func runDelete(id string) {
	log := logger.GetLogger()

	svc, err := createService()
	if err != nil {
		fmt.Printf("❌ Failed to create service: %v\n", err)
		log.Errorf("Service initialization failed: %v", err)
		os.Exit(1)
	}
	defer svc.Close()

	// Fetch the transcription first so the confirmation can name it
	tr, err := svc.GetTranscription(id)
	if err != nil {
		fmt.Printf("❌ Transcription not found (ID: %s)\n", id)
		log.Warnf("Transcription %s not found: %v", id, err)
		os.Exit(1)
	}

	if err := svc.DeleteTranscription(id); err != nil {
		fmt.Printf("❌ Failed to delete transcription: %v\n", err)
		log.Errorf("DeleteTranscription failed: %v", err)
		os.Exit(1)
	}

	fmt.Printf("\n✅ Successfully deleted transcription:\n")
	fmt.Printf("   ID:     %s\n", tr.ID)
	fmt.Printf("   Source: %s\n", tr.Source)
	fmt.Printf("   Notes:  %d\n", len(tr.Notes))
	log.Infof("Deleted transcription %s (%s)", tr.ID, tr.Source)
}
