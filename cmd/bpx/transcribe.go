package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/dmitriylogunov/basic-pitch-experiment/pkg/basicpitch/midi"
	"github.com/dmitriylogunov/basic-pitch-experiment/pkg/logger"
)

var (
	midiOut    string
	saveResult bool
)

func init() {
	transcribeCmd.Flags().StringVar(&midiOut, "midi", "", "Write the detected notes to a standard MIDI file")
	transcribeCmd.Flags().BoolVar(&saveResult, "save", false, "Store the transcription in the database")
	rootCmd.AddCommand(transcribeCmd)
}

var transcribeCmd = &cobra.Command{
	Use:   "transcribe <audio_file>",
	Short: "Transcribe an audio file into note events",
	Long: `Transcribe decodes an audio file, runs the pitch detection pipeline and
prints the detected notes together with the estimated tempo. Non-WAV
inputs are converted through ffmpeg first.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runTranscribe(args[0])
	},
}

func runTranscribe(audioPath string) {
	log := logger.GetLogger()
	log.Infof("Transcribing audio file: %s", audioPath)

	fmt.Println("\n🔧 Initializing service...")
	svc, err := createService()
	if err != nil {
		fmt.Printf("❌ Failed to create service: %v\n", err)
		log.Errorf("Service initialization failed: %v", err)
		os.Exit(1)
	}
	defer svc.Close()

	fmt.Println("🎵 Processing audio file...")
	fmt.Println("   This may take a few moments for large files")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	tr, err := svc.Transcribe(ctx, audioPath, saveResult)
	if err != nil {
		fmt.Printf("\n❌ Failed to transcribe: %v\n", err)
		log.Errorf("Transcribe failed: %v", err)
		os.Exit(1)
	}

	fmt.Printf("\n✅ Transcribed %s\n", tr.Source)
	fmt.Printf("   Notes:    %d\n", len(tr.Notes))
	fmt.Printf("   Tempo:    %.1f BPM\n", tr.Tempo)
	fmt.Printf("   Duration: %.1fs\n", tr.Duration)
	if saveResult {
		fmt.Printf("   ID:       %s\n", tr.ID)
	}

	if len(tr.Notes) > 0 {
		fmt.Println("\n🎵 First notes:")
		fmt.Println()

		maxDisplay := 10
		if len(tr.Notes) < maxDisplay {
			maxDisplay = len(tr.Notes)
		}

		for i := 0; i < maxDisplay; i++ {
			n := tr.Notes[i]
			fmt.Printf("%d. pitch %d  %.2fs to %.2fs  (confidence %.2f)\n",
				i+1, n.Pitch, n.StartSec, n.EndSec, n.Confidence)
		}

		if len(tr.Notes) > maxDisplay {
			fmt.Printf("... and %d more notes\n", len(tr.Notes)-maxDisplay)
		}
	}

	if midiOut != "" {
		if err := midi.WriteFile(midiOut, tr.Notes, tr.Tempo); err != nil {
			fmt.Printf("\n❌ Failed to write MIDI file: %v\n", err)
			log.Errorf("MIDI write failed: %v", err)
			os.Exit(1)
		}
		fmt.Printf("\n✅ Wrote MIDI file: %s\n", midiOut)
		log.Infof("Wrote %d notes to %s", len(tr.Notes), midiOut)
	}
}
