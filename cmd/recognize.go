package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/schoolhub/facerec/internal/config"
	"github.com/schoolhub/facerec/internal/facematch"
	"github.com/schoolhub/facerec/internal/provider"
	"github.com/spf13/cobra"
)

var recognizeCmd = &cobra.Command{
	Use:   "recognize <photo>",
	Short: "Recognize enrolled people in a photo",
	Long: `Recognize faces in a photo against a roster of enrolled people.
Faces claim roster identities in detection order and each identity is
assigned at most once.

Examples:
  # Recognize against a roster with the default threshold
  facerec recognize class.jpg --roster students.json

  # Loosen matching with an explicit distance tolerance
  facerec recognize class.jpg --roster students.json --tolerance 0.6`,
	Args: cobra.ExactArgs(1),
	RunE: runRecognize,
}

func init() {
	rootCmd.AddCommand(recognizeCmd)

	recognizeCmd.Flags().String("roster", "", "Roster JSON file with enrolled people")
	recognizeCmd.Flags().Float64("tolerance", 0, "Maximum match distance (lower is stricter)")
	recognizeCmd.Flags().Float64("threshold", 0, "Minimum match confidence (higher is stricter)")
}

func runRecognize(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	if cfg.Provider.URL == "" {
		return errors.New("ML_SERVICE_URL environment variable is required")
	}

	rosterPath := mustGetString(cmd, "roster")
	if rosterPath == "" {
		return errors.New("--roster is required")
	}
	identities, err := loadRoster(rosterPath)
	if err != nil {
		return err
	}

	defaultCutoff, err := facematch.FromThreshold(cfg.Matching.Cutoffs.RecognizeThreshold)
	if err != nil {
		return fmt.Errorf("invalid configured threshold: %w", err)
	}
	cutoff, err := resolveCutoff(cmd, defaultCutoff)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read photo: %w", err)
	}

	client := provider.NewClient(cfg.Provider.URL, cfg.Provider.MaxImageSize)
	detections, err := client.DetectFaces(context.Background(), data)
	if err != nil {
		return fmt.Errorf("failed to detect faces: %w", err)
	}
	if len(detections) == 0 {
		fmt.Println("No faces detected")
		return nil
	}

	decisions, err := facematch.Match(detections, identities, cutoff.Tolerance(), facematch.GreedyExclusiveByDetection)
	if err != nil {
		return fmt.Errorf("failed to match faces: %w", err)
	}

	names := make(map[string]facematch.KnownIdentity, len(identities))
	for _, id := range identities {
		names[id.ID] = id
	}

	matched := 0
	for i, dec := range decisions {
		if !dec.Matched {
			fmt.Printf("Face %d: unrecognized\n", i+1)
			continue
		}
		matched++
		id := names[dec.IdentityID]
		fmt.Printf("Face %d: %s (confidence %.4f)\n", i+1, id.Name, dec.Confidence)
	}
	fmt.Printf("\nRecognized %d out of %d faces (%s %.2f)\n",
		matched, len(detections), cutoff.Convention(), cutoff.Tolerance())
	return nil
}
