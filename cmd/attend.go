package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/schollz/progressbar/v3"
	"github.com/schoolhub/facerec/internal/config"
	"github.com/schoolhub/facerec/internal/facematch"
	"github.com/schoolhub/facerec/internal/provider"
	"github.com/spf13/cobra"
)

var attendCmd = &cobra.Command{
	Use:   "attend <photo>...",
	Short: "Take attendance from one or more class photos",
	Long: `Take attendance by matching faces across class photos against a
roster of enrolled people. Detections from all photos are pooled, so a
student seen in any photo counts as present.

Examples:
  # Attendance from a single photo (5 concurrent uploads)
  facerec attend class.jpg --roster students.json

  # Multiple photos of the same session
  facerec attend front.jpg back.jpg --roster students.json --concurrency 3`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAttend,
}

func init() {
	rootCmd.AddCommand(attendCmd)

	attendCmd.Flags().String("roster", "", "Roster JSON file with enrolled people")
	attendCmd.Flags().Float64("tolerance", 0, "Maximum match distance (lower is stricter)")
	attendCmd.Flags().Int("concurrency", 5, "Number of photos processed in parallel")
}

func runAttend(cmd *cobra.Command, args []string) error {
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
	fmt.Printf("Roster loaded: %d people\n", len(identities))

	defaultCutoff, err := facematch.FromTolerance(cfg.Matching.Cutoffs.AttendanceTolerance)
	if err != nil {
		return fmt.Errorf("invalid configured tolerance: %w", err)
	}
	cutoff, err := resolveCutoff(cmd, defaultCutoff)
	if err != nil {
		return err
	}

	client := provider.NewClient(cfg.Provider.URL, cfg.Provider.MaxImageSize)
	concurrency := mustGetInt(cmd, "concurrency")

	bar := progressbar.NewOptions(len(args),
		progressbar.OptionSetDescription("Scanning photos"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("photos"),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionFullWidth(),
	)

	// Photos are independent; a failed one contributes no detections
	// instead of failing the whole run.
	photoDetections := make([][]facematch.Detection, len(args))
	var errorCount int
	var mu sync.Mutex

	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup

	ctx := context.Background()
	for i, path := range args {
		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			defer bar.Add(1)

			data, err := os.ReadFile(path)
			if err != nil {
				mu.Lock()
				errorCount++
				mu.Unlock()
				return
			}

			detections, err := client.DetectFaces(ctx, data)
			if err != nil {
				mu.Lock()
				errorCount++
				mu.Unlock()
				return
			}
			photoDetections[i] = detections
		}(i, path)
	}

	wg.Wait()
	fmt.Println()

	if errorCount > 0 {
		fmt.Printf("Warning: %d photo(s) could not be processed\n", errorCount)
	}

	verdicts, err := facematch.Aggregate(identities, photoDetections, cutoff.Tolerance())
	if err != nil {
		return fmt.Errorf("failed to take attendance: %w", err)
	}

	present := 0
	for _, v := range verdicts {
		if v.Status == facematch.StatusPresent {
			present++
			fmt.Printf("  PRESENT  %-24s (confidence %.4f)\n", v.Name, v.Confidence)
			continue
		}
		fmt.Printf("  ABSENT   %-24s (%s)\n", v.Name, v.Reason)
	}
	fmt.Printf("\nPresent: %d / %d\n", present, len(verdicts))
	return nil
}
