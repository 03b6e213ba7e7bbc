package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/schoolhub/facerec/internal/config"
	"github.com/schoolhub/facerec/internal/facematch"
	"github.com/schoolhub/facerec/internal/provider"
	"github.com/spf13/cobra"
)

var encodeCmd = &cobra.Command{
	Use:   "encode <photo>",
	Short: "Extract a reference face encoding from an enrollment photo",
	Long: `Extract a face encoding from an enrollment photo.
The photo must contain exactly one face. The encoding can be stored in a
roster file and used by the recognize and attend commands.

Examples:
  # Print the encoding as JSON
  facerec encode student.jpg

  # Write the encoding to a file
  facerec encode student.jpg --output student.json`,
	Args: cobra.ExactArgs(1),
	RunE: runEncode,
}

func init() {
	rootCmd.AddCommand(encodeCmd)

	encodeCmd.Flags().String("output", "", "Write the encoding JSON to a file instead of stdout")
}

func runEncode(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	if cfg.Provider.URL == "" {
		return errors.New("ML_SERVICE_URL environment variable is required")
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read photo: %w", err)
	}

	client := provider.NewClient(cfg.Provider.URL, cfg.Provider.MaxImageSize)
	encoding, location, err := client.EncodeFace(context.Background(), data)
	switch {
	case errors.Is(err, provider.ErrNoFaceDetected):
		return fmt.Errorf("no face detected in %s", args[0])
	case errors.Is(err, provider.ErrMultipleFaces):
		return fmt.Errorf("multiple faces detected in %s, use a photo with a single face", args[0])
	case err != nil:
		return fmt.Errorf("failed to encode %s: %w", args[0], err)
	}

	out, err := json.MarshalIndent(struct {
		Encoding facematch.Embedding `json:"encoding"`
		Location facematch.Location  `json:"location"`
	}{encoding, location}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal encoding: %w", err)
	}

	if output := mustGetString(cmd, "output"); output != "" {
		if err := os.WriteFile(output, out, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", output, err)
		}
		fmt.Printf("Encoding written to %s (%d dimensions)\n", output, len(encoding))
		return nil
	}

	fmt.Println(string(out))
	return nil
}
