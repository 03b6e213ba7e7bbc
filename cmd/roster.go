package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/schoolhub/facerec/internal/facematch"
	"github.com/spf13/cobra"
)

// rosterEntry is one enrolled person in a roster JSON file. The shape
// matches the student records accepted by the attendance endpoint.
type rosterEntry struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	RollNumber   string    `json:"rollNumber"`
	FaceEncoding []float64 `json:"faceEncoding"`
}

// loadRoster reads a roster JSON file into known identities, keeping
// the file order. Entries without a reference encoding are kept; the
// matcher degrades them instead of failing the run.
func loadRoster(path string) ([]facematch.KnownIdentity, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read roster: %w", err)
	}
	var entries []rosterEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse roster %s: %w", path, err)
	}

	// Names that collapse to the same normalized form are usually a
	// roster data entry mistake, so call them out early.
	seen := make(map[string]string, len(entries))
	identities := make([]facematch.KnownIdentity, 0, len(entries))
	for _, entry := range entries {
		norm := facematch.NormalizeIdentityName(entry.Name)
		if prev, ok := seen[norm]; ok && norm != "" {
			fmt.Printf("Warning: roster names %q and %q normalize to the same name\n", prev, entry.Name)
		} else {
			seen[norm] = entry.Name
		}

		id := facematch.KnownIdentity{
			ID:         entry.ID,
			Name:       entry.Name,
			RollNumber: entry.RollNumber,
		}
		if len(entry.FaceEncoding) > 0 {
			id.Embeddings = []facematch.Embedding{entry.FaceEncoding}
		}
		identities = append(identities, id)
	}
	return identities, nil
}

// resolveCutoff applies --tolerance or --threshold flag overrides on
// top of a configured default cutoff.
func resolveCutoff(cmd *cobra.Command, defaultCutoff facematch.Cutoff) (facematch.Cutoff, error) {
	if cmd.Flags().Changed("tolerance") {
		return facematch.FromTolerance(mustGetFloat64(cmd, "tolerance"))
	}
	if cmd.Flags().Changed("threshold") {
		return facematch.FromThreshold(mustGetFloat64(cmd, "threshold"))
	}
	return defaultCutoff, nil
}
