package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/hartetoti/backend/internal/app"
	"github.com/hartetoti/backend/internal/config"
	"github.com/hartetoti/backend/internal/service"
)

type seedQuestion struct {
	Question string `json:"question"`
	Level    string `json:"level"`
}

func SeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed <questions.json>",
		Short: "Load trivia questions from a JSON array of {question, level}",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			a, err := app.New(config.Load())
			if err != nil {
				return err
			}
			defer a.Close()

			count, err := seedQuestions(cmd.Context(), a.QuestionService, f)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d questions\n", count)
			return nil
		},
	}
}

// seedQuestions stops at the first invalid entry. Entries before it stay.
func seedQuestions(ctx context.Context, questions *service.QuestionService, r io.Reader) (int, error) {
	var entries []seedQuestion
	err := json.NewDecoder(r).Decode(&entries)
	if err != nil {
		return 0, fmt.Errorf("failed to parse questions: %w", err)
	}

	for i, entry := range entries {
		_, err := questions.Create(ctx, entry.Question, entry.Level)
		if err != nil {
			return i, fmt.Errorf("question %d: %w", i+1, err)
		}
	}
	return len(entries), nil
}
