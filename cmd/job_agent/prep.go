package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	prepID  string
	prepURL string
)

var prepCmd = &cobra.Command{
	Use:   "prep",
	Short: "Generate application material for a tracked posting",
	Long:  `Generates resume bullets, a cover letter, and interview prep for one tracked application, identified by ID or job URL. The interview prep and skill gaps are saved back on the record.`,
	RunE:  runPrep,
}

func init() {
	prepCmd.Flags().StringVar(&prepID, "id", "", "Application ID")
	prepCmd.Flags().StringVar(&prepURL, "url", "", "Job URL (alternative to --id)")
	rootCmd.AddCommand(prepCmd)
}

func runPrep(_ *cobra.Command, _ []string) error {
	if (prepID == "") == (prepURL == "") {
		return fmt.Errorf("exactly one of --id or --url is required")
	}

	ctx := context.Background()

	a, err := buildAgent(ctx, true)
	if err != nil {
		return err
	}
	defer a.Close()

	var id uuid.UUID
	if prepID != "" {
		id, err = uuid.Parse(prepID)
		if err != nil {
			return fmt.Errorf("invalid application ID: %w", err)
		}
	} else {
		app, err := a.store.GetApplicationByURL(ctx, prepURL)
		if err != nil {
			return fmt.Errorf("failed to look up application: %w", err)
		}
		if app == nil {
			return fmt.Errorf("no tracked application for %s", prepURL)
		}
		id = app.ID
	}

	material, err := a.runner.PrepareApplication(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to prepare application: %w", err)
	}

	fmt.Printf("=== %s at %s ===\n\n", material.Role, material.Company)

	fmt.Println("Resume bullets:")
	for _, bullet := range material.ResumeBullets.OptimizedBullets {
		fmt.Printf("  - %s\n", bullet)
	}

	if material.CoverLetter != "" {
		fmt.Printf("\nCover letter:\n%s\n", material.CoverLetter)
	}

	if material.Enrichment != nil {
		fmt.Printf("\nInterview prep:\n%s\n", material.Enrichment.InterviewPrep)
		if material.Enrichment.SkillsToLearn != "" {
			fmt.Printf("\nSkills to learn: %s\n", material.Enrichment.SkillsToLearn)
		}
	}
	return nil
}
