package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ajsalpv/job-agent/internal/config"
	"github.com/ajsalpv/job-agent/internal/llm"
	"github.com/ajsalpv/job-agent/internal/scoring"
)

var (
	scoreCompany    string
	scoreRole       string
	scoreLocation   string
	scoreExperience string
	scoreFile       string
	scoreOffline    bool
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score a single job posting against your profile",
	Long:  `Scores a job description against the configured profile and prints the component breakdown. Runs without a database; useful for checking postings found outside the scan. When --role is omitted the posting fields are extracted from the text with the LLM.`,
	RunE:  runScore,
}

func init() {
	scoreCmd.Flags().StringVarP(&scoreCompany, "company", "c", "", "Company name")
	scoreCmd.Flags().StringVarP(&scoreRole, "role", "r", "", "Role title (extracted from the text if omitted)")
	scoreCmd.Flags().StringVarP(&scoreLocation, "location", "l", "", "Job location")
	scoreCmd.Flags().StringVar(&scoreExperience, "experience", "", "Experience requirement, e.g. \"2-4 years\"")
	scoreCmd.Flags().StringVarP(&scoreFile, "file", "f", "", "Path to the job description text (required)")
	scoreCmd.Flags().BoolVar(&scoreOffline, "offline", false, "Skip the LLM and use the rubric only")

	if err := scoreCmd.MarkFlagRequired("file"); err != nil {
		panic(fmt.Sprintf("failed to mark file flag as required: %v", err))
	}

	rootCmd.AddCommand(scoreCmd)
}

func runScore(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	description, err := os.ReadFile(scoreFile)
	if err != nil {
		return fmt.Errorf("failed to read job description: %w", err)
	}

	settings := config.Load()

	var client llm.Client
	if !scoreOffline && settings.GeminiAPIKey != "" {
		client, err = llm.NewClient(ctx, nil, settings.GeminiAPIKey)
		if err != nil {
			return fmt.Errorf("failed to create LLM client: %w", err)
		}
		defer client.Close()
	}

	job := scoring.JobInput{
		Company:            scoreCompany,
		Role:               scoreRole,
		Location:           scoreLocation,
		ExperienceRequired: scoreExperience,
		Description:        string(description),
	}

	if job.Role == "" {
		if client == nil {
			return fmt.Errorf("--role is required without an LLM (set GEMINI_API_KEY or pass --role)")
		}
		extracted, err := llm.ExtractJobListing(ctx, client, string(description))
		if err != nil {
			return fmt.Errorf("failed to extract posting fields: %w", err)
		}
		job.Role = extracted.Role
		job.Skills = extracted.Skills
		if job.Company == "" {
			job.Company = extracted.Company
		}
		if job.Location == "" {
			job.Location = extracted.Location
		}
		if job.ExperienceRequired == "" {
			job.ExperienceRequired = extracted.ExperienceRequired
		}
	}

	profile := scoring.DefaultProfile(
		settings.Skills(), settings.Roles(), settings.Locations(), settings.ExperienceYears)
	scorer := scoring.NewScorer(profile, client, settings.UserName)

	result := scorer.Score(ctx, job)

	if result.Excluded {
		fmt.Printf("Excluded: %s\n", result.Reason)
		return nil
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
