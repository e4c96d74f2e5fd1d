package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ajsalpv/job-agent/internal/config"
	"github.com/ajsalpv/job-agent/internal/fetch"
	"github.com/ajsalpv/job-agent/internal/pipeline"
)

var (
	scanConfigPath string
	scanKeywords   []string
	scanLocations  []string
	scanPlatforms  []string
	scanMinScore   int
	scanVerbose    bool
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Run one discovery scan across the job boards",
	Long:  `Scrapes the configured job boards, scores every fresh posting against your profile, records the matches, and sends a summary notification.`,
	RunE:  runScanCmd,
}

func init() {
	scanCmd.Flags().StringVar(&scanConfigPath, "config", "", "Path to a scan config JSON file (flags override file values)")
	scanCmd.Flags().StringSliceVarP(&scanKeywords, "keywords", "k", nil, "Search keywords (defaults to TARGET_ROLES)")
	scanCmd.Flags().StringSliceVarP(&scanLocations, "locations", "l", nil, "Locations to search (defaults to USER_LOCATION)")
	scanCmd.Flags().StringSliceVarP(&scanPlatforms, "platforms", "p", nil, "Platforms to scan (defaults to all)")
	scanCmd.Flags().IntVar(&scanMinScore, "min-score", 0, "Minimum fit score to count as a match (defaults to MIN_FIT_SCORE)")
	scanCmd.Flags().BoolVarP(&scanVerbose, "verbose", "v", false, "Print detailed scan progress")
	rootCmd.AddCommand(scanCmd)
}

func runScanCmd(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	a, err := buildAgent(ctx, false)
	if err != nil {
		return err
	}
	defer a.Close()

	keywords := scanKeywords
	locations := scanLocations
	platforms := scanPlatforms
	minScore := scanMinScore
	verbose := scanVerbose

	// Config file values apply where no flag was given.
	if scanConfigPath != "" {
		fileCfg, err := config.LoadScanConfig(scanConfigPath)
		if err != nil {
			return err
		}
		if len(keywords) == 0 {
			keywords = fileCfg.Keywords
		}
		if len(locations) == 0 {
			locations = fileCfg.Locations
		}
		if len(platforms) == 0 {
			platforms = fileCfg.Platforms
		}
		if minScore == 0 {
			minScore = fileCfg.MinFitScore
		}
		verbose = verbose || fileCfg.Verbose
	}

	opts := pipeline.ScanOptions{
		Keywords:    keywords,
		Locations:   locations,
		MinFitScore: a.settings.MinFitScore,
		Verbose:     verbose,
	}
	if len(opts.Keywords) == 0 {
		opts.Keywords = a.settings.Roles()
	}
	if len(opts.Locations) == 0 {
		opts.Locations = a.settings.Locations()
	}
	if minScore > 0 {
		opts.MinFitScore = minScore
	}
	for _, name := range platforms {
		platform, err := fetch.ParsePlatform(name)
		if err != nil {
			return err
		}
		opts.Platforms = append(opts.Platforms, platform)
	}

	result, err := a.runner.RunScan(ctx, opts)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	fmt.Printf("Discovered %d postings (%d new), scored %d, %d matched in %.1fs\n",
		result.Discovered, result.New, result.Scored, result.Matched, result.ElapsedSec)
	for _, job := range result.TopJobs {
		fmt.Printf("  [%d] %s at %s (%s)\n      %s\n",
			job.FitScore, job.Role, job.Company, job.Platform, job.JobURL)
	}
	return nil
}
