// Package llm - extractor.go provides generic LLM-based structured extraction.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// ExtractionSchema defines the structure for LLM-based content extraction.
// It provides a reusable way to define what information to extract from text.
type ExtractionSchema struct {
	Name        string        // Schema name (e.g., "JobListing")
	Description string        // System prompt preamble describing the extraction task
	Fields      []SchemaField // Expected output fields
}

// SchemaField defines a single field in the extraction output.
type SchemaField struct {
	Name        string // JSON field name
	Type        string // Type hint: "string", "[]string", "map[string]string"
	Description string // Description for the LLM
	Required    bool   // Whether this field is required
}

// BuildExtractionPrompt constructs the LLM prompt from schema and input text.
func BuildExtractionPrompt(schema ExtractionSchema, inputText string) string {
	var sb strings.Builder

	// System description
	sb.WriteString(schema.Description)
	sb.WriteString("\n\n")

	// Output schema
	sb.WriteString("Return ONLY valid JSON matching this exact structure:\n{\n")
	for i, field := range schema.Fields {
		typeHint := field.Type
		if typeHint == "" {
			typeHint = "string"
		}
		requiredHint := ""
		if field.Required {
			requiredHint = " (required)"
		}
		sb.WriteString(fmt.Sprintf("  \"%s\": %s%s", field.Name, typeHint, requiredHint))
		if field.Description != "" {
			sb.WriteString(fmt.Sprintf(" // %s", field.Description))
		}
		if i < len(schema.Fields)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("}\n\n")

	// Instructions
	sb.WriteString("IMPORTANT:\n")
	sb.WriteString("- Extract information directly from the text, do not invent or summarize.\n")
	sb.WriteString("- Return ONLY the JSON object, no markdown, no explanation, no code blocks.\n\n")

	// Input text
	sb.WriteString("Input text:\n\"\"\"\n")
	sb.WriteString(inputText)
	sb.WriteString("\n\"\"\"\n")

	return sb.String()
}

// --- Predefined Schemas ---

// JobListingSchema returns the extraction schema for scraped job postings.
// Used to enrich listings whose board markup only gave us a title and URL:
// the description text is parsed for experience, skills, and location.
func JobListingSchema() ExtractionSchema {
	return ExtractionSchema{
		Name: "JobListing",
		Description: `You are an expert job posting parser. COPY TEXT VERBATIM - do not paraphrase, summarize, or reword.
Your task is to extract structured fields from a raw job posting.
IMPORTANT: Preserve the exact wording from the original text.
EXCLUDE: Application form fields, EEO statements, legal disclaimers, generic "About Company" boilerplate.`,
		Fields: []SchemaField{
			{
				Name:        "company",
				Type:        "\"string\"",
				Description: "Company name",
				Required:    true,
			},
			{
				Name:        "role",
				Type:        "\"string\"",
				Description: "Job title exactly as posted",
				Required:    true,
			},
			{
				Name:        "location",
				Type:        "\"string\"",
				Description: "Job location including remote/hybrid/onsite if stated",
				Required:    false,
			},
			{
				Name:        "experience_required",
				Type:        "\"string\"",
				Description: "Years of experience required (e.g., '3-5 years'), empty if not stated",
				Required:    false,
			},
			{
				Name:        "skills",
				Type:        "[\"string\"]",
				Description: "Technical skills, tools, and frameworks mentioned - copy each verbatim",
				Required:    true,
			},
			{
				Name:        "salary",
				Type:        "\"string\"",
				Description: "Salary or compensation range if stated, empty otherwise",
				Required:    false,
			},
		},
	}
}

// ExtractedListing is the parsed result of a JobListingSchema extraction.
type ExtractedListing struct {
	Company            string   `json:"company"`
	Role               string   `json:"role"`
	Location           string   `json:"location"`
	ExperienceRequired string   `json:"experience_required"`
	Skills             []string `json:"skills"`
	Salary             string   `json:"salary"`
}

// ExtractJobListing parses raw posting text into structured listing fields.
func ExtractJobListing(ctx context.Context, client Client, text string) (*ExtractedListing, error) {
	prompt := BuildExtractionPrompt(JobListingSchema(), text)
	raw, err := client.GenerateJSON(ctx, prompt, TierFast)
	if err != nil {
		return nil, fmt.Errorf("extract job listing: %w", err)
	}

	var listing ExtractedListing
	if err := json.Unmarshal([]byte(CleanJSONBlock(raw)), &listing); err != nil {
		return nil, fmt.Errorf("parse extraction output: %w", err)
	}
	if listing.Role == "" {
		return nil, fmt.Errorf("extraction produced no role")
	}
	return &listing, nil
}
