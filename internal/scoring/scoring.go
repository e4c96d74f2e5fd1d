// Package scoring evaluates job postings against a candidate profile.
// The primary path is a deterministic rubric; an LLM-assisted path is
// available and falls back to the rubric when the model output is unusable.
package scoring

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"
)

// Score component maximums. The four components sum to a fit score of 0-100.
const (
	MaxSkillScore      = 40
	MaxExperienceScore = 25
	MaxLocationScore   = 15
	MaxRoleScore       = 20
)

// Recommendation thresholds on the total fit score.
const (
	ApplyThreshold = 80
	MaybeThreshold = 60
)

// Recommendation values.
const (
	RecommendApply = "apply"
	RecommendMaybe = "maybe"
	RecommendSkip  = "skip"
)

// computerVisionIndicators are phrases that mark a posting as a computer
// vision role. Two or more occurrences across title and description
// exclude the posting entirely.
var computerVisionIndicators = []string{
	"computer vision", "opencv", "image processing",
	"object detection", "yolo", "image recognition",
	"video processing", "image classification", "cnn for images",
	"image segmentation", "visual recognition",
}

// aiKeywords give partial role-relevance credit when no target role matches.
var aiKeywords = []string{"ai", "ml", "machine learning", "llm", "nlp", "deep learning", "genai"}

// Profile describes the candidate the rubric scores against.
type Profile struct {
	Skills          []string
	ExcludedSkills  []string
	TargetRoles     []string
	ExcludedTitles  []string
	Locations       []string
	ExperienceYears int
}

// JobInput is the posting material the scorer evaluates.
type JobInput struct {
	Company            string
	Role               string
	Location           string
	ExperienceRequired string
	Description        string
	Skills             []string
}

// Result is the scoring outcome for a single posting.
type Result struct {
	FitScore             int      `json:"fit_score"`
	SkillMatchScore      int      `json:"skill_match_score"`
	ExperienceMatchScore int      `json:"experience_match_score"`
	LocationMatchScore   int      `json:"location_match_score"`
	RoleRelevanceScore   int      `json:"role_relevance_score"`
	MatchingSkills       []string `json:"matching_skills,omitempty"`
	MissingSkills        []string `json:"missing_skills,omitempty"`
	Recommendation       string   `json:"recommendation"`
	Reason               string   `json:"reason"`

	// Excluded postings (computer vision roles) are dropped, not persisted.
	Excluded bool `json:"-"`
}

// Score applies the deterministic rubric to a posting.
func (p *Profile) Score(job JobInput) *Result {
	if excluded, reason := checkExclusion(job.Role, job.Description); excluded {
		return &Result{
			Recommendation: RecommendSkip,
			Reason:         reason,
			Excluded:       true,
		}
	}

	skillScore, matching, missing := p.scoreSkills(job)
	expScore := p.scoreExperience(job.ExperienceRequired)
	locScore := p.scoreLocation(job.Location)
	roleScore, roleExcluded, roleReason := p.scoreRole(job.Role)

	if roleExcluded {
		return &Result{
			Recommendation: RecommendSkip,
			Reason:         roleReason,
			Excluded:       true,
		}
	}

	total := skillScore + expScore + locScore + roleScore

	return &Result{
		FitScore:             total,
		SkillMatchScore:      skillScore,
		ExperienceMatchScore: expScore,
		LocationMatchScore:   locScore,
		RoleRelevanceScore:   roleScore,
		MatchingSkills:       matching,
		MissingSkills:        missing,
		Recommendation:       recommend(total),
		Reason: fmt.Sprintf("Score breakdown: Skills %d/%d, Exp %d/%d, Location %d/%d, Role %d/%d",
			skillScore, MaxSkillScore, expScore, MaxExperienceScore,
			locScore, MaxLocationScore, roleScore, MaxRoleScore),
	}
}

func recommend(total int) string {
	switch {
	case total >= ApplyThreshold:
		return RecommendApply
	case total >= MaybeThreshold:
		return RecommendMaybe
	default:
		return RecommendSkip
	}
}

// checkExclusion reports whether the posting is a computer vision role.
// A single indicator can be incidental; two or more mean the role itself
// is computer vision work.
func checkExclusion(role, description string) (bool, string) {
	text := strings.ToLower(role + " " + description)

	count := 0
	for _, ind := range computerVisionIndicators {
		if strings.Contains(text, ind) {
			count++
		}
	}

	if count >= 2 {
		return true, "Computer Vision role detected"
	}
	return false, ""
}

// scoreSkills compares the posting's skills with the candidate's.
// When the posting lists no skills, the description is scanned for the
// candidate's skills instead and a neutral score is given.
func (p *Profile) scoreSkills(job JobInput) (score int, matching, missing []string) {
	userSkills := make(map[string]bool, len(p.Skills))
	for _, s := range p.Skills {
		userSkills[strings.ToLower(s)] = true
	}

	if len(job.Skills) == 0 {
		// No skill list; scan the description for known skills so the
		// report is still useful, and score neutrally.
		descLower := strings.ToLower(job.Description)
		for _, s := range p.Skills {
			if containsWord(descLower, strings.ToLower(s)) {
				matching = append(matching, s)
			}
		}
		return MaxSkillScore / 2, matching, nil
	}

	seen := make(map[string]bool, len(job.Skills))
	for _, raw := range job.Skills {
		skill := strings.ToLower(strings.TrimSpace(raw))
		if skill == "" || seen[skill] {
			continue
		}
		seen[skill] = true

		if userSkills[skill] {
			matching = append(matching, skill)
			continue
		}
		if !p.isExcludedSkill(skill) {
			missing = append(missing, skill)
		}
	}

	total := len(seen)
	if total == 0 {
		return MaxSkillScore / 2, nil, nil
	}
	return len(matching) * MaxSkillScore / total, matching, missing
}

func (p *Profile) isExcludedSkill(skill string) bool {
	for _, ex := range p.ExcludedSkills {
		if strings.Contains(skill, strings.ToLower(ex)) {
			return true
		}
	}
	return false
}

// scoreExperience scores the posting's experience requirement against the
// candidate's years. Requirements at or below the candidate's level score
// full marks; each year above loses ground quickly.
func (p *Profile) scoreExperience(required string) int {
	req := strings.ToLower(strings.TrimSpace(required))

	if req == "" || strings.Contains(req, "not specified") {
		return 15
	}

	for _, kw := range []string{"fresher", "entry", "graduate", "intern"} {
		if strings.Contains(req, kw) {
			return MaxExperienceScore
		}
	}

	minYears, ok := parseMinYears(req)
	if !ok {
		return 12
	}

	switch diff := minYears - p.ExperienceYears; {
	case diff <= 0:
		return MaxExperienceScore
	case diff == 1:
		return 23
	case diff == 2:
		return 18
	default:
		return 8
	}
}

// parseMinYears extracts the lowest number from an experience requirement
// string such as "2-4 years" or "3+ yrs".
func parseMinYears(s string) (int, bool) {
	var digits strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			digits.WriteRune(r)
			continue
		}
		if digits.Len() > 0 {
			break
		}
	}
	if digits.Len() == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(digits.String())
	if err != nil {
		return 0, false
	}
	return n, true
}

// scoreLocation prefers remote work, then the candidate's cities, then
// hybrid arrangements.
func (p *Profile) scoreLocation(location string) int {
	loc := strings.ToLower(location)
	if loc == "" {
		return 5
	}

	for _, kw := range []string{"remote", "wfh", "work from home"} {
		if strings.Contains(loc, kw) {
			return MaxLocationScore
		}
	}

	for _, preferred := range p.Locations {
		pl := strings.ToLower(preferred)
		if pl == "remote" {
			continue
		}
		if strings.Contains(loc, pl) {
			return MaxLocationScore
		}
	}

	if strings.Contains(loc, "hybrid") {
		return 12
	}
	if strings.Contains(loc, "india") {
		return 10
	}
	return 5
}

// scoreRole scores title relevance against the target roles. Excluded
// titles and computer-vision-flavored titles zero out the posting.
func (p *Profile) scoreRole(role string) (score int, excluded bool, reason string) {
	title := strings.ToLower(role)

	for _, ex := range p.ExcludedTitles {
		if strings.Contains(title, strings.ToLower(ex)) {
			return 0, true, fmt.Sprintf("Excluded role type: %s", ex)
		}
	}
	for _, kw := range []string{"computer vision", "opencv", "image processing"} {
		if strings.Contains(title, kw) {
			return 0, true, "Computer Vision role detected"
		}
	}

	for _, target := range p.TargetRoles {
		if strings.Contains(title, strings.ToLower(target)) {
			return MaxRoleScore, false, ""
		}
	}

	for _, kw := range aiKeywords {
		if containsWord(title, kw) {
			return 18, false, ""
		}
	}
	if strings.Contains(title, "data scientist") {
		return 15, false, ""
	}
	if strings.Contains(title, "developer") || strings.Contains(title, "engineer") {
		return 10, false, ""
	}
	return 5, false, ""
}

// containsWord reports whether text contains word bounded by non-letter
// characters, so "ai" does not match inside "maintain".
func containsWord(text, word string) bool {
	idx := 0
	for {
		i := strings.Index(text[idx:], word)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(word)

		beforeOK := start == 0 || !isWordChar(rune(text[start-1]))
		afterOK := end == len(text) || !isWordChar(rune(text[end]))
		if beforeOK && afterOK {
			return true
		}
		idx = start + 1
	}
}

func isWordChar(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// ScoredJob pairs a posting with its scoring result.
type ScoredJob struct {
	Job    JobInput
	Result *Result
}

// BatchResult summarizes scoring a batch of postings.
type BatchResult struct {
	Jobs         []ScoredJob
	TotalScored  int
	PassedFilter int
	ExcludedCV   int
}

// ScoreBatch scores every posting, drops excluded roles, filters by the
// minimum fit score, and returns survivors sorted by score descending.
func (p *Profile) ScoreBatch(jobs []JobInput, minScore int) *BatchResult {
	batch := &BatchResult{TotalScored: len(jobs)}

	for _, job := range jobs {
		result := p.Score(job)
		if result.Excluded {
			batch.ExcludedCV++
			continue
		}
		if result.FitScore >= minScore {
			batch.Jobs = append(batch.Jobs, ScoredJob{Job: job, Result: result})
		}
	}

	sort.SliceStable(batch.Jobs, func(i, j int) bool {
		return batch.Jobs[i].Result.FitScore > batch.Jobs[j].Result.FitScore
	})

	batch.PassedFilter = len(batch.Jobs)
	return batch
}

// DefaultProfile builds a scoring profile from basic candidate data.
// Excluded skills and titles default to computer vision roles.
func DefaultProfile(skills, roles, locations []string, experienceYears int) *Profile {
	return &Profile{
		Skills:          skills,
		TargetRoles:     roles,
		Locations:       locations,
		ExperienceYears: experienceYears,
		ExcludedSkills: []string{
			"Computer Vision", "OpenCV", "Image Processing",
			"Object Detection", "YOLO", "Image Recognition",
			"Video Processing", "Image Classification",
		},
		ExcludedTitles: []string{
			"Computer Vision Engineer",
			"CV Engineer",
			"Image Processing Engineer",
			"Video AI Engineer",
		},
	}
}
