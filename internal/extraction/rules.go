package extraction

import (
	"context"
	"regexp"
	"strings"
)

// Keyword prefixes that mark a line as an explicit action item.
var keywords = []string{"ACTION:", "TODO:", "NEXT:", "FOLLOW UP:"}

// Verbs that make a plain bullet line plausible as an action item.
var actionVerbs = []string{
	"follow", "send", "review", "prepare", "draft", "update", "create",
	"confirm", "schedule", "share", "complete", "finalize", "publish",
	"call", "email", "reach", "align",
}

var (
	whitespaceRe  = regexp.MustCompile(`\s+`)
	bulletRe      = regexp.MustCompile(`^[-*]\s*`)
	datePatternRe = regexp.MustCompile(`(\d{4}-\d{2}-\d{2})`)
	atOwnerRe     = regexp.MustCompile(`@([A-Za-z][A-Za-z\-]*)`)
	ownerLabelRe  = regexp.MustCompile(`(?i)owner:\s*([A-Za-z][A-Za-z\- ]*?)(?:\s+due\b|\s+\d{4}-\d{2}-\d{2}\b|$)`)
	dueDateRe     = regexp.MustCompile(`(?i)due\s+(\d{4}-\d{2}-\d{2})`)
	ownerStripRe  = regexp.MustCompile(`(?i)owner:\s*[A-Za-z][A-Za-z\- ]*`)
	atStripRe     = regexp.MustCompile(`@[A-Za-z][A-Za-z\- ]*`)
	dueStripRe    = regexp.MustCompile(`(?i)due\s+\d{4}-\d{2}-\d{2}`)
	emptyParensRe = regexp.MustCompile(`\(\s*\)`)
)

// RulesProvider is the default keyword/regex extraction heuristic. Lines
// starting with a known keyword become candidates at confidence 0.6;
// bullet lines passing the verb heuristic at 0.4; any candidate with
// both an owner and a due date is promoted to 0.8.
type RulesProvider struct{}

// Ensure RulesProvider implements the Provider interface.
var _ Provider = (*RulesProvider)(nil)

// NewRulesProvider creates the rules-based provider.
func NewRulesProvider() *RulesProvider {
	return &RulesProvider{}
}

// ExtractTasks implements Provider.ExtractTasks. It never returns an
// error; the signature keeps it swappable with fallible providers.
func (p *RulesProvider) ExtractTasks(ctx context.Context, rawText string) ([]ExtractedTask, error) {
	results := []ExtractedTask{}

	for _, line := range strings.Split(rawText, "\n") {
		line = strings.TrimSpace(strings.TrimSuffix(line, "\r"))
		if line == "" {
			continue
		}

		if keyword := matchKeyword(line); keyword != "" {
			content := normalizeWhitespace(line[len(keyword):])
			if task, ok := toTask(content, 0.6); ok {
				results = append(results, task)
			}
			continue
		}

		if strings.HasPrefix(line, "-") || strings.HasPrefix(line, "*") {
			content := strings.TrimSpace(bulletRe.ReplaceAllString(line, ""))
			if !hasActionVerb(content) {
				continue
			}
			if task, ok := toTask(content, 0.4); ok {
				results = append(results, task)
			}
		}
	}

	return results, nil
}

func matchKeyword(line string) string {
	upper := strings.ToUpper(line)
	for _, keyword := range keywords {
		if strings.HasPrefix(upper, keyword) {
			return keyword
		}
	}
	return ""
}

func hasActionVerb(value string) bool {
	lowered := strings.ToLower(value)
	for _, verb := range actionVerbs {
		if strings.HasPrefix(lowered, verb+" ") || strings.Contains(lowered, " "+verb+" ") {
			return true
		}
	}
	return false
}

func toTask(source string, baseConfidence float64) (ExtractedTask, bool) {
	owner := parseOwner(source)
	dueDate := parseDueDate(source)
	title := cleanTitle(source)

	if title == "" {
		return ExtractedTask{}, false
	}

	confidence := baseConfidence
	if owner != "" && dueDate != "" {
		confidence = 0.8
	}

	return ExtractedTask{
		Title:      title,
		Owner:      owner,
		DueDate:    dueDate,
		Confidence: confidence,
	}, true
}

func parseOwner(value string) string {
	if m := atOwnerRe.FindStringSubmatch(value); m != nil {
		return normalizeWhitespace(m[1])
	}

	if m := ownerLabelRe.FindStringSubmatch(value); m != nil {
		return normalizeWhitespace(m[1])
	}

	return ""
}

func parseDueDate(value string) string {
	if m := dueDateRe.FindStringSubmatch(value); m != nil {
		return m[1]
	}

	if m := datePatternRe.FindStringSubmatch(value); m != nil {
		return m[1]
	}

	return ""
}

func cleanTitle(value string) string {
	cleaned := ownerStripRe.ReplaceAllString(value, "")
	cleaned = atStripRe.ReplaceAllString(cleaned, "")
	cleaned = dueStripRe.ReplaceAllString(cleaned, "")
	cleaned = datePatternRe.ReplaceAllString(cleaned, "")
	cleaned = emptyParensRe.ReplaceAllString(cleaned, "")
	return normalizeWhitespace(cleaned)
}

func normalizeWhitespace(value string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(value, " "))
}
