package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"shop-seeker/config"
	"shop-seeker/llm"
	"shop-seeker/models"
	"shop-seeker/utils"
)

const (
	unknownCost = "Unknown"

	maxScoreMagnitude = 1e6
)

var (
	fencedJSONRegexp = regexp.MustCompile("(?s)```(?:json)?\\s*(.+?)\\s*```")

	errNoVerdict = errors.New("no JSON object in response")
)

// Reviewer asks the model whether each candidate is worth contacting.
type Reviewer struct {
	client llm.Client
	system string
	logger *utils.Logger
}

// NewReviewer creates a Reviewer that judges listings against criteria.
func NewReviewer(client llm.Client, criteria config.Criteria, logger *utils.Logger) *Reviewer {
	if logger == nil {
		logger = utils.NewNopLogger()
	}
	return &Reviewer{
		client: client,
		system: BuildSystemPrompt(criteria),
		logger: logger,
	}
}

// Review classifies one listing. It always returns a verdict: a failed model
// call or an unreadable reply becomes a rejection carrying the error text.
func (r *Reviewer) Review(ctx context.Context, l *models.Listing) models.ReviewVerdict {
	raw, err := r.client.Complete(ctx, r.system, BuildUserContent(l))
	if err != nil {
		r.logger.Error("[reviewer] Model call failed for %s: %v", l.Link, err)
		return fallbackVerdict("error calling model: %v", err)
	}

	verdict, err := ParseVerdict(raw)
	if err != nil {
		r.logger.Error("[reviewer] Failed to parse model response for %s: %v", l.Link, err)
		return fallbackVerdict("error parsing model response: %v", err)
	}

	r.logger.Debug("[reviewer] %s → approved=%t score=%d", l.Link, verdict.Approved, verdict.SuitabilityScore)
	return verdict
}

func fallbackVerdict(format string, err error) models.ReviewVerdict {
	return models.ReviewVerdict{
		Approved:         false,
		EstMonthlyCost:   unknownCost,
		SuitabilityScore: 0,
		Reasoning:        fmt.Sprintf(format, err),
	}
}

// BuildSystemPrompt renders the review rubric for the given criteria.
func BuildSystemPrompt(c config.Criteria) string {
	var b strings.Builder
	b.WriteString("You evaluate commercial/warehouse space listings for suitability as a hobby carpentry workshop for 3 people.\n\n")
	b.WriteString("Criteria:\n")
	fmt.Fprintf(&b, "- Budget: up to %s/month\n", formatDollars(c.MaxPrice))
	fmt.Fprintf(&b, "- Minimum usable space: %s sqft\n", formatThousands(c.MinSqft))
	b.WriteString("- Must be suitable for woodworking: ground floor or freight elevator access preferred, " +
		"not a carpeted office, adequate power, ventilation is a plus\n")
	fmt.Fprintf(&b, "- Located in or near %s\n\n", c.LocationName)
	b.WriteString(`Your job:
1. Parse the TRUE monthly cost from the listing (handle $/sqft pricing, ranges, negotiable terms, etc.)
2. Estimate usable square footage
3. Assess suitability for a carpentry workshop (score 1-10)
4. Decide: approved (worth contacting) or rejected (clearly unsuitable)

Respond with ONLY valid JSON:
{
    "approved": true/false,
    "est_monthly_cost": "$X,XXX",
    "suitability_score": 1-10,
    "reasoning": "Brief explanation"
}`)
	return b.String()
}

// BuildUserContent renders the listing block sent with each review request.
func BuildUserContent(l *models.Listing) string {
	return fmt.Sprintf("Title: %s\nListed Price: %s\nListed Sqft: %s\nAddress: %s\nSource: %s\n\nFull listing text:\n%s",
		l.Title, l.Price, l.Sqft, l.Address, l.Source, l.FullText)
}

// ParseVerdict reads the model's reply. The JSON object may be bare, fenced
// in a markdown code block, or surrounded by prose. Missing optional fields
// take defaults; a reply without an "approved" key is an error.
func ParseVerdict(raw string) (models.ReviewVerdict, error) {
	obj, err := extractObject(raw)
	if err != nil {
		return models.ReviewVerdict{}, err
	}

	approved, ok := obj["approved"]
	if !ok {
		return models.ReviewVerdict{}, errors.New(`missing "approved" field`)
	}

	v := models.ReviewVerdict{
		Approved:         truthy(approved),
		EstMonthlyCost:   unknownCost,
		SuitabilityScore: 0,
	}
	if cost, ok := obj["est_monthly_cost"]; ok && cost != nil {
		v.EstMonthlyCost = stringify(cost)
	}
	if score, ok := obj["suitability_score"]; ok && score != nil {
		n, err := toInt(score)
		if err != nil {
			return models.ReviewVerdict{}, fmt.Errorf("suitability_score: %w", err)
		}
		v.SuitabilityScore = n
	}
	if reason, ok := obj["reasoning"]; ok && reason != nil {
		v.Reasoning = stringify(reason)
	}
	return v, nil
}

// extractObject tries the whole reply, then a fenced block, then each
// balanced {...} in the text in order.
func extractObject(raw string) (map[string]any, error) {
	raw = strings.TrimSpace(strings.TrimPrefix(raw, "\ufeff"))
	if raw == "" {
		return nil, errors.New("empty response")
	}

	candidates := []string{raw}
	if m := fencedJSONRegexp.FindStringSubmatch(raw); len(m) > 1 {
		candidates = append(candidates, m[1])
	}

	var lastErr error = errNoVerdict
	for _, c := range candidates {
		obj, err := decodeObject(c)
		if err == nil {
			return obj, nil
		}
		lastErr = err
	}

	// Prose may carry braces of its own, so try every opening brace in turn.
	for offset := 0; offset < len(raw); {
		i := strings.IndexByte(raw[offset:], '{')
		if i < 0 {
			break
		}
		start := offset + i
		if c := balancedObject(raw[start:]); c != "" {
			obj, err := decodeObject(c)
			if err == nil {
				return obj, nil
			}
			lastErr = err
		}
		offset = start + 1
	}
	return nil, lastErr
}

func decodeObject(s string) (map[string]any, error) {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, err
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expected JSON object, got %T", v)
	}
	return obj, nil
}

// balancedObject returns the prefix of s up to the brace closing s[0],
// ignoring braces inside strings.
func balancedObject(s string) string {
	depth := 0
	inString := false
	escape := false

	for i, ch := range s {
		if escape {
			escape = false
			continue
		}
		switch {
		case ch == '\\' && inString:
			escape = true
		case ch == '"':
			inString = !inString
		case inString:
		case ch == '{':
			depth++
		case ch == '}':
			depth--
			if depth == 0 {
				return s[:i+1]
			}
		}
	}
	return ""
}

// truthy is JSON truthiness except that the strings "false", "0" and "no"
// count as false; a model quoting its answer should not approve by accident.
func truthy(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "", "false", "0", "no":
			return false
		}
		return true
	case []any:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	default:
		return false
	}
}

func toInt(v any) (int, error) {
	switch t := v.(type) {
	case float64:
		return truncScore(t)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, fmt.Errorf("not a number: %q", t)
		}
		return truncScore(f)
	case bool:
		if t {
			return 1, nil
		}
		return 0, nil
	default:
		return 0, fmt.Errorf("unexpected type %T", v)
	}
}

// truncScore drops the fraction. Non-finite values and anything outside
// ±maxScoreMagnitude are rejected.
func truncScore(f float64) (int, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) > maxScoreMagnitude {
		return 0, fmt.Errorf("out of range: %v", f)
	}
	return int(math.Trunc(f)), nil
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	}
}

func formatDollars(v float64) string {
	return "$" + formatThousands(v)
}

// formatThousands renders v rounded to a whole number with comma grouping.
func formatThousands(v float64) string {
	n := int64(math.Round(v))
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	digits := strconv.FormatInt(n, 10)
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	return sign + b.String()
}
