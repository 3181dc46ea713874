// Package ingest handles uploaded policy documents: storing the file,
// extracting insurance metadata from its text layer and recording the
// result with a confidence score.
package ingest

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// Extraction is the result of running the metadata extractor over a
// document's text layer.  Fields holds whatever the patterns matched;
// Confidence grades how much usable text the document yielded (0 for
// binary or near-empty uploads) on a 0..1 scale.
type Extraction struct {
	Fields     map[string]string
	Confidence float64
}

var (
	policyNumberPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Policy\s*(?:Number|No\.?|#)?\s*:?\s*([A-Z0-9\-]+)`),
		regexp.MustCompile(`(?i)(?:Policy|Contract)\s+([A-Z]{2,}-?\d{4,}-?\d*)`),
		regexp.MustCompile(`([A-Z]{2,}-\d{4}-\d{3,})`), // common format like GL-2024-001
	}
	carrierPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:Carrier|Insurance Company|Insurer)\s*:?\s*([A-Za-z &.,]+)`),
		regexp.MustCompile(`(?i)(?:Company|Corp|Corporation)\s*:?\s*([A-Za-z &.,]+)`),
	}
	periodPattern     = regexp.MustCompile(`(?i)Policy\s*Period\s*:?\s*(\d{1,2}[/\-]\d{1,2}[/\-]\d{4})\s*(?:to|through|-)\s*(\d{1,2}[/\-]\d{1,2}[/\-]\d{4})`)
	effectivePattern  = regexp.MustCompile(`(?i)Effective\s*(?:Date)?\s*:?\s*(\d{1,2}[/\-]\d{1,2}[/\-]\d{4})`)
	expirationPattern = regexp.MustCompile(`(?i)Expiration\s*(?:Date)?\s*:?\s*(\d{1,2}[/\-]\d{1,2}[/\-]\d{4})`)
	premiumPatterns   = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:Annual\s*|Total\s*)?Premium\s*:?\s*\$?([\d,]+\.?\d*)`),
	}
	limitPattern      = regexp.MustCompile(`(?i)Limit\s*:?\s*\$?([\d,]+)`)
	deductiblePattern = regexp.MustCompile(`(?i)Deductible\s*:?\s*\$?([\d,]+)`)
)

// coveragePatterns maps a text pattern to the coverage type it implies.
// Ordered so the more specific phrasings win.
var coveragePatterns = []struct {
	re  *regexp.Regexp
	typ string
}{
	{regexp.MustCompile(`(?i)General\s+Liability`), "general-liability"},
	{regexp.MustCompile(`(?i)Property\s+Insurance`), "property"},
	{regexp.MustCompile(`(?i)Umbrella\s+(?:Coverage|Insurance)`), "umbrella"},
	{regexp.MustCompile(`(?i)Flood\s+Insurance`), "flood"},
	{regexp.MustCompile(`(?i)Earthquake\s+Coverage`), "earthquake"},
	{regexp.MustCompile(`(?i)Workers?\s*Compensation`), "workers-comp"},
}

// Extract runs the insurance patterns over a document's text.  Binary
// content (invalid UTF-8) and documents under 50 characters of text
// come back with zero confidence and no fields; otherwise confidence
// scales with the amount of text up to 1000 characters, the same
// grading the upload review screen expects.
func Extract(text string) Extraction {
	ex := Extraction{Fields: map[string]string{}}
	if !utf8.ValidString(text) {
		return ex
	}
	chars := len(strings.TrimSpace(text))
	if chars <= 50 {
		return ex
	}
	ex.Confidence = min(1.0, float64(chars)/1000)

	for _, re := range policyNumberPatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			ex.Fields["policy_number"] = strings.TrimSpace(m[1])
			break
		}
	}
	for _, re := range carrierPatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			ex.Fields["carrier"] = strings.TrimSpace(m[1])
			break
		}
	}

	if m := periodPattern.FindStringSubmatch(text); m != nil {
		ex.Fields["effective_date"] = normalizeDate(m[1])
		ex.Fields["expiration_date"] = normalizeDate(m[2])
	} else {
		if m := effectivePattern.FindStringSubmatch(text); m != nil {
			ex.Fields["effective_date"] = normalizeDate(m[1])
		}
		if m := expirationPattern.FindStringSubmatch(text); m != nil {
			ex.Fields["expiration_date"] = normalizeDate(m[1])
		}
	}

	for _, cp := range coveragePatterns {
		if cp.re.MatchString(text) {
			ex.Fields["coverage_type"] = cp.typ
			break
		}
	}

	for _, re := range premiumPatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			raw := strings.ReplaceAll(m[1], ",", "")
			if v, err := strconv.ParseFloat(raw, 64); err == nil {
				ex.Fields["premium"] = strconv.FormatFloat(v, 'f', -1, 64)
				break
			}
		}
	}

	if ms := limitPattern.FindAllStringSubmatch(text, -1); ms != nil {
		ex.Fields["limits_found"] = joinAmounts(ms)
	}
	if ms := deductiblePattern.FindAllStringSubmatch(text, -1); ms != nil {
		ex.Fields["deductibles_found"] = joinAmounts(ms)
	}

	return ex
}

func joinAmounts(ms [][]string) string {
	vals := make([]string, 0, len(ms))
	for _, m := range ms {
		vals = append(vals, strings.ReplaceAll(m[1], ",", ""))
	}
	return strings.Join(vals, ",")
}

// normalizeDate turns M/D/YYYY or M-D-YYYY into ISO YYYY-MM-DD so
// extracted dates can feed straight into a policy record.  Anything
// unparseable passes through unchanged; classification fails closed on
// it later.
func normalizeDate(raw string) string {
	parts := strings.FieldsFunc(raw, func(r rune) bool { return r == '/' || r == '-' })
	if len(parts) != 3 {
		return raw
	}
	m, err1 := strconv.Atoi(parts[0])
	d, err2 := strconv.Atoi(parts[1])
	y, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil || m < 1 || m > 12 || d < 1 || d > 31 {
		return raw
	}
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC).Format("2006-01-02")
}
