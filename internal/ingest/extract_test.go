package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDeclaration = `
COMMERCIAL INSURANCE DECLARATION PAGE

Carrier: Travelers Indemnity
Policy Number: GL-2024-00187
Coverage: General Liability

Policy Period: 3/15/2024 to 3/15/2025
Annual Premium: $21,500.00
Limit: $1,000,000
Limit: $2,000,000
Deductible: $25,000

Insured Property: Sunset Plaza
123 Main Street, Los Angeles, CA 90210

This page intentionally padded with enough declaration boilerplate text to
resemble a real extracted document rather than a stub fixture.
`

func TestExtractDeclarationPage(t *testing.T) {
	ex := Extract(sampleDeclaration)

	require.Greater(t, ex.Confidence, 0.0)
	assert.Equal(t, "GL-2024-00187", ex.Fields["policy_number"])
	assert.Equal(t, "Travelers Indemnity", ex.Fields["carrier"])
	assert.Equal(t, "general-liability", ex.Fields["coverage_type"])
	assert.Equal(t, "2024-03-15", ex.Fields["effective_date"])
	assert.Equal(t, "2025-03-15", ex.Fields["expiration_date"])
	assert.Equal(t, "21500", ex.Fields["premium"])
	assert.Equal(t, "1000000,2000000", ex.Fields["limits_found"])
	assert.Equal(t, "25000", ex.Fields["deductibles_found"])
}

func TestExtractSeparateDates(t *testing.T) {
	text := strings.Repeat("boilerplate ", 10) + `
Effective Date: 1/1/2025
Expiration Date: 12/31/2025
Umbrella Coverage`

	ex := Extract(text)
	assert.Equal(t, "2025-01-01", ex.Fields["effective_date"])
	assert.Equal(t, "2025-12-31", ex.Fields["expiration_date"])
	assert.Equal(t, "umbrella", ex.Fields["coverage_type"])
}

func TestExtractShortTextZeroConfidence(t *testing.T) {
	ex := Extract("Policy Number: GL-2024-001")
	assert.Zero(t, ex.Confidence)
	assert.Empty(t, ex.Fields)
}

func TestExtractBinaryContentZeroConfidence(t *testing.T) {
	ex := Extract(string([]byte{0xff, 0xfe, 0x00, 0x91}) + strings.Repeat("x", 100))
	assert.Zero(t, ex.Confidence)
	assert.Empty(t, ex.Fields)
}

func TestExtractConfidenceScalesWithLength(t *testing.T) {
	short := Extract(strings.Repeat("Liability coverage terms. ", 4))   // ~100 chars
	long := Extract(strings.Repeat("Liability coverage terms. ", 100)) // >1000 chars

	assert.Greater(t, long.Confidence, short.Confidence)
	assert.Equal(t, 1.0, long.Confidence)
}

func TestNormalizeDatePassthrough(t *testing.T) {
	// Unparseable input stays as-is; status derivation fails closed on
	// it downstream.
	assert.Equal(t, "13/45/20xx", normalizeDate("13/45/20xx"))
	assert.Equal(t, "2024-03-05", normalizeDate("3-5-2024"))
}
