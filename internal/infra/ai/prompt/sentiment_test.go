package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bryanwahyu/feedback-radar/internal/domain/analysis"
)

func TestParseSentimentResponse_WellFormedJSON(t *testing.T) {
	s, conf := ParseSentimentResponse(`{"sentiment": "critical", "confidence": 0.92}`)
	assert.Equal(t, analysis.SentimentCritical, s)
	assert.Equal(t, 0.92, conf)
}

func TestParseSentimentResponse_JSONEmbeddedInProse(t *testing.T) {
	raw := "Sure! Here is the classification:\n```json\n{\"sentiment\":\"negative\",\"confidence\":0.7}\n```"
	s, _ := ParseSentimentResponse(raw)
	assert.Equal(t, analysis.SentimentNegative, s)
}

func TestParseSentimentResponse_UnrecognizedFieldDefaultsNeutral(t *testing.T) {
	s, _ := ParseSentimentResponse(`{"sentiment": "angry"}`)
	assert.Equal(t, analysis.SentimentNeutral, s)

	// field absent entirely
	s, _ = ParseSentimentResponse(`{"confidence": 0.5}`)
	assert.Equal(t, analysis.SentimentNeutral, s)
}

func TestParseSentimentResponse_KeywordFallback(t *testing.T) {
	s, _ := ParseSentimentResponse("The tone here is clearly CRITICAL, customers are furious.")
	assert.Equal(t, analysis.SentimentCritical, s)

	s, _ = ParseSentimentResponse("Overall this reads as negative feedback.")
	assert.Equal(t, analysis.SentimentNegative, s)

	s, _ = ParseSentimentResponse("Nothing remarkable in this sample.")
	assert.Equal(t, analysis.SentimentNeutral, s)
}

func TestParseSentimentResponse_MalformedJSONFallsBack(t *testing.T) {
	// broken JSON must not error, keyword path takes over
	s, _ := ParseSentimentResponse(`{"sentiment": "critical"`)
	assert.Equal(t, analysis.SentimentCritical, s)
}

func TestGetUserPrompt_CapsSample(t *testing.T) {
	p := GetUserPrompt(strings.Repeat("a", 5000))
	assert.LessOrEqual(t, len(p), analysis.MaxSampleChars+120)
}
