// internal/sentiment/classifier_test.go
package sentiment

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.Header.Get("Authorization"), "Bearer ")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
}

func TestClassifyMapsLabels(t *testing.T) {
	tests := []struct {
		name      string
		response  string
		sentiment Sentiment
		advice    string
	}{
		{
			"joy → confident",
			`[[{"label":"joy","score":0.91},{"label":"sadness","score":0.05}]]`,
			SentimentConfident,
			sentimentAdvice[SentimentConfident],
		},
		{
			"sadness → disappointed",
			`[[{"label":"sadness","score":0.8},{"label":"joy","score":0.1}]]`,
			SentimentDisappointed,
			sentimentAdvice[SentimentDisappointed],
		},
		{
			"fear → uncertain",
			`[[{"label":"fear","score":0.7}]]`,
			SentimentUncertain,
			sentimentAdvice[SentimentUncertain],
		},
		{
			"surprise без совета",
			`[[{"label":"surprise","score":0.9}]]`,
			SentimentSurprised,
			"",
		},
		{
			"неизвестная метка → neutral",
			`[[{"label":"boredom","score":0.99}]]`,
			SentimentNeutral,
			"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, http.StatusOK, tt.response)
			defer srv.Close()

			c := NewClassifier(srv.URL, "test-token", 5*time.Second)
			res := c.Classify(context.Background(), "felt something")

			assert.Equal(t, tt.sentiment, res.Sentiment)
			assert.Equal(t, tt.advice, res.Advice)
		})
	}
}

// При равных score остается первая метка по порядку ответа
func TestClassifyTieBreakFirstSeen(t *testing.T) {
	srv := newTestServer(t, http.StatusOK,
		`[[{"label":"anger","score":0.5},{"label":"joy","score":0.5}]]`)
	defer srv.Close()

	c := NewClassifier(srv.URL, "test-token", 5*time.Second)
	res := c.Classify(context.Background(), "whatever")

	assert.Equal(t, SentimentFrustrated, res.Sentiment)
	assert.Equal(t, "anger", res.RawLabel)
}

func TestClassifyContextualAdviceOverrides(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, `[[{"label":"joy","score":0.9}]]`)
	defer srv.Close()

	c := NewClassifier(srv.URL, "test-token", 5*time.Second)

	res := c.Classify(context.Background(), "I moved my Stop-Loss too early")
	assert.Equal(t, adviceStopLoss, res.Advice)

	res = c.Classify(context.Background(), "was totally OVERLEVERAGED again")
	assert.Equal(t, adviceOverleveraged, res.Advice)
}

func TestClassifyServiceErrorFallsBackToNeutral(t *testing.T) {
	srv := newTestServer(t, http.StatusInternalServerError, `{"error":"model loading"}`)
	defer srv.Close()

	c := NewClassifier(srv.URL, "test-token", 5*time.Second)
	res := c.Classify(context.Background(), "felt great")

	assert.Equal(t, SentimentNeutral, res.Sentiment)
	assert.Equal(t, fallbackServiceError, res.Advice)
}

func TestClassifyMalformedPayloadFallsBackToNeutral(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, `{"not":"an array"}`)
	defer srv.Close()

	c := NewClassifier(srv.URL, "test-token", 5*time.Second)
	res := c.Classify(context.Background(), "felt great")

	assert.Equal(t, SentimentNeutral, res.Sentiment)
	assert.Equal(t, fallbackServiceError, res.Advice)
}

func TestClassifyTransportErrorFallsBackToNeutral(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, `[[{"label":"joy","score":0.9}]]`)
	srv.Close() // сервер недоступен

	c := NewClassifier(srv.URL, "test-token", time.Second)
	res := c.Classify(context.Background(), "felt great")

	require.Equal(t, SentimentNeutral, res.Sentiment)
	assert.Equal(t, fallbackTransportError, res.Advice)
}

func TestClassifyTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`[[{"label":"joy","score":0.9}]]`))
	}))
	defer srv.Close()

	c := NewClassifier(srv.URL, "test-token", 20*time.Millisecond)
	res := c.Classify(context.Background(), "slow service")

	assert.Equal(t, SentimentNeutral, res.Sentiment)
	assert.Equal(t, fallbackTransportError, res.Advice)
}
