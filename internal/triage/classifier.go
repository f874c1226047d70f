package triage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var classifierTracer = otel.Tracer("carebook.internal.triage.classifier")

// HTTPClassifier calls the symptom-classifier sidecar over HTTP. Every call
// runs under a bounded timeout; callers (the Resolver) treat any failure as
// fail-soft.
type HTTPClassifier struct {
	baseURL             string
	client              *http.Client
	confidenceThreshold float64
}

// NewHTTPClassifier creates a classifier client for the sidecar at baseURL.
func NewHTTPClassifier(baseURL string, timeout time.Duration, confidenceThreshold float64) *HTTPClassifier {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HTTPClassifier{
		baseURL:             strings.TrimRight(baseURL, "/"),
		client:              &http.Client{Timeout: timeout},
		confidenceThreshold: confidenceThreshold,
	}
}

type classifyRequest struct {
	Text string `json:"text"`
}

type classifyResponse struct {
	Specialty              string   `json:"specialty"`
	Confidence             float64  `json:"confidence"`
	ClarificationQuestions []string `json:"clarification_questions"`
}

// Classify sends the symptom text to the sidecar's /classify endpoint.
// Clarification questions are only surfaced when confidence is below the
// configured threshold.
func (c *HTTPClassifier) Classify(ctx context.Context, text string) (Resolution, error) {
	ctx, span := classifierTracer.Start(ctx, "triage.classify")
	defer span.End()

	body, err := json.Marshal(classifyRequest{Text: text})
	if err != nil {
		return Resolution{}, fmt.Errorf("triage: marshal classify request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/classify", bytes.NewReader(body))
	if err != nil {
		return Resolution{}, fmt.Errorf("triage: build classify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return Resolution{}, fmt.Errorf("triage: classifier unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Resolution{}, fmt.Errorf("triage: classifier returned status %d", resp.StatusCode)
	}

	var out classifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Resolution{}, fmt.Errorf("triage: decode classifier response: %w", err)
	}

	span.SetAttributes(
		attribute.String("triage.specialty", out.Specialty),
		attribute.Float64("triage.confidence", out.Confidence),
	)

	res := Resolution{Specialty: out.Specialty, Confidence: out.Confidence}
	if out.Confidence < c.confidenceThreshold {
		res.ClarificationQuestions = out.ClarificationQuestions
	}
	return res, nil
}
