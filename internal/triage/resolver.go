package triage

import (
	"context"
	"strings"

	"github.com/carebook/appointment-platform/pkg/logging"
)

// DefaultSpecialty is returned when neither the rules nor the classifier
// produce a match. Booking must be able to proceed without the classifier.
const DefaultSpecialty = "General Medicine"

// Resolution is the outcome of mapping free-text symptoms to a specialty.
type Resolution struct {
	Specialty  string   `json:"specialty"`
	Confidence float64  `json:"confidence"`
	// ClarificationQuestions is populated only by the external classifier
	// when its confidence is below threshold.
	ClarificationQuestions []string `json:"clarification_questions,omitempty"`
}

// Classifier is the optional external symptom classifier. Failures are
// absorbed by the resolver, never propagated to callers.
type Classifier interface {
	Classify(ctx context.Context, text string) (Resolution, error)
}

type rule struct {
	specialty string
	triggers  []string
}

// Keyword rules in fixed priority order; first match wins.
var rules = []rule{
	{"Cardiology", []string{"chest pain", "heart", "palpitation", "cardiac"}},
	{"Dermatology", []string{"skin", "rash", "acne", "itch", "eczema"}},
	{"Pulmonology", []string{"cough", "breathing", "lung", "asthma", "shortness of breath"}},
	{"Gastroenterology", []string{"stomach", "nausea", "digestive", "abdominal", "diarrhea"}},
	{"Orthopedics", []string{"joint", "back pain", "bone", "fracture", "knee"}},
	{"Ophthalmology", []string{"eye", "vision", "blurry"}},
	{"ENT", []string{"ear", "throat", "sinus", "nose", "hearing"}},
	{"Neurology", []string{"headache", "migraine", "dizzy", "numbness", "seizure"}},
}

// Resolver maps free-text symptom descriptions to a candidate specialty.
// Ordered keyword rules run first; an optional external classifier handles
// the remainder, failing soft to DefaultSpecialty.
type Resolver struct {
	classifier Classifier
	logger     *logging.Logger
}

// NewResolver creates a resolver. classifier may be nil, which keeps
// resolution rule-based only.
func NewResolver(classifier Classifier, logger *logging.Logger) *Resolver {
	if logger == nil {
		logger = logging.Default()
	}
	return &Resolver{classifier: classifier, logger: logger}
}

// Resolve never fails: classifier unavailability downgrades to rule-based
// resolution, and no rule match falls back to the default specialty.
func (r *Resolver) Resolve(ctx context.Context, freeText string) Resolution {
	lower := strings.ToLower(freeText)

	for _, rl := range rules {
		for _, trigger := range rl.triggers {
			if strings.Contains(lower, trigger) {
				return Resolution{Specialty: rl.specialty, Confidence: 1.0}
			}
		}
	}

	if r.classifier != nil {
		res, err := r.classifier.Classify(ctx, freeText)
		if err != nil {
			r.logger.Warn("classifier unavailable, falling back to default specialty",
				"error", err,
			)
		} else if res.Specialty != "" {
			return res
		}
	}

	return Resolution{Specialty: DefaultSpecialty, Confidence: 0}
}
