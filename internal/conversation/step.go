package conversation

import "fmt"

// Step is the current position in the booking dialogue. The zero value is
// StepSymptoms so a fresh session starts at the beginning.
type Step int

const (
	StepSymptoms Step = iota
	StepLocation
	StepDate
	StepTime
	StepReason
)

var stepNames = map[Step]string{
	StepSymptoms: "SYMPTOMS",
	StepLocation: "LOCATION",
	StepDate:     "DATE",
	StepTime:     "TIME",
	StepReason:   "REASON",
}

func (s Step) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Step(%d)", int(s))
}

// MarshalText encodes the step as its name for JSON payloads and the Redis
// session store.
func (s Step) MarshalText() ([]byte, error) {
	name, ok := stepNames[s]
	if !ok {
		return nil, fmt.Errorf("conversation: unknown step %d", int(s))
	}
	return []byte(name), nil
}

// UnmarshalText decodes a step name.
func (s *Step) UnmarshalText(text []byte) error {
	for step, name := range stepNames {
		if name == string(text) {
			*s = step
			return nil
		}
	}
	return fmt.Errorf("conversation: unknown step %q", string(text))
}
