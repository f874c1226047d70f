package conversation

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/carebook/appointment-platform/internal/appointments"
	"github.com/carebook/appointment-platform/internal/doctors"
	"github.com/carebook/appointment-platform/internal/observability/metrics"
	"github.com/carebook/appointment-platform/internal/patients"
	"github.com/carebook/appointment-platform/internal/schedule"
	"github.com/carebook/appointment-platform/internal/triage"
	"github.com/carebook/appointment-platform/pkg/logging"
)

var bookingTracer = otel.Tracer("carebook/conversation")

// SpecialtyResolver maps free-text symptoms to a specialty. Resolution is
// fail-soft so the interface carries no error.
type SpecialtyResolver interface {
	Resolve(ctx context.Context, freeText string) triage.Resolution
}

// DoctorMatcher narrows doctors by location/specialty and by ledger
// availability.
type DoctorMatcher interface {
	ByLocationAndSpecialty(ctx context.Context, location, specialty string) ([]doctors.Doctor, error)
	AvailableFor(ctx context.Context, candidates []doctors.Doctor, date string, start, end schedule.TimeOfDay) ([]doctors.Doctor, error)
}

// Config bundles the engine's collaborators.
type Config struct {
	Store        Store
	Resolver     SpecialtyResolver
	Matcher      DoctorMatcher
	Ledger       schedule.Ledger
	Patients     patients.Repository
	Appointments appointments.Repository
	Metrics      *metrics.BookingMetrics
	Logger       *logging.Logger

	// GuestEmail is the patient record used for user ids that are not
	// numeric patient ids.
	GuestEmail string

	// BookingWindowDays bounds how far ahead a date may be picked.
	// Valid dates run from tomorrow through today + BookingWindowDays.
	BookingWindowDays int
}

// Engine drives the booking dialogue: one message in, one reply out, with
// all state living in the session store between messages.
type Engine struct {
	cfg Config
	now func() time.Time
}

// Result is what the transport layer gets back for a single message.
type Result struct {
	Reply       string                    `json:"reply"`
	Step        Step                      `json:"step"`
	Terminal    bool                      `json:"terminal"`
	Committed   bool                      `json:"committed"`
	Appointment *appointments.Appointment `json:"appointment,omitempty"`
}

// NewEngine creates the booking engine. Metrics and Logger may be nil.
func NewEngine(cfg Config) *Engine {
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.NewBookingMetrics(nil)
	}
	if cfg.BookingWindowDays <= 0 {
		cfg.BookingWindowDays = 90
	}
	return &Engine{cfg: cfg, now: time.Now}
}

// Start begins a fresh dialogue for the user, replacing any prior session.
func (e *Engine) Start(ctx context.Context, userID string) (*Result, error) {
	session := NewSession(userID)
	if err := e.cfg.Store.Put(ctx, session); err != nil {
		return nil, err
	}
	e.cfg.Metrics.ObserveConversationStarted()
	return &Result{Reply: symptomsPrompt(), Step: StepSymptoms}, nil
}

// StartWithSymptoms begins a dialogue and immediately feeds the known
// symptom text, so callers with intake data skip the opening question.
func (e *Engine) StartWithSymptoms(ctx context.Context, userID, symptoms string) (*Result, error) {
	if _, err := e.Start(ctx, userID); err != nil {
		return nil, err
	}
	return e.Continue(ctx, userID, symptoms)
}

// Continue feeds one user message into the dialogue. A missing session
// starts a fresh one, treating the message as symptom text.
func (e *Engine) Continue(ctx context.Context, userID, message string) (*Result, error) {
	ctx, span := bookingTracer.Start(ctx, "conversation.Continue",
		trace.WithAttributes(attribute.String("user.id", userID)))
	defer span.End()

	session, err := e.cfg.Store.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		if _, err := e.Start(ctx, userID); err != nil {
			return nil, err
		}
		session = NewSession(userID)
	}
	span.SetAttributes(attribute.String("booking.step", session.Step.String()))

	before := session.Step
	result, err := e.dispatch(ctx, session, message)
	if err != nil {
		// Any failed step handler discards the session so the user is
		// never stranded in a half-mutated state.
		return e.abort(ctx, userID, err), nil
	}

	if result.Terminal {
		if err := e.cfg.Store.Remove(ctx, userID); err != nil {
			e.cfg.Logger.Warn("failed to remove finished session", "user_id", userID, "error", err)
		}
	} else {
		session.UpdatedAt = e.now().UTC()
		if err := e.cfg.Store.Put(ctx, session); err != nil {
			return e.abort(ctx, userID, err), nil
		}
	}

	if result.Step != before {
		e.cfg.Metrics.ObserveStepTransition(result.Step.String())
	}
	return result, nil
}

// CurrentStep reports the step of the user's live session, if any.
func (e *Engine) CurrentStep(ctx context.Context, userID string) (Step, bool, error) {
	session, err := e.cfg.Store.Get(ctx, userID)
	if err != nil || session == nil {
		return 0, false, err
	}
	return session.Step, true, nil
}

// Reset discards the user's session, if any.
func (e *Engine) Reset(ctx context.Context, userID string) error {
	return e.cfg.Store.Remove(ctx, userID)
}

func (e *Engine) dispatch(ctx context.Context, session *Session, message string) (*Result, error) {
	switch session.Step {
	case StepSymptoms:
		return e.handleSymptoms(ctx, session, message)
	case StepLocation:
		return e.handleLocation(session, message)
	case StepDate:
		return e.handleDate(session, message)
	case StepTime:
		return e.handleTime(ctx, session, message)
	case StepReason:
		return e.handleReason(ctx, session, message)
	default:
		return nil, fmt.Errorf("conversation: unknown step %v", session.Step)
	}
}

func (e *Engine) handleSymptoms(ctx context.Context, session *Session, message string) (*Result, error) {
	res := e.cfg.Resolver.Resolve(ctx, message)

	candidates, err := e.cfg.Matcher.ByLocationAndSpecialty(ctx, "", res.Specialty)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		// Stay put, nothing stored.
		return &Result{Reply: symptomsRetryPrompt(res.Specialty), Step: StepSymptoms}, nil
	}

	session.Symptoms = message
	session.Specialty = res.Specialty
	session.CandidateDoctors = candidates
	session.Locations = distinctLocations(candidates)
	session.Step = StepLocation

	return &Result{Reply: locationPrompt(res.Specialty, session.Locations), Step: StepLocation}, nil
}

func (e *Engine) handleLocation(session *Session, message string) (*Result, error) {
	idx := selectFromList(message, session.Locations)
	if idx < 0 {
		return &Result{Reply: locationRetryPrompt(session.Locations), Step: StepLocation}, nil
	}

	session.SelectedLocation = session.Locations[idx]
	session.FilteredDoctors = filterByLocation(session.CandidateDoctors, session.SelectedLocation)
	session.Step = StepDate

	return &Result{Reply: datePrompt(), Step: StepDate}, nil
}

func (e *Engine) handleDate(session *Session, message string) (*Result, error) {
	minDate, maxDate := e.bookingWindow()

	picked, err := time.Parse(schedule.DateLayout, strings.TrimSpace(message))
	if err != nil || picked.Before(minDate) || picked.After(maxDate) {
		return &Result{
			Reply: dateRetryPrompt(minDate.Format(schedule.DateLayout), maxDate.Format(schedule.DateLayout)),
			Step:  StepDate,
		}, nil
	}

	session.SelectedDate = picked.Format(schedule.DateLayout)
	session.Step = StepTime

	return &Result{Reply: timePrompt(session.SelectedDate), Step: StepTime}, nil
}

func (e *Engine) handleTime(ctx context.Context, session *Session, message string) (*Result, error) {
	idx := selectSlot(message)
	if idx < 0 {
		return &Result{Reply: timeRetryPrompt(), Step: StepTime}, nil
	}
	slot := slotCatalog[idx]

	start, end, err := ParseSlotLabel(slot)
	if err != nil {
		return nil, err
	}

	available, err := e.cfg.Matcher.AvailableFor(ctx, session.FilteredDoctors, session.SelectedDate, start, end)
	if err != nil {
		return nil, err
	}
	if len(available) == 0 {
		return &Result{Reply: allBookedPrompt(session.SelectedDate), Step: StepTime}, nil
	}

	best, _ := doctors.BestRated(available)
	session.SelectedSlot = slot
	session.SelectedDoctor = &best
	session.Step = StepReason

	return &Result{Reply: reasonPrompt(best), Step: StepReason}, nil
}

func (e *Engine) handleReason(ctx context.Context, session *Session, message string) (*Result, error) {
	reason := strings.TrimSpace(message)
	if len(reason) < 3 {
		return &Result{Reply: reasonRetryPrompt(), Step: StepReason}, nil
	}
	session.Reason = reason

	appt, err := e.commit(ctx, session)
	if err != nil {
		return nil, err
	}

	e.cfg.Metrics.ObserveConversationFinished("committed")
	return &Result{
		Reply:       confirmationReply(appt, session.SelectedDoctor.Name),
		Step:        StepReason,
		Terminal:    true,
		Committed:   true,
		Appointment: appt,
	}, nil
}

// commit reserves the slot through the ledger and, only on success,
// persists the CONFIRMED appointment. The ledger is the single arbiter of
// conflicts.
func (e *Engine) commit(ctx context.Context, session *Session) (*appointments.Appointment, error) {
	ctx, span := bookingTracer.Start(ctx, "conversation.commit",
		trace.WithAttributes(
			attribute.Int64("doctor.id", session.SelectedDoctor.ID),
			attribute.String("booking.date", session.SelectedDate),
		))
	defer span.End()

	started := e.now()

	patient, err := e.resolvePatient(ctx, session.UserID)
	if err != nil {
		return nil, err
	}

	start, end, err := ParseSlotLabel(session.SelectedSlot)
	if err != nil {
		return nil, err
	}

	if _, err := e.cfg.Ledger.Reserve(ctx, session.SelectedDoctor.ID, session.SelectedDate, start, end); err != nil {
		return nil, err
	}

	appt, err := e.cfg.Appointments.Create(ctx, &appointments.CreateAppointmentRequest{
		DoctorID:  session.SelectedDoctor.ID,
		PatientID: patient.ID,
		Date:      session.SelectedDate,
		Start:     start,
		End:       end,
		Reason:    session.Reason,
	})
	if err != nil {
		return nil, err
	}

	e.cfg.Metrics.ObserveCommitLatency(e.now().Sub(started).Seconds())
	e.cfg.Logger.Info("appointment booked",
		"appointment_id", appt.ID,
		"doctor_id", appt.DoctorID,
		"patient_id", appt.PatientID,
		"date", appt.Date,
	)
	return appt, nil
}

// resolvePatient maps the conversational user id onto a patient record.
// Numeric ids are patient ids; anything else books under the shared guest
// account.
func (e *Engine) resolvePatient(ctx context.Context, userID string) (*patients.Patient, error) {
	if id, err := strconv.ParseInt(userID, 10, 64); err == nil {
		return e.cfg.Patients.GetByID(ctx, id)
	}
	return e.cfg.Patients.GetByEmail(ctx, e.cfg.GuestEmail)
}

// abort discards the session and translates the failure into a terminal,
// user-facing result. Conflicts and missing records get distinct messages
// so the caller can suggest the right recovery.
func (e *Engine) abort(ctx context.Context, userID string, cause error) *Result {
	if err := e.cfg.Store.Remove(ctx, userID); err != nil {
		e.cfg.Logger.Warn("failed to remove aborted session", "user_id", userID, "error", err)
	}

	reply := genericReply
	outcome := "error"
	switch {
	case errors.Is(cause, schedule.ErrSlotConflict):
		reply = conflictReply
		outcome = "conflict"
		e.cfg.Metrics.ObserveSlotConflict()
	case errors.Is(cause, patients.ErrPatientNotFound), errors.Is(cause, doctors.ErrDoctorNotFound):
		reply = notFoundReply
		outcome = "not_found"
	}

	e.cfg.Logger.Error("booking conversation aborted",
		"user_id", userID,
		"outcome", outcome,
		"error", cause,
	)
	e.cfg.Metrics.ObserveConversationFinished(outcome)

	return &Result{Reply: reply, Step: StepSymptoms, Terminal: true}
}

// bookingWindow returns the inclusive [tomorrow, today+window] date bounds
// at midnight UTC.
func (e *Engine) bookingWindow() (minDate, maxDate time.Time) {
	today := e.now().UTC().Truncate(24 * time.Hour)
	return today.AddDate(0, 0, 1), today.AddDate(0, 0, e.cfg.BookingWindowDays)
}

func distinctLocations(ds []doctors.Doctor) []string {
	seen := make(map[string]struct{}, len(ds))
	out := make([]string, 0, len(ds))
	for _, d := range ds {
		if _, ok := seen[d.Location]; ok {
			continue
		}
		seen[d.Location] = struct{}{}
		out = append(out, d.Location)
	}
	return out
}

func filterByLocation(ds []doctors.Doctor, location string) []doctors.Doctor {
	out := make([]doctors.Doctor, 0, len(ds))
	for _, d := range ds {
		if strings.EqualFold(d.Location, location) {
			out = append(out, d)
		}
	}
	return out
}
