package types

import (
	"encoding/json"
	"fmt"

	"github.com/portfolio-dev/portfolio/internal/apperrors"
)

// Status is the project's position in its fixed lifecycle. The integer
// codes are persisted and define the forward order; CANCELLED is the only
// status reachable out of sequence.
type Status int

const (
	StatusUnderReview Status = iota
	StatusReviewDone
	StatusReviewApproved
	StatusStarted
	StatusPlanned
	StatusInProgress
	StatusCompleted
	StatusCancelled
)

var statusNames = map[Status]string{
	StatusUnderReview:    "UNDER_REVIEW",
	StatusReviewDone:     "REVIEW_DONE",
	StatusReviewApproved: "REVIEW_APPROVED",
	StatusStarted:        "STARTED",
	StatusPlanned:        "PLANNED",
	StatusInProgress:     "IN_PROGRESS",
	StatusCompleted:      "COMPLETED",
	StatusCancelled:      "CANCELLED",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("STATUS(%d)", int(s))
}

func (s Status) Valid() bool {
	_, ok := statusNames[s]
	return ok
}

// ParseStatus resolves a status by its name.
func ParseStatus(name string) (Status, error) {
	for s, n := range statusNames {
		if n == name {
			return s, nil
		}
	}
	return 0, apperrors.Validationf("invalid status: %s", name)
}

// CanAdvanceTo reports whether target is the immediate successor of s.
// Skipping steps or moving backward is never allowed here; cancellation
// is short-circuited by the lifecycle service before this check runs.
func (s Status) CanAdvanceTo(target Status) bool {
	return int(target) == int(s)+1
}

// Next returns the status one step forward in the sequence. COMPLETED and
// CANCELLED have no successor.
func (s Status) Next() (Status, error) {
	if s.IsTerminal() {
		return 0, apperrors.StateTransitionf("status %s is final, cannot advance", s)
	}
	return s + 1, nil
}

// IsTerminal reports whether the project no longer counts against a
// member's active-allocation cap.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Status) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	parsed, err := ParseStatus(name)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
