// Package withdrawal runs batches of course withdrawal requests against the
// school server. A Coordinator fans a Plan out over a shared worker pool,
// drains the results in dispatch order and reports each outcome to a
// Listener. Only one batch may be in flight per Coordinator.
package withdrawal

import (
	"errors"
	"net/url"

	"github.com/naucourse/chooser/internal/course"
)

// Form field names expected by the school's withdrawal endpoint.
const (
	FieldID        = "id"
	FieldStartDate = "startDate"
	FieldEndDate   = "endDate"
	FieldTc        = "tc"
	FieldC         = "c"
	FieldTm        = "tm"
)

// ErrTimeout marks a submission that did not get an answer in time. A
// Submitter wraps it so the outcome is reported as TimeOut.
var ErrTimeout = errors.New("withdrawal request timed out")

// Unit is one withdrawal request, fully prepared for submission.
type Unit struct {
	Course   course.SelectedCourse
	Type     course.CourseType
	Endpoint string

	form url.Values
}

// NewUnit builds the request for withdrawing c from its course type t.
func NewUnit(t course.CourseType, c course.SelectedCourse, endpoint string) Unit {
	form := url.Values{}
	form.Set(FieldID, c.PostID)
	form.Set(FieldStartDate, t.StartDate)
	form.Set(FieldEndDate, t.EndDate)
	form.Set(FieldTc, c.PostTc)
	form.Set(FieldC, c.PostC)
	form.Set(FieldTm, c.PostTm)

	return Unit{
		Course:   c,
		Type:     t,
		Endpoint: endpoint,
		form:     form,
	}
}

// Form returns a copy of the request body fields.
func (u Unit) Form() url.Values {
	out := make(url.Values, len(u.form))
	for k, v := range u.form {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// Result is what the school server answered for an accepted submission.
type Result struct {
	Course   course.SelectedCourse `json:"course"`
	Type     course.CourseType     `json:"type"`
	Accepted bool                  `json:"accepted"`
	Message  string                `json:"message,omitempty"`
}
