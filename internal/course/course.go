// Package course defines the business entities a withdrawal batch carries:
// course types (the grouping key whose date range goes into every request)
// and the selected courses posted back to the school server.
//
// The engine treats both as opaque payloads. Their only behavior is plan
// loading and validation, so a malformed plan is rejected before any request
// leaves the process.
package course

// CourseType classifies selected courses (for example "public elective").
// StartDate and EndDate are copied verbatim into each withdrawal request.
type CourseType struct {
	ID        string `json:"id" yaml:"id"`
	Name      string `json:"name" yaml:"name"`
	StartDate string `json:"start_date" yaml:"start_date" validate:"required"`
	EndDate   string `json:"end_date" yaml:"end_date" validate:"required"`
}

// SelectedCourse is one course already chosen by the student, carrying the
// identifiers the school server expects on the withdrawal form.
type SelectedCourse struct {
	Name   string `json:"name" yaml:"name"`
	PostID string `json:"post_id" yaml:"post_id" validate:"required"`
	PostTc string `json:"post_tc" yaml:"post_tc" validate:"required"`
	PostC  string `json:"post_c" yaml:"post_c" validate:"required"`
	PostTm string `json:"post_tm" yaml:"post_tm"`
}

// Label returns a human readable name for logs and CLI output.
func (c SelectedCourse) Label() string {
	if c.Name != "" {
		return c.Name
	}
	return c.PostID
}

// Group is one course type with the courses to withdraw under it.
type Group struct {
	Type    CourseType       `json:"type" yaml:"type"`
	Courses []SelectedCourse `json:"courses" yaml:"courses" validate:"dive"`
}

// Plan is an ordered batch input. Groups are dispatched in slice order and
// courses within a group in list order. A nil Plan means no input at all.
type Plan []Group

// Len returns the total number of courses across all groups.
func (p Plan) Len() int {
	n := 0
	for _, g := range p {
		n += len(g.Courses)
	}
	return n
}
