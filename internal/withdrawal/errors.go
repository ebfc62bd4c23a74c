package withdrawal

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies why part of a batch could not be reported as a success.
type ErrorKind int

const (
	// Unknown is reserved for listeners; the engine never reports it.
	Unknown ErrorKind = iota

	// CourseList means the batch had no plan at all.
	CourseList

	// DataPost means a submission failed for any reason other than a timeout.
	DataPost

	// TimeOut means the school server did not answer in time.
	TimeOut
)

var kindNames = map[ErrorKind]string{
	Unknown:    "UNKNOWN",
	CourseList: "COURSE_LIST",
	DataPost:   "DATA_POST",
	TimeOut:    "TIME_OUT",
}

func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// MarshalText encodes the kind by name so reports read well as JSON.
func (k ErrorKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText accepts the names produced by String.
func (k *ErrorKind) UnmarshalText(text []byte) error {
	name := strings.ToUpper(strings.TrimSpace(string(text)))
	for kind, n := range kindNames {
		if n == name {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown error kind %q", string(text))
}

// classify maps a submission error onto the kind reported to listeners.
func classify(err error) ErrorKind {
	if errors.Is(err, ErrTimeout) || errors.Is(err, context.DeadlineExceeded) {
		return TimeOut
	}
	return DataPost
}

// Outcome is the settled result of one unit: exactly one of Result or Kind.
type Outcome struct {
	Result *Result
	Kind   ErrorKind
}

// Succeeded reports whether the outcome carries a Result.
func (o Outcome) Succeeded() bool {
	return o.Result != nil
}

func successOutcome(r *Result) Outcome {
	return Outcome{Result: r}
}

func failureOutcome(kind ErrorKind) Outcome {
	return Outcome{Kind: kind}
}
