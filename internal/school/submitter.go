package school

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/naucourse/chooser/internal/logging"
	"github.com/naucourse/chooser/internal/withdrawal"
)

// maxMessageLength trims unstructured bodies (usually an HTML error page).
const maxMessageLength = 512

// withdrawalReply is the JSON answer of the withdrawal handler. Older
// deployments use "message" instead of "msg".
type withdrawalReply struct {
	Success *bool  `json:"success"`
	Msg     string `json:"msg"`
	Message string `json:"message"`
}

// WithdrawalSubmitter posts withdrawal units through a Client.
type WithdrawalSubmitter struct {
	client *Client
}

var _ withdrawal.Submitter = (*WithdrawalSubmitter)(nil)

// NewWithdrawalSubmitter creates a submitter bound to client.
func NewWithdrawalSubmitter(client *Client) *WithdrawalSubmitter {
	return &WithdrawalSubmitter{client: client}
}

// SubmitOne posts unit and reads the server's verdict. A non-2xx status is an
// error; a timeout wraps withdrawal.ErrTimeout.
func (s *WithdrawalSubmitter) SubmitOne(ctx context.Context, unit withdrawal.Unit) (*withdrawal.Result, error) {
	resp, err := s.client.PostForm(ctx, unit.Endpoint, unit.Form())
	if err != nil {
		if errors.Is(err, ErrRequestTimeout) {
			return nil, fmt.Errorf("%w: %s: %v", withdrawal.ErrTimeout, unit.Course.Label(), err)
		}
		return nil, fmt.Errorf("withdraw %s: %w", unit.Course.Label(), err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("withdraw %s: school server returned status %d: %s",
			unit.Course.Label(), resp.StatusCode, truncate(strings.TrimSpace(string(resp.Body))))
	}

	accepted, message := parseReply(resp.Body)
	logging.Debug("Withdrawal of %s answered in %v: accepted=%t %q",
		unit.Course.Label(), resp.Duration, accepted, message)

	return &withdrawal.Result{
		Course:   unit.Course,
		Type:     unit.Type,
		Accepted: accepted,
		Message:  message,
	}, nil
}

// parseReply reads a JSON verdict when the body holds one, otherwise the
// trimmed body text is the message and the withdrawal counts as accepted.
func parseReply(body []byte) (bool, string) {
	trimmed := bytes.TrimSpace(body)

	var reply withdrawalReply
	if len(trimmed) > 0 && trimmed[0] == '{' && json.Unmarshal(trimmed, &reply) == nil && reply.Success != nil {
		msg := reply.Msg
		if msg == "" {
			msg = reply.Message
		}
		return *reply.Success, msg
	}

	return true, truncate(string(trimmed))
}

// truncate caps s at maxMessageLength bytes without splitting a UTF-8
// sequence.
func truncate(s string) string {
	if len(s) <= maxMessageLength {
		return s
	}
	cut := maxMessageLength
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
