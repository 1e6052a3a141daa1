package models

import (
	"encoding/json"
	"fmt"
)

// ActionBody is the parseable part of a mutating response body.
type ActionBody struct {
	OK      bool          `json:"ok"`
	Msg     string        `json:"msg,omitempty"`
	Toggled *ToggledState `json:"toggled,omitempty"`
}

// ActionResult is the uniform envelope returned by the PATCH helper. It is
// produced for every response the server manages to send, 2xx or not, JSON or
// not, so callers never lose the server's explanatory message.
//
// OK is true only when the body parsed as JSON and declared ok:true. The HTTP
// status code does not participate: a 200 carrying {ok:false} is a failure,
// and a non-200 carrying {ok:true} is a success.
type ActionResult struct {
	Status int
	OK     bool
	Body   *ActionBody     // nil when the body was not valid JSON
	Raw    json.RawMessage // raw bytes behind Body, nil when Body is nil
	Text   string          // body text when not JSON; "" if unreadable
}

// Diagnostic builds the most informative failure message available: the
// server's msg field, else the raw text body, else the stringified JSON.
func (r ActionResult) Diagnostic() string {
	detail := ""
	switch {
	case r.Body != nil && r.Body.Msg != "":
		detail = r.Body.Msg
	case r.Text != "":
		detail = r.Text
	case r.Raw != nil:
		detail = string(r.Raw)
	}
	if detail == "" {
		return fmt.Sprintf("HTTP %d", r.Status)
	}
	return fmt.Sprintf("HTTP %d %s", r.Status, detail)
}
