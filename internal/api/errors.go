package api

import (
	"errors"
	"fmt"
	"strings"
)

// TransportError means the request never produced a response.
type TransportError struct {
	Op  string
	URL string
	Err error
}

func (e *TransportError) Error() string {
	if e == nil {
		return "transport error"
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ServiceError means the service answered with a failure.
type ServiceError struct {
	Op      string
	Status  int
	Message string
}

func (e *ServiceError) Error() string {
	if e == nil {
		return "service error"
	}
	msg := strings.TrimSpace(e.Message)
	if msg == "" {
		msg = "no details"
	}
	return fmt.Sprintf("%s: HTTP %d: %s", e.Op, e.Status, msg)
}

// StreamError means the progress stream failed to open or dropped.
type StreamError struct {
	Err error
}

func (e *StreamError) Error() string {
	if e == nil || e.Err == nil {
		return "progress stream error"
	}
	return "progress stream: " + e.Err.Error()
}

func (e *StreamError) Unwrap() error { return e.Err }

// Message renders err as a single line for the user.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var svc *ServiceError
	if errors.As(err, &svc) {
		if msg := firstLine(svc.Message); msg != "" {
			return msg
		}
		return fmt.Sprintf("%s failed (HTTP %d)", svc.Op, svc.Status)
	}
	var tr *TransportError
	if errors.As(err, &tr) {
		return fmt.Sprintf("cannot reach processing service: %v", tr.Err)
	}
	var se *StreamError
	if errors.As(err, &se) {
		return "progress updates unavailable: " + firstLine(fmt.Sprint(se.Err))
	}
	return firstLine(err.Error())
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	return s
}
