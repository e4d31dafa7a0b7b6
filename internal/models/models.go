// package models defines the data model for the static asset server
package models

import (
	"fmt"
	"time"
)

// AccessRecord is one served request.
type AccessRecord struct {
	ID         string        `json:"id"`
	Method     string        `json:"method"`
	URL        string        `json:"url"`
	Status     int           `json:"status"`
	Bytes      int64         `json:"bytes"`
	Duration   time.Duration `json:"duration"`
	RemoteAddr string        `json:"remote_addr"`
	RequestID  string        `json:"request_id"`
	CreatedAt  time.Time     `json:"created_at"`
}

// Line renders the record the way the access log prints it.
func (r AccessRecord) Line() string {
	return fmt.Sprintf("%s %s -> %d", r.Method, r.URL, r.Status)
}

// Validate checks the fields the store requires.
func (r AccessRecord) Validate() error {
	if r.Method == "" {
		return fmt.Errorf("method is required")
	}
	if r.URL == "" {
		return fmt.Errorf("url is required")
	}
	if r.Status < 100 || r.Status > 599 {
		return fmt.Errorf("status %d out of range", r.Status)
	}
	return nil
}
