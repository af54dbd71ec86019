// Package revision keeps an append-only, per-file-name log of revision
// records keyed by the content hash of a model file, and can embed a
// record into a model as the VersionControl property set of its project.
package revision

import (
	"strings"
	"time"

	"ifcaudit/internal/errors"
)

// ApprovalStatus is the review state recorded with a revision.
type ApprovalStatus string

const (
	Pending  ApprovalStatus = "Pending"
	Approved ApprovalStatus = "Approved"
	Rejected ApprovalStatus = "Rejected"
)

// ParseApprovalStatus accepts a status in any case. Empty means Pending.
func ParseApprovalStatus(s string) (ApprovalStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "pending":
		return Pending, nil
	case "approved":
		return Approved, nil
	case "rejected":
		return Rejected, nil
	}
	return "", errors.Newf(errors.InvalidInput, "unknown approval status %q (want Pending, Approved or Rejected)", s)
}

// Valid reports whether s is one of the three statuses.
func (s ApprovalStatus) Valid() bool {
	return s == Pending || s == Approved || s == Rejected
}

// Record is one immutable revision log entry. A status change is a new
// record, never an edit.
type Record struct {
	ID             string         `json:"id" yaml:"id"`
	FileName       string         `json:"fileName" yaml:"fileName"`
	FileHash       string         `json:"fileHash" yaml:"fileHash"`
	Algorithm      Algorithm      `json:"algorithm" yaml:"algorithm"`
	Timestamp      time.Time      `json:"timestamp" yaml:"timestamp"`
	Author         string         `json:"author" yaml:"author"`
	Description    string         `json:"description" yaml:"description"`
	ApprovalStatus ApprovalStatus `json:"approvalStatus" yaml:"approvalStatus"`
	Comments       string         `json:"comments" yaml:"comments"`
}

// TimestampISO formats the timestamp as ISO-8601 in UTC.
func (r Record) TimestampISO() string {
	return r.Timestamp.UTC().Format(time.RFC3339)
}
