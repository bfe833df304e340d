// Package models holds the view models rebuilt from the workbook on every request.
package models

import "strings"

// OpportunityKind selects one of the opportunity worksheets
type OpportunityKind string

const (
	KindOpportunities OpportunityKind = "opportunities"
	KindJobs          OpportunityKind = "jobs"
	KindEvents        OpportunityKind = "events"
)

// Valid reports whether k names a known worksheet
func (k OpportunityKind) Valid() bool {
	switch k {
	case KindOpportunities, KindJobs, KindEvents:
		return true
	}
	return false
}

// CommentType is the kind of entity a comment is attached to
type CommentType string

const (
	CommentMaterial CommentType = "material"
	CommentProfile  CommentType = "profile"
)

// ParseCommentType normalises a submitted comment type
func ParseCommentType(s string) (CommentType, bool) {
	switch t := CommentType(strings.ToLower(strings.TrimSpace(s))); t {
	case CommentMaterial, CommentProfile:
		return t, true
	}
	return "", false
}
