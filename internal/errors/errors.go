// internal/errors/errors.go
package appErrors

import (
    "errors"
    "fmt"
)

// ErrCampaignNotFound is returned when a campaign id does not exist
type ErrCampaignNotFound struct {
    CampaignID string
}

func (e *ErrCampaignNotFound) Error() string {
    return fmt.Sprintf("campaign with ID %s not found", e.CampaignID)
}

// Helper constructor
func NewCampaignNotFound(id string) error {
    return &ErrCampaignNotFound{CampaignID: id}
}

// ErrPlanNotFound is returned when a plan id is not in its parent's plan list
type ErrPlanNotFound struct {
    CampaignID string
    PlanID     string
}

func (e *ErrPlanNotFound) Error() string {
    return fmt.Sprintf("plan %s not found in campaign %s", e.PlanID, e.CampaignID)
}

func NewPlanNotFound(campaignID, planID string) error {
    return &ErrPlanNotFound{CampaignID: campaignID, PlanID: planID}
}

// ErrNotFound covers reference data and users.
type ErrNotFound struct {
    Entity string
    ID     string
}

func (e *ErrNotFound) Error() string {
    return fmt.Sprintf("%s with ID %s not found", e.Entity, e.ID)
}

func NewNotFound(entity, id string) error {
    return &ErrNotFound{Entity: entity, ID: id}
}

// ValidationError reports a missing or malformed required field.
type ValidationError struct {
    Field  string
    Reason string
}

func (e *ValidationError) Error() string {
    return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func Required(field string) error {
    return &ValidationError{Field: field, Reason: "is required"}
}

// ErrConflict reports a unique constraint violation.
type ErrConflict struct {
    Entity string
    Field  string
}

func (e *ErrConflict) Error() string {
    return fmt.Sprintf("%s with this %s already exists", e.Entity, e.Field)
}

// FetchError wraps a failed data store load. The consuming screen shows an
// empty state and never mixes it with an earlier snapshot.
type FetchError struct {
    Source string
    Err    error
}

func (e *FetchError) Error() string {
    return fmt.Sprintf("fetch %s: %v", e.Source, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ParseError is produced when a stored date string cannot be read.
// It never leaves the analytics package; the record is excluded instead.
type ParseError struct {
    Value string
}

func (e *ParseError) Error() string {
    return fmt.Sprintf("cannot parse date %q", e.Value)
}

var (
    ErrInvalidRange = errors.New("invalid date range")
    ErrUnauthorized = errors.New("unauthorized")
    ErrForbidden    = errors.New("forbidden")
)

// IsNotFound reports whether err is any of the not-found types.
func IsNotFound(err error) bool {
    var c *ErrCampaignNotFound
    var p *ErrPlanNotFound
    var n *ErrNotFound
    return errors.As(err, &c) || errors.As(err, &p) || errors.As(err, &n)
}
