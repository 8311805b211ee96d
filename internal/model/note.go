package model

import (
	"fmt"
	"time"
)

// TimestampLayout is the ISO 8601 seconds-precision UTC layout used for
// createdAt and updatedAt, e.g. "2026-02-18T03:00:12Z".
const TimestampLayout = "2006-01-02T15:04:05Z"

// Attribute names shared by the JSON body and the DynamoDB item.
const (
	FieldID        = "id"
	FieldOwner     = "owner"
	FieldText      = "text"
	FieldCreatedAt = "createdAt"
	FieldUpdatedAt = "updatedAt"
)

// Note is a single note owned by exactly one user.
type Note struct {
	ID        string `json:"id" dynamodbav:"id"`
	Owner     string `json:"owner" dynamodbav:"owner"`
	Text      string `json:"text" dynamodbav:"text"`
	CreatedAt string `json:"createdAt" dynamodbav:"createdAt"`
	UpdatedAt string `json:"updatedAt,omitempty" dynamodbav:"updatedAt,omitempty"`
}

// Timestamp formats t in UTC with TimestampLayout.
func Timestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// Immutable reports whether the named attribute may never change after creation.
func Immutable(field string) bool {
	switch field {
	case FieldID, FieldOwner, FieldCreatedAt:
		return true
	}
	return false
}

// SetField assigns a mutable attribute by its attribute name.
func (n *Note) SetField(field, value string) error {
	switch field {
	case FieldText:
		n.Text = value
	case FieldUpdatedAt:
		n.UpdatedAt = value
	default:
		if Immutable(field) {
			return fmt.Errorf("field %q is immutable", field)
		}
		return fmt.Errorf("unknown field %q", field)
	}
	return nil
}
