package crm

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// DefaultStatus is applied when a write does not name a status. The status
// set is open-ended; callers conventionally use Lead, Active and Inactive
// but any string is accepted and stored as-is.
const DefaultStatus = "Lead"

// Client is the single business entity: one contact record.
//
// FollowUpDate, when set, is an ISO YYYY-MM-DD string. Overdue checks
// compare it lexicographically against today's date string, which is
// correct for zero-padded ISO dates.
type Client struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	Phone        string  `json:"phone"`
	Status       string  `json:"status"`
	FollowUpDate *string `json:"follow_up_date"`
	Notes        string  `json:"notes"`
}

// Overdue reports whether the follow-up date is set and strictly before
// today (ISO date string). A follow-up due today is not overdue.
func (c *Client) Overdue(today string) bool {
	return c.FollowUpDate != nil && *c.FollowUpDate != "" && *c.FollowUpDate < today
}

// ClientInput is the write payload for create and full update, accepted as
// JSON on the API surface and as form fields on the HTML surface.
type ClientInput struct {
	Name         string `json:"name" form:"name" validate:"required"`
	Email        string `json:"email" form:"email" validate:"required"`
	Phone        string `json:"phone" form:"phone"`
	Status       string `json:"status" form:"status"`
	FollowUpDate string `json:"follow_up_date" form:"follow_up_date"`
	Notes        string `json:"notes" form:"notes"`
}

// Normalize trims surrounding whitespace and applies the status default.
// Call before Validate so the required checks see trimmed values.
func (in *ClientInput) Normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Notes = strings.TrimSpace(in.Notes)
	in.FollowUpDate = strings.TrimSpace(in.FollowUpDate)
	if in.Status == "" {
		in.Status = DefaultStatus
	}
}

// Validate checks the required fields, returning a *AppError suitable for
// the API error contract.
func (in *ClientInput) Validate(v *validator.Validate) error {
	if err := v.Struct(in); err != nil {
		return ValidationError("name and email are required")
	}
	return nil
}

// followUpArg returns the bound value for the follow_up_date column: NULL
// when the date is empty so that empty and absent dates are stored alike.
func (in *ClientInput) followUpArg() any {
	if in.FollowUpDate == "" {
		return nil
	}
	return in.FollowUpDate
}

// PatchField is one optionally-present field of a partial update. Set
// distinguishes "absent from the payload" from "explicitly set", and Valid
// distinguishes a real value from an explicit null.
type PatchField struct {
	Set   bool
	Valid bool
	Value string
}

func (f PatchField) arg() any {
	if !f.Valid || f.Value == "" {
		return nil
	}
	return f.Value
}

// ClientPatch selects the mutable columns touched by a partial update.
type ClientPatch struct {
	Name         PatchField
	Email        PatchField
	Phone        PatchField
	Status       PatchField
	FollowUpDate PatchField
	Notes        PatchField
}

// patchColumns pins the column order of generated UPDATE statements.
var patchColumns = []string{"name", "email", "phone", "status", "follow_up_date", "notes"}

func (p *ClientPatch) field(column string) *PatchField {
	switch column {
	case "name":
		return &p.Name
	case "email":
		return &p.Email
	case "phone":
		return &p.Phone
	case "status":
		return &p.Status
	case "follow_up_date":
		return &p.FollowUpDate
	case "notes":
		return &p.Notes
	}
	return nil
}

// Empty reports whether the patch selects zero fields.
func (p *ClientPatch) Empty() bool {
	for _, col := range patchColumns {
		if p.field(col).Set {
			return false
		}
	}
	return true
}

// Assignments returns the selected columns and their bound values in
// declaration order. Null and empty optional values bind as SQL NULL;
// name, email and status always bind as text.
func (p *ClientPatch) Assignments() ([]string, []any) {
	var cols []string
	var args []any
	for _, col := range patchColumns {
		f := p.field(col)
		if !f.Set {
			continue
		}
		cols = append(cols, col)
		switch col {
		case "name", "email", "status":
			args = append(args, f.Value)
		default:
			args = append(args, f.arg())
		}
	}
	return cols, args
}

// PatchFromMap builds a ClientPatch from a decoded JSON object, keeping
// only the six mutable fields and ignoring unknown keys. Non-string values
// are stringified; JSON null marks the field as explicitly cleared.
func PatchFromMap(raw map[string]any) ClientPatch {
	var p ClientPatch
	for _, col := range patchColumns {
		v, ok := raw[col]
		if !ok {
			continue
		}
		f := p.field(col)
		f.Set = true
		if v == nil {
			continue
		}
		f.Valid = true
		switch val := v.(type) {
		case string:
			f.Value = val
		default:
			f.Value = fmt.Sprint(val)
		}
	}
	return p
}
