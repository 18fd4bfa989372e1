// Package inputgate validates and sanitizes record fields before they
// reach the transport. It is pure: no network, no storage, no logging.
package inputgate

import (
	"fmt"
	"regexp"
)

// FormKind discriminates the submission forms the site exposes.
type FormKind string

const (
	KindEndorsement FormKind = "endorsement"
	KindJoin        FormKind = "join"
	KindIdeas       FormKind = "ideas"
)

// Result carries field-level errors plus the sanitized record. Sanitized
// is always populated, even when validation fails: raw input is never
// forwarded anywhere.
type Result struct {
	Errors    []string
	Sanitized map[string]string
}

// Valid reports whether the record passed every rule.
func (r Result) Valid() bool {
	return len(r.Errors) == 0
}

const (
	minNameLen  = 2
	minIdeaLen  = 10
	maxTextLen  = 1000
	maxFieldLen = 200
)

var (
	zipPattern   = regexp.MustCompile(`^\d{5}(-\d{4})?$`)
	emailPattern = regexp.MustCompile(`^[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}$`)
)

// Validate sanitizes every field of record and checks the rules for the
// given form kind.
func Validate(record map[string]string, kind FormKind) Result {
	sanitized := make(map[string]string, len(record))
	for field, value := range record {
		sanitized[field] = sanitizeField(field, value)
	}

	var errs []string
	addErr := func(format string, args ...any) {
		errs = append(errs, fmt.Sprintf(format, args...))
	}

	name := sanitized["name"]
	switch {
	case name == "":
		addErr("name is required")
	case len(name) < minNameLen:
		addErr("name must be at least %d characters", minNameLen)
	}

	if sanitized["city"] == "" {
		addErr("city is required")
	}

	if zip := sanitized["zipCode"]; zip == "" {
		addErr("zip code is required")
	} else if !zipPattern.MatchString(zip) {
		addErr("zip code must match 12345 or 12345-6789")
	}

	if email := sanitized["email"]; email != "" && !emailPattern.MatchString(email) {
		addErr("email address is not valid")
	}

	switch kind {
	case KindJoin:
		if sanitized["email"] == "" {
			addErr("email is required to join")
		}
	case KindIdeas:
		if len(sanitized["idea"]) < minIdeaLen {
			addErr("idea must be at least %d characters", minIdeaLen)
		}
		if sanitized["category"] == "" {
			addErr("category is required")
		}
	}

	return Result{Errors: errs, Sanitized: sanitized}
}

// sanitizeField applies the sanitization class for a field name. Unknown
// fields get the free-text treatment, the strictest general-purpose class.
func sanitizeField(field, value string) string {
	switch field {
	case "name", "city":
		return sanitizeName(value)
	case "zipCode":
		return sanitizeZip(value)
	case "phone":
		return sanitizePhone(value)
	case "email":
		return sanitizeEmail(value)
	default:
		return sanitizeText(value)
	}
}
