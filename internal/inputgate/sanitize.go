package inputgate

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Per-class character filters. Each class keeps a fixed allow-list and
// drops everything else.
var (
	nameAllowed  = regexp.MustCompile(`[^A-Za-z '\-]`)
	zipAllowed   = regexp.MustCompile(`[^0-9\-]`)
	phoneAllowed = regexp.MustCompile(`[^0-9+\-() ]`)
	emailAllowed = regexp.MustCompile(`[^A-Za-z0-9._%+\-@]`)

	// Injection patterns stripped from free text before anything else.
	scriptTags    = regexp.MustCompile(`(?is)<script.*?>.*?</script\s*>`)
	iframeTags    = regexp.MustCompile(`(?is)<iframe.*?>.*?</iframe\s*>`)
	htmlTags      = regexp.MustCompile(`(?s)<[^>]*>`)
	javascriptURI = regexp.MustCompile(`(?i)javascript\s*:`)
	eventHandlers = regexp.MustCompile(`(?i)\bon\w+\s*=`)
	controlChars  = regexp.MustCompile(`[\x00-\x1f\x7f]`)
)

func sanitizeName(value string) string {
	out := nameAllowed.ReplaceAllString(value, "")
	return clamp(strings.TrimSpace(out), maxFieldLen)
}

func sanitizeZip(value string) string {
	return clamp(zipAllowed.ReplaceAllString(strings.TrimSpace(value), ""), maxFieldLen)
}

func sanitizePhone(value string) string {
	out := phoneAllowed.ReplaceAllString(value, "")
	return clamp(strings.TrimSpace(out), maxFieldLen)
}

func sanitizeEmail(value string) string {
	return clamp(emailAllowed.ReplaceAllString(strings.TrimSpace(value), ""), maxFieldLen)
}

// sanitizeText strips markup and script vectors from free text and bounds
// its length. Order matters: tags first, then URI and handler patterns
// that may have been exposed by tag removal.
func sanitizeText(value string) string {
	out := scriptTags.ReplaceAllString(value, "")
	out = iframeTags.ReplaceAllString(out, "")
	out = htmlTags.ReplaceAllString(out, "")
	out = javascriptURI.ReplaceAllString(out, "")
	out = eventHandlers.ReplaceAllString(out, "")
	out = controlChars.ReplaceAllString(out, "")
	return clamp(strings.TrimSpace(out), maxTextLen)
}

// clamp bounds value to max bytes without splitting a multi-byte
// character at the cut.
func clamp(value string, max int) string {
	if len(value) <= max {
		return value
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(value[cut]) {
		cut--
	}
	return value[:cut]
}
