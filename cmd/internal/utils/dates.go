package utils

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/width"
)

var (
	ErrInvalidDateFormat = errors.New("invalid date format, expected YYYY-MM-DD")
	ErrInvalidTimeFormat = errors.New("invalid time format, expected HH:MM")
)

var (
	datePrefix  = regexp.MustCompile(`^([0-9]{4}-[0-9]{2}-[0-9]{2})(?:$|[^0-9])`)
	clockFormat = regexp.MustCompile(`^([0-9]{1,2}):([0-9]{2})(?::([0-9]{2}))?$`)
)

// Zero glyph of every decimal digit script we accept besides ASCII.
// Each script encodes 0-9 as ten consecutive code points.
var digitZeros = []rune{
	'٠', // Arabic-Indic
	'۰', // Extended Arabic-Indic (Persian, Urdu)
	'०', // Devanagari
	'০', // Bengali
	'๐', // Thai
}

func toASCIIDigit(r rune) rune {
	for _, zero := range digitZeros {
		if r >= zero && r <= zero+9 {
			return '0' + (r - zero)
		}
	}
	return r
}

// NormalizeDigits rewrites locale digit glyphs (and full-width forms) to ASCII.
func NormalizeDigits(s string) string {
	t := transform.Chain(width.Fold, runes.Map(toASCIIDigit))
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// NormalizeDate turns a caller supplied date into its canonical YYYY-MM-DD form
// and the day of the week it falls on. Only the leading YYYY-MM-DD is read, so
// "2025-06-02T10:00:00Z" resolves to 2025-06-02 without any timezone shift.
func NormalizeDate(raw string) (string, time.Weekday, error) {
	s := strings.TrimSpace(NormalizeDigits(raw))
	m := datePrefix.FindStringSubmatch(s)
	if m == nil {
		return "", 0, ErrInvalidDateFormat
	}

	d, err := time.Parse(time.DateOnly, m[1])
	if err != nil {
		return "", 0, ErrInvalidDateFormat
	}
	return d.Format(time.DateOnly), d.Weekday(), nil
}

// NormalizeTime reduces "9:30", "09:30" or "09:30:00" to "09:30".
func NormalizeTime(raw string) (string, error) {
	s := strings.TrimSpace(NormalizeDigits(raw))
	m := clockFormat.FindStringSubmatch(s)
	if m == nil {
		return "", ErrInvalidTimeFormat
	}

	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	if hour > 23 || minute > 59 {
		return "", ErrInvalidTimeFormat
	}
	if m[3] != "" {
		if sec, _ := strconv.Atoi(m[3]); sec > 59 {
			return "", ErrInvalidTimeFormat
		}
	}
	return fmt.Sprintf("%02d:%02d", hour, minute), nil
}
