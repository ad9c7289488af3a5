package reading

import (
	"regexp"
	"strconv"
	"time"
)

// Encoding names one of the recognized timestamp encodings.
type Encoding int

const (
	EncodingUnknown Encoding = iota
	// EncodingEpochSeconds is 9 or more decimal digits interpreted as
	// whole seconds since the Unix epoch.
	EncodingEpochSeconds
	// EncodingStructuredLiteral is D-M-YYYY-H-m-s with 1-2 digit
	// components (no leading zeros required) and a 4-digit year,
	// interpreted in the local timezone.
	EncodingStructuredLiteral
)

func (e Encoding) String() string {
	switch e {
	case EncodingEpochSeconds:
		return "epoch-seconds"
	case EncodingStructuredLiteral:
		return "structured-literal"
	}
	return "unknown"
}

var (
	epochSecondsRe      = regexp.MustCompile(`^\d{9,}$`)
	structuredLiteralRe = regexp.MustCompile(`^(\d{1,2})-(\d{1,2})-(\d{4})-(\d{1,2})-(\d{1,2})-(\d{1,2})$`)
)

// DetectEncoding reports which encoding a raw candidate matches, without
// validating the resulting date.
func DetectEncoding(raw string) Encoding {
	switch {
	case epochSecondsRe.MatchString(raw):
		return EncodingEpochSeconds
	case structuredLiteralRe.MatchString(raw):
		return EncodingStructuredLiteral
	}
	return EncodingUnknown
}

// Normalize converts a raw candidate into an absolute timestamp. The two
// encodings are tried in order; a match that produces an impossible date
// (day 32, month 13, hour 25) is rejected rather than rolled over.
func Normalize(raw string) (time.Time, Encoding, bool) {
	if raw == "" {
		return time.Time{}, EncodingUnknown, false
	}

	if epochSecondsRe.MatchString(raw) {
		secs, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return time.Time{}, EncodingEpochSeconds, false
		}
		return time.Unix(secs, 0), EncodingEpochSeconds, true
	}

	if m := structuredLiteralRe.FindStringSubmatch(raw); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		hour, _ := strconv.Atoi(m[4])
		minute, _ := strconv.Atoi(m[5])
		second, _ := strconv.Atoi(m[6])

		t := time.Date(year, time.Month(month), day, hour, minute, second, 0, time.Local)

		// time.Date normalizes overflow (Feb 30 becomes Mar 1/2), so
		// round-trip the components to catch impossible dates.
		if t.Year() != year || int(t.Month()) != month || t.Day() != day ||
			t.Hour() != hour || t.Minute() != minute || t.Second() != second {
			return time.Time{}, EncodingStructuredLiteral, false
		}
		return t, EncodingStructuredLiteral, true
	}

	return time.Time{}, EncodingUnknown, false
}
