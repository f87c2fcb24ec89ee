package query

import (
	"fmt"
	"strconv"
	"strings"
)

// ValueKind distinguishes the two typed-value shapes a comparison can
// carry after parsing: a string (tag/name/type) or an int64 (size in
// bytes, modified as a Unix timestamp).
type ValueKind int

const (
	ValueString ValueKind = iota
	ValueInt
)

// Value is a parsed, field-typed literal.
type Value struct {
	Kind ValueKind
	Str  string
	Int  int64
}

func stringValue(s string) Value { return Value{Kind: ValueString, Str: s} }
func intValue(n int64) Value     { return Value{Kind: ValueInt, Int: n} }

// sizeUnits maps a case-folded unit suffix to its byte multiplier.
var sizeUnits = map[string]float64{
	"B":  1,
	"KB": 1024,
	"MB": 1024 * 1024,
	"GB": 1024 * 1024 * 1024,
}

// parseSize converts a lexed number token (e.g. "10", "1.5MB", "2GB")
// into a byte count. A bare number with no suffix is already bytes.
func parseSize(raw string, pos int) (int64, error) {
	i := 0
	for i < len(raw) && (raw[i] == '.' || (raw[i] >= '0' && raw[i] <= '9')) {
		i++
	}
	numPart := raw[:i]
	unitPart := strings.ToUpper(raw[i:])

	n, err := strconv.ParseFloat(numPart, 64)
	if err != nil {
		return 0, &ParseError{Pos: pos, Msg: fmt.Sprintf("invalid size literal %q", raw)}
	}

	if unitPart == "" {
		return int64(n), nil
	}

	mult, ok := sizeUnits[unitPart]
	if !ok {
		return 0, &ParseError{Pos: pos, Msg: fmt.Sprintf("invalid size unit %q (expected B, KB, MB, or GB)", unitPart)}
	}
	return int64(n * mult), nil
}

// parseBareNumber converts a lexed number token with no unit suffix into
// an int64, used for the modified field's raw-timestamp form.
func parseBareNumber(raw string, pos int) (int64, error) {
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, &ParseError{Pos: pos, Msg: fmt.Sprintf("invalid number %q", raw)}
	}
	return n, nil
}

// daysFromCivil converts a (year, month, day) civil date to the number of
// days since 1970-01-01, using Howard Hinnant's days_from_civil algorithm.
// Works for the entire proleptic Gregorian calendar.
func daysFromCivil(y int64, m, d int) int64 {
	if m <= 2 {
		y--
	}
	era := y
	if y < 0 {
		era = y - 399
	}
	era /= 400
	yoe := y - era*400 // [0, 399]
	var mp int64
	if int64(m) > 2 {
		mp = int64(m) - 3
	} else {
		mp = int64(m) + 9
	}
	doy := (153*mp+2)/5 + int64(d) - 1 // [0, 365]
	doe := yoe*365 + yoe/4 - yoe/100 + doy // [0, 146096]
	return era*146097 + doe - 719468
}

// parseDate validates a "YYYY-MM-DD" string and converts it to a
// UTC-midnight Unix timestamp.
func parseDate(raw string, pos int) (int64, error) {
	parts := strings.Split(raw, "-")
	if len(parts) != 3 {
		return 0, &ParseError{Pos: pos, Msg: fmt.Sprintf("invalid date %q: expected YYYY-MM-DD", raw)}
	}
	year, err1 := strconv.ParseInt(parts[0], 10, 64)
	month, err2 := strconv.Atoi(parts[1])
	day, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return 0, &ParseError{Pos: pos, Msg: fmt.Sprintf("invalid date %q: expected YYYY-MM-DD", raw)}
	}
	if year < 1970 {
		return 0, &ParseError{Pos: pos, Msg: fmt.Sprintf("invalid date %q: year must be >= 1970", raw)}
	}
	if month < 1 || month > 12 {
		return 0, &ParseError{Pos: pos, Msg: fmt.Sprintf("invalid date %q: month must be 1-12", raw)}
	}
	if day < 1 || day > 31 {
		return 0, &ParseError{Pos: pos, Msg: fmt.Sprintf("invalid date %q: day must be 1-31", raw)}
	}
	days := daysFromCivil(year, month, day)
	return days * 86400, nil
}
