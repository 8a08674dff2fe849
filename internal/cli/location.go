package cli

import (
	"fmt"
	"strconv"
	"strings"
)

// Location is a parsed goto target. Line and Column are 1-based; zero means
// the segment was absent.
type Location struct {
	Path   string
	Line   int
	Column int
}

var errLocationFormat = fmt.Errorf("arguments in --goto mode should be in the format of FILE(:LINE(:CHARACTER))")

// ParseLocation parses a positional of the shape [drive:]path[:line[:character]].
// A Windows drive prefix (single letter plus colon) is part of the path, not a
// line separator.
func ParseLocation(value string) (Location, error) {
	rest := value
	drive := ""
	if len(rest) >= 3 && isDriveLetter(rest[0]) && rest[1] == ':' && (rest[2] == '\\' || rest[2] == '/') {
		drive = rest[:2]
		rest = rest[2:]
	}

	segments := strings.Split(rest, ":")
	if segments[0] == "" && drive == "" {
		return Location{}, errLocationFormat
	}

	loc := Location{Path: drive + segments[0]}
	switch len(segments) {
	case 1:
	case 2:
		line, err := parsePosition(segments[1])
		if err != nil {
			return Location{}, err
		}
		loc.Line = line
	case 3:
		line, err := parsePosition(segments[1])
		if err != nil {
			return Location{}, err
		}
		column, err := parsePosition(segments[2])
		if err != nil {
			return Location{}, err
		}
		loc.Line = line
		loc.Column = column
	default:
		return Location{}, errLocationFormat
	}
	return loc, nil
}

func parsePosition(segment string) (int, error) {
	n, err := strconv.Atoi(segment)
	if err != nil || n < 1 {
		return 0, errLocationFormat
	}
	return n, nil
}

func isDriveLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
