package domain

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

var positionToken = regexp.MustCompile(`^[0-9,\-]+$`)

// ParsePositions parses a position list such as "4,15,20,6-13" against a
// display of size cards. Tokens are comma separated and each is either a
// positive integer or an inclusive start-end range. The result is sorted and
// free of duplicates. Any malformed token or out-of-range value rejects the
// whole input with an error wrapping ErrValidation.
func ParsePositions(input string, size int) ([]int, error) {
	if strings.TrimSpace(input) == "" {
		return nil, fmt.Errorf("%w: no positions given", ErrValidation)
	}

	seen := make(map[int]struct{})
	for _, raw := range strings.Split(input, ",") {
		tok := strings.TrimSpace(raw)
		if tok == "" {
			return nil, fmt.Errorf("%w: empty position in %q", ErrValidation, input)
		}

		start, end, err := parseToken(tok)
		if err != nil {
			return nil, err
		}
		if start < 1 || end > size {
			return nil, fmt.Errorf("%w: position %s out of range 1-%d", ErrValidation, tok, size)
		}
		for p := start; p <= end; p++ {
			seen[p] = struct{}{}
		}
	}

	positions := make([]int, 0, len(seen))
	for p := range seen {
		positions = append(positions, p)
	}
	slices.Sort(positions)
	return positions, nil
}

func parseToken(tok string) (int, int, error) {
	lo, hi, isRange := strings.Cut(tok, "-")
	if !isRange {
		n, err := parsePositive(tok)
		return n, n, err
	}

	start, err := parsePositive(strings.TrimSpace(lo))
	if err != nil {
		return 0, 0, err
	}
	end, err := parsePositive(strings.TrimSpace(hi))
	if err != nil {
		return 0, 0, err
	}
	if start > end {
		return 0, 0, fmt.Errorf("%w: range %q is reversed", ErrValidation, tok)
	}
	return start, end, nil
}

func parsePositive(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: %q is not a positive integer", ErrValidation, s)
	}
	return n, nil
}

// ParseLabelInput splits label command input such as "animals 4, 15, 20, 6-13"
// into the label text and the parsed positions. The trailing whitespace
// separated tokens made only of digits, commas and dashes form the position
// list; everything before them is the label.
func ParseLabelInput(input string, size int) (string, []int, error) {
	fields := strings.Fields(input)

	split := len(fields)
	for split > 0 && positionToken.MatchString(fields[split-1]) {
		split--
	}

	label := strings.Join(fields[:split], " ")
	if label == "" {
		return "", nil, fmt.Errorf("%w: label text is required before the positions", ErrValidation)
	}
	if split == len(fields) {
		return "", nil, fmt.Errorf("%w: no positions given for label %q", ErrValidation, label)
	}

	positions, err := ParsePositions(strings.Join(fields[split:], " "), size)
	if err != nil {
		return "", nil, err
	}
	return label, positions, nil
}
