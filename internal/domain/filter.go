package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Field names a card attribute a Predicate can test.
type Field string

// Filterable fields.
const (
	FieldLabel    Field = "label"
	FieldToReview Field = "spacedRepetition.toReview"
)

// Op is a predicate comparison operator.
type Op string

// Supported operators.
const (
	OpEq Op = "=="
	OpNe Op = "!="
)

// Predicate is a single field comparison. A card set filter is the
// conjunction of its predicates.
type Predicate struct {
	Field Field  `json:"field"`
	Op    Op     `json:"op"`
	Value string `json:"value"`
}

// DueOnly selects cards the sweep has flagged for review.
func DueOnly() Predicate {
	return Predicate{Field: FieldToReview, Op: OpEq, Value: "true"}
}

// LabelIs selects cards carrying label.
func LabelIs(label string) Predicate {
	return Predicate{Field: FieldLabel, Op: OpEq, Value: label}
}

// LabelIsNot selects cards whose label differs from label, including unlabeled cards.
func LabelIsNot(label string) Predicate {
	return Predicate{Field: FieldLabel, Op: OpNe, Value: label}
}

// Validate checks the field and operator, and that a toReview target is a boolean.
func (p Predicate) Validate() error {
	switch p.Op {
	case OpEq, OpNe:
	default:
		return fmt.Errorf("%w: unknown operator %q", ErrValidation, p.Op)
	}

	switch p.Field {
	case FieldLabel:
		return nil
	case FieldToReview:
		if _, err := strconv.ParseBool(p.Value); err != nil {
			return fmt.Errorf("%w: %s expects true or false, got %q", ErrValidation, p.Field, p.Value)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown filter field %q", ErrValidation, p.Field)
	}
}

// Match reports whether c satisfies the predicate.
// An absent label never equals a value and is therefore unequal to every value.
func (p Predicate) Match(c *Card) bool {
	var equal bool
	switch p.Field {
	case FieldLabel:
		label, ok := c.LabelValue()
		equal = ok && label == p.Value
	case FieldToReview:
		want, err := strconv.ParseBool(p.Value)
		if err != nil {
			return false
		}
		equal = c.SpacedRepetition.ToReview == want
	default:
		return false
	}

	if p.Op == OpNe {
		return !equal
	}
	return equal
}

// String renders the predicate in the same syntax ParseFilterArgs accepts.
func (p Predicate) String() string {
	if p == DueOnly() {
		return "due-only"
	}
	if p.Field == FieldLabel {
		if p.Op == OpNe {
			return "label!=" + p.Value
		}
		return "label=" + p.Value
	}
	return string(p.Field) + string(p.Op) + p.Value
}

// MatchAll reports whether c satisfies every predicate. An empty list matches everything.
func MatchAll(c *Card, preds []Predicate) bool {
	for _, p := range preds {
		if !p.Match(c) {
			return false
		}
	}
	return true
}

// ParseFilterArgs converts command filter arguments into predicates.
// Accepted forms are "due-only", "label=X" and "label!=X".
func ParseFilterArgs(args []string) ([]Predicate, error) {
	preds := make([]Predicate, 0, len(args))
	for _, raw := range args {
		arg := strings.TrimSpace(raw)
		switch {
		case arg == "":
			continue
		case arg == "due-only":
			preds = append(preds, DueOnly())
		case strings.HasPrefix(arg, "label!="):
			v := strings.TrimPrefix(arg, "label!=")
			if v == "" {
				return nil, fmt.Errorf("%w: empty label in filter %q", ErrValidation, raw)
			}
			preds = append(preds, LabelIsNot(v))
		case strings.HasPrefix(arg, "label="):
			v := strings.TrimPrefix(arg, "label=")
			if v == "" {
				return nil, fmt.Errorf("%w: empty label in filter %q", ErrValidation, raw)
			}
			preds = append(preds, LabelIs(v))
		default:
			return nil, fmt.Errorf("%w: unknown filter %q", ErrValidation, raw)
		}
	}
	return preds, nil
}
