package dice

import (
	"fmt"
	"strconv"
	"strings"
)

// Expression is a parsed dice expression.
//
// A flat expression such as "5" has Count == 0 and rolls no dice.
type Expression struct {
	Raw      string
	Count    int
	Sides    int
	Modifier int
}

// IsFlat reports whether the expression is a constant.
func (e Expression) IsFlat() bool {
	return e.Count == 0
}

// Min returns the smallest total the expression can produce.
func (e Expression) Min() int {
	return e.Count + e.Modifier
}

// Max returns the largest total the expression can produce.
func (e Expression) Max() int {
	return e.Count*e.Sides + e.Modifier
}

// Parse parses a dice expression.
// Supported forms: "5", "-1", "d6", "2d6", "1d2-1", "3d4+2".
//
// Postcondition: on success either Count == 0 or (Count >= 1 and Sides >= 2).
func Parse(expr string) (Expression, error) {
	raw := strings.TrimSpace(expr)
	if raw == "" {
		return Expression{}, fmt.Errorf("dice: empty expression")
	}
	s := strings.ToLower(raw)

	dIdx := strings.Index(s, "d")
	if dIdx < 0 {
		flat, err := strconv.Atoi(s)
		if err != nil {
			return Expression{}, fmt.Errorf("dice: invalid constant %q: %w", raw, err)
		}
		return Expression{Raw: raw, Modifier: flat}, nil
	}

	count := 1
	if countStr := s[:dIdx]; countStr != "" {
		var err error
		count, err = strconv.Atoi(countStr)
		if err != nil {
			return Expression{}, fmt.Errorf("dice: invalid die count in %q: %w", raw, err)
		}
		if count <= 0 {
			return Expression{}, fmt.Errorf("dice: invalid die count in %q: must be >= 1", raw)
		}
	}

	rest := s[dIdx+1:]
	sidesStr, modStr := rest, ""
	if i := strings.IndexAny(rest, "+-"); i > 0 {
		sidesStr, modStr = rest[:i], rest[i:]
	}

	sides, err := strconv.Atoi(sidesStr)
	if err != nil {
		return Expression{}, fmt.Errorf("dice: invalid die sides in %q: %w", raw, err)
	}
	if sides < 2 {
		return Expression{}, fmt.Errorf("dice: invalid die sides in %q: must be >= 2", raw)
	}

	modifier := 0
	if modStr != "" {
		modifier, err = strconv.Atoi(modStr)
		if err != nil {
			return Expression{}, fmt.Errorf("dice: invalid modifier in %q: %w", raw, err)
		}
	}

	return Expression{Raw: raw, Count: count, Sides: sides, Modifier: modifier}, nil
}

// MustParse parses expr and panics on error. Used for the built-in tables.
func MustParse(expr string) Expression {
	e, err := Parse(expr)
	if err != nil {
		panic("dice: MustParse failed for expression " + expr + ": " + err.Error())
	}
	return e
}
