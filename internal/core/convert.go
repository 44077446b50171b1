package core

// convert.go normalizes the heterogeneous truthy/falsy tokens found in the
// indicator columns ("Solved by CHERI?", "Solved by Rust?", ...).
//
// The vocabulary is deliberately small: true/yes/1 and false/no/0, compared
// case- and whitespace-insensitively. ParseBool keeps the tri-state (Valid is
// false for anything else); ToBool collapses it so unrecognized or missing
// values always count as "no".

import (
	"strings"

	"github.com/jackc/pgx/v5/pgtype"
)

var boolTokens = map[string]bool{
	"true":  true,
	"yes":   true,
	"1":     true,
	"false": false,
	"no":    false,
	"0":     false,
}

// ParseBool converts a cell to pgtype.Bool.
// Returns Valid=false if the token is missing or outside the vocabulary.
func ParseBool(s string) pgtype.Bool {
	v, ok := boolTokens[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return pgtype.Bool{Valid: false}
	}
	return pgtype.Bool{Bool: v, Valid: true}
}

// ToBool converts a cell to a strict boolean. Unrecognized input is false.
func ToBool(s string) bool {
	b := ParseBool(s)
	return b.Valid && b.Bool
}

// ToBools normalizes a sequence of cells, preserving length and order.
func ToBools(values []string) []bool {
	out := make([]bool, len(values))
	for i, v := range values {
		out[i] = ToBool(v)
	}
	return out
}

// IsBoolColumn reports whether a column's content looks boolean: at least one
// non-missing value is a recognized token. An all-missing column is not
// boolean-like.
func IsBoolColumn(values []string) bool {
	for _, v := range values {
		if IsMissing(v) {
			continue
		}
		if ParseBool(v).Valid {
			return true
		}
	}
	return false
}

// BoolColumns returns the boolean-like columns of d in column order.
func (d *Dataset) BoolColumns() []string {
	var cols []string
	for _, c := range d.columns {
		if IsBoolColumn(d.column(c)) {
			cols = append(cols, c)
		}
	}
	return cols
}

// CountBools returns the yes/no breakdown of values. Yes+No always equals
// len(values).
func CountBools(column string, values []string) BoolCount {
	bc := BoolCount{Column: column}
	for _, b := range ToBools(values) {
		if b {
			bc.Yes++
		} else {
			bc.No++
		}
	}
	return bc
}
