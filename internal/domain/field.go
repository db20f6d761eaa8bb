package domain

import (
	"math"
	"strconv"
	"strings"
)

// Number is the outcome of parsing a numeric cell. OK is false when the cell
// is blank or does not hold a finite number; Value is then zero.
type Number struct {
	Value float64
	OK    bool
}

// ParseNumber parses a sheet cell as a decimal number.
func ParseNumber(s string) Number {
	s = strings.TrimSpace(s)
	if s == "" {
		return Number{}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return Number{}
	}
	return Number{Value: v, OK: true}
}

// valueRange is the observed [min, max] of a set of numbers. ok is false for
// an empty set.
type valueRange struct {
	min, max float64
	ok       bool
}

func (r valueRange) include(v float64) valueRange {
	if !r.ok {
		return valueRange{min: v, max: v, ok: true}
	}
	r.min = math.Min(r.min, v)
	r.max = math.Max(r.max, v)
	return r
}

// quantityRange scans every row's quantity cell. Rows with an unusable
// position are included.
func quantityRange(rows []Row) valueRange {
	var r valueRange
	for _, row := range rows {
		if n := ParseNumber(row.Get(ColumnSize)); n.OK {
			r = r.include(n.Value)
		}
	}
	return r
}
