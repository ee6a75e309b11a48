// Package fixedpoint converts between textual decimal amounts and an exact
// integer representation scaled by 10,000 (4 fractional digits). All monetary
// arithmetic in the ledger happens on these scaled integers, so no value ever
// passes through a float.
package fixedpoint

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Magnitude is the scaling factor: one currency unit equals 10,000 ticks.
const Magnitude int64 = 10_000

// Precision is the number of fractional digits the textual form may carry.
const Precision = 4

// ─── Sentinel Errors ────────────────────────────────────────────────────────

var (
	ErrMalformed = errors.New("malformed amount")
	ErrNegative  = errors.New("negative amount")
	ErrPrecision = errors.New("amount exceeds 4 fractional digits")
)

// ─── Parse ──────────────────────────────────────────────────────────────────

// Parse converts a decimal string like "1.5" or "0.0001" into scaled ticks.
// The text must contain exactly one dot, a non-negative integer part, and at
// most Precision fractional digits. Shorter fractions are right-padded, so
// "1.1" and "1.1000" parse to the same value. Every failure is an ordinary
// error; callers treat it as a row-level problem, never a fatal one.
func Parse(text string) (int64, error) {
	parts := strings.Split(text, ".")
	if len(parts) != 2 {
		return 0, fmt.Errorf("%w: %q must contain exactly one decimal point", ErrMalformed, text)
	}

	units, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: integer part of %q: %v", ErrMalformed, text, err)
	}
	if units < 0 {
		return 0, fmt.Errorf("%w: %q", ErrNegative, text)
	}

	digits := len(parts[1])
	if digits > Precision {
		return 0, fmt.Errorf("%w: %q", ErrPrecision, text)
	}

	frac, err := strconv.ParseUint(parts[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: fractional part of %q: %v", ErrMalformed, text, err)
	}

	// Right-pad the fraction: "1.1" carries one digit, worth 1000 ticks.
	for i := 0; i < Precision-digits; i++ {
		frac *= 10
	}

	return units*Magnitude + int64(frac), nil
}

// ─── Format ─────────────────────────────────────────────────────────────────

// Format renders scaled ticks as "{units}.{frac:04d}". The sign is attached
// once, to the units component: -5000 renders as "-0.5000", where truncating
// division alone would lose the minus on a zero units part.
func Format(v int64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%04d", sign, v/Magnitude, v%Magnitude)
}
