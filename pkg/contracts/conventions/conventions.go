// Package conventions holds the market-wide rules every loader agrees on:
// ticker normalization, exchange and board classification, price-limit
// percentages, and the canonical date formats. All functions are pure.
package conventions

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"
)

// Canonical date layouts. DateFormats is the ordered candidate list used for
// auto-detection; the first layout that parses wins, so detection is
// deterministic.
const (
	DateFormat        = "2006-01-02"
	DateFormatCompact = "20060102"
	DateFormatSlash   = "2006/01/02"
	DateTimeFormat    = "2006-01-02 15:04:05"
)

var DateFormats = []string{DateFormat, DateFormatCompact, DateFormatSlash}

// TickerLength is the digit count of a normalized instrument code.
const TickerLength = 6

// DefaultLimitTolerance is the absolute tolerance applied when comparing a
// close against a limit price. It absorbs floating rounding, not genuine
// near-misses, and can be overridden through configuration.
const DefaultLimitTolerance = 0.001

// Exchange identifies the venue an instrument trades on.
type Exchange string

const (
	ExchangeSH      Exchange = "SH"
	ExchangeSZ      Exchange = "SZ"
	ExchangeBJ      Exchange = "BJ"
	ExchangeUnknown Exchange = "UNKNOWN"
)

// Board identifies the listing board, which determines the daily price-limit
// percentage.
type Board string

const (
	BoardMainSH  Board = "main_sh"
	BoardMainSZ  Board = "main_sz"
	BoardChiNext Board = "chinext"
	BoardSTAR    Board = "star"
	BoardBeijing Board = "beijing"
	BoardUnknown Board = "unknown"
)

// Daily price-limit percentages by board and special-treatment status.
const (
	LimitPctDefault = 10.0
	LimitPctST      = 5.0
	LimitPctGrowth  = 20.0 // ChiNext and STAR
	LimitPctBeijing = 30.0
)

// Exchange classification prefixes (two leading digits of the 6-digit code).
var (
	shTickerPrefixes = []string{"60", "68", "50", "51", "52", "53", "54", "55", "56", "57", "58", "59"}
	szTickerPrefixes = []string{"00", "30", "12", "15", "16", "17", "18", "19"}
	bjTickerPrefixes = []string{"43", "83", "87", "88", "92"}
)

// Board classification prefixes of listed equities. These are narrower than
// the exchange prefixes above: funds and bonds classify to an exchange but
// not to an equity board.
var (
	mainSHPrefixes  = []string{"600", "601", "603", "605"}
	mainSZPrefixes  = []string{"000", "001", "002", "003"}
	chiNextPrefixes = []string{"300", "301", "302"}
	starPrefixes    = []string{"688", "689"}
	beijingPrefixes = []string{"4", "8", "920"}
)

// TickerPattern matches a fully normalized instrument identifier.
var TickerPattern = regexp.MustCompile(`^\d{6}\.(SH|SZ|BJ)$`)

// IdentifierError reports a raw code whose numeric prefix matches no exchange
// rule. It is a validation failure: UNKNOWN classifications are permitted as
// an intermediate signal but never committed to the store.
type IdentifierError struct {
	Ticker string
}

func (e *IdentifierError) Error() string {
	return fmt.Sprintf("ticker %q matches no exchange prefix rule", e.Ticker)
}

// DateParseError reports a date string that matched none of the candidate
// layouts.
type DateParseError struct {
	Value string
}

func (e *DateParseError) Error() string {
	return fmt.Sprintf("cannot parse date %q with any of %v", e.Value, DateFormats)
}

// FormatTicker left-pads a raw code with zeros to the standard 6 digits.
// An existing exchange suffix is left untouched.
func FormatTicker(raw string) string {
	t := strings.TrimSpace(raw)
	if strings.ContainsRune(t, '.') {
		return t
	}
	for len(t) < TickerLength {
		t = "0" + t
	}
	return t
}

// ClassifyExchange returns the venue for a 6-digit code based on its two
// leading digits. Codes outside every documented prefix set classify as
// ExchangeUnknown; callers loading into the store must treat that as a
// validation failure.
func ClassifyExchange(ticker string) Exchange {
	code := strings.SplitN(FormatTicker(ticker), ".", 2)[0]
	switch {
	case hasAnyPrefix(code, shTickerPrefixes):
		return ExchangeSH
	case hasAnyPrefix(code, szTickerPrefixes):
		return ExchangeSZ
	case hasAnyPrefix(code, bjTickerPrefixes):
		return ExchangeBJ
	}
	return ExchangeUnknown
}

// ClassifyBoard returns the listing board for a code (suffix tolerated).
func ClassifyBoard(ticker string) Board {
	code := strings.SplitN(FormatTicker(ticker), ".", 2)[0]
	switch {
	case hasAnyPrefix(code, mainSHPrefixes):
		return BoardMainSH
	case hasAnyPrefix(code, mainSZPrefixes):
		return BoardMainSZ
	case hasAnyPrefix(code, chiNextPrefixes):
		return BoardChiNext
	case hasAnyPrefix(code, starPrefixes):
		return BoardSTAR
	case hasAnyPrefix(code, beijingPrefixes):
		return BoardBeijing
	}
	return BoardUnknown
}

// NormalizeTicker produces the canonical suffixed identifier for a raw code.
// A code already carrying a .SH/.SZ/.BJ suffix is kept as-is (uppercased).
// A code whose board prefix matches no rule yields an IdentifierError rather
// than a silent UNKNOWN tag.
func NormalizeTicker(raw string) (string, error) {
	t := strings.ToUpper(strings.TrimSpace(raw))
	if TickerPattern.MatchString(t) {
		return t, nil
	}

	code := FormatTicker(t)
	switch ClassifyBoard(code) {
	case BoardMainSH, BoardSTAR:
		return code + ".SH", nil
	case BoardMainSZ, BoardChiNext:
		return code + ".SZ", nil
	case BoardBeijing:
		return code + ".BJ", nil
	}
	return "", &IdentifierError{Ticker: raw}
}

// LimitPercent returns the daily price-limit percentage for a board.
// Board takes precedence: the special-treatment reduction to 5% applies only
// on the two main boards, never on the higher-volatility boards.
func LimitPercent(board Board, isST bool) float64 {
	switch board {
	case BoardChiNext, BoardSTAR:
		return LimitPctGrowth
	case BoardBeijing:
		return LimitPctBeijing
	case BoardMainSH, BoardMainSZ:
		if isST {
			return LimitPctST
		}
	}
	return LimitPctDefault
}

// LimitPrices computes the limit-up and limit-down boundary prices from the
// previous close, rounded to 2 decimal places per exchange convention.
func LimitPrices(preClose, limitPct float64) (up, down float64) {
	up = Round2(preClose * (1 + limitPct/100))
	down = Round2(preClose * (1 - limitPct/100))
	return up, down
}

// Round2 rounds half away from zero to 2 decimal places.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// IsSpecialTreatment reports whether an instrument name carries the ST
// designation, matched case-insensitively anywhere in the name.
func IsSpecialTreatment(name string) bool {
	return strings.Contains(strings.ToUpper(name), "ST")
}

// ParseDate parses a raw date string. With fromFormat empty, the candidate
// layouts are tried in their documented order and the first success wins.
func ParseDate(raw string, fromFormat string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if fromFormat != "" {
		t, err := time.Parse(fromFormat, s)
		if err != nil {
			return time.Time{}, &DateParseError{Value: raw}
		}
		return t, nil
	}
	for _, layout := range DateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, &DateParseError{Value: raw}
}

// FormatDate re-renders a raw date string in the canonical YYYY-MM-DD layout,
// auto-detecting the input layout when fromFormat is empty.
func FormatDate(raw string, fromFormat string) (string, error) {
	t, err := ParseDate(raw, fromFormat)
	if err != nil {
		return "", err
	}
	return t.Format(DateFormat), nil
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
