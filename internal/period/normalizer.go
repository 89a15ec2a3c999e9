package period

import (
	"time"

	"aptfee/internal/dateutils"
)

// Kind tags how a payment's period was obtained.
type Kind uint8

const (
	// Unknown means neither an explicit period nor a usable payment date exists.
	Unknown Kind = iota
	// Explicit means the payment carried its own period field.
	Explicit
	// Derived means the period was truncated from the legacy payment date.
	Derived
)

func (k Kind) String() string {
	switch k {
	case Explicit:
		return "explicit"
	case Derived:
		return "derived"
	default:
		return "unknown"
	}
}

// Attribution is the period a payment is attributed to, tagged with its
// source. Matching only ever happens on a known attribution.
type Attribution struct {
	Kind  Kind
	Month Month
}

// Known reports whether the attribution carries a month.
func (a Attribution) Known() bool {
	return a.Kind != Unknown
}

// In reports whether the attribution is known and equals m.
func (a Attribution) In(m Month) bool {
	return a.Known() && a.Month == m
}

// Reference is the pair of months a resolution request works against. It is
// computed once per request from the injected instant.
type Reference struct {
	At      time.Time
	Current Month
	Last    Month
}

// Normalizer truncates instants to months in a single fixed location so
// that "this month" never depends on the host's local time zone.
type Normalizer struct {
	loc *time.Location
}

// NewNormalizer creates a Normalizer for loc. A nil location means UTC.
func NewNormalizer(loc *time.Location) *Normalizer {
	if loc == nil {
		loc = time.UTC
	}
	return &Normalizer{loc: loc}
}

// Location returns the fixed location used for truncation.
func (n *Normalizer) Location() *time.Location {
	return n.loc
}

// MonthOf truncates t to its month in the normalizer's location.
// The zero time yields the zero Month.
func (n *Normalizer) MonthOf(t time.Time) Month {
	if t.IsZero() {
		return Month{}
	}
	lt := t.In(n.loc)
	return Month{Year: lt.Year(), Month: lt.Month()}
}

// Parse parses a date-like string in the normalizer's location. Zone-less
// inputs are read as wall-clock dates in that location. Empty or malformed
// input returns false instead of an error.
func (n *Normalizer) Parse(s string) (time.Time, bool) {
	t, err := dateutils.ParseDateInLocation(s, n.loc)
	if err != nil || t.IsZero() {
		return time.Time{}, false
	}
	return t, true
}

// FromString parses s and truncates it to a month.
func (n *Normalizer) FromString(s string) (Month, bool) {
	t, ok := n.Parse(s)
	if !ok {
		return Month{}, false
	}
	return n.MonthOf(t), true
}

// Attribute resolves the period of a payment from its explicit period and
// its payment date. A set period is authoritative; otherwise the payment
// date is truncated, so a payment made on the 2nd of a month always belongs
// to that month.
func (n *Normalizer) Attribute(explicit, paymentDate *time.Time) Attribution {
	if explicit != nil && !explicit.IsZero() {
		return Attribution{Kind: Explicit, Month: n.MonthOf(*explicit)}
	}
	if paymentDate != nil && !paymentDate.IsZero() {
		return Attribution{Kind: Derived, Month: n.MonthOf(*paymentDate)}
	}
	return Attribution{Kind: Unknown}
}

// Reference computes the current and last month for instant at.
func (n *Normalizer) Reference(at time.Time) Reference {
	current := n.MonthOf(at)
	return Reference{At: at, Current: current, Last: current.Prev()}
}

// Bounds returns the half-open window [start, end) covering m in the
// normalizer's location.
func (n *Normalizer) Bounds(m Month) (time.Time, time.Time) {
	return m.StartIn(n.loc), m.Next().StartIn(n.loc)
}

// Span returns the half-open window covering every month from first to last
// inclusive.
func (n *Normalizer) Span(first, last Month) (time.Time, time.Time) {
	return first.StartIn(n.loc), last.Next().StartIn(n.loc)
}

// Contains reports whether instant t falls inside month m.
func (n *Normalizer) Contains(m Month, t time.Time) bool {
	return !t.IsZero() && n.MonthOf(t) == m
}
