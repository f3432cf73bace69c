package model

import (
	"fmt"
	"strings"
)

// Segment partitions accounts and reps.
type Segment string

const (
	SegmentEnterprise Segment = "Enterprise"
	SegmentMidMarket  Segment = "Mid-Market"
)

// Segments lists every segment in reporting order.
var Segments = []Segment{SegmentEnterprise, SegmentMidMarket}

// ParseSegment maps a free-form label onto a Segment. The source sheets spell
// mid-market several ways ("Mid Market", "Mid-Market", "midmarket").
func ParseSegment(s string) (Segment, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer("-", "", " ", "", "_", "").Replace(norm)
	switch norm {
	case "enterprise", "ent":
		return SegmentEnterprise, nil
	case "midmarket", "mm", "mid":
		return SegmentMidMarket, nil
	}
	return "", fmt.Errorf("%w %q", ErrUnknownSegment, s)
}

// Valid reports whether s is one of the known segments.
func (s Segment) Valid() bool {
	return s == SegmentEnterprise || s == SegmentMidMarket
}

// Key returns the camel-cased identifier used in JSON reports.
func (s Segment) Key() string {
	switch s {
	case SegmentEnterprise:
		return "enterprise"
	case SegmentMidMarket:
		return "midMarket"
	}
	return string(s)
}
