// Package ingest parses raw source rows (GA4 events, Google Ads rows,
// Wix orders) into domain types, recording a cleaning note for every
// normalization adjustment and returning a structured error rather than
// panicking on adversarial input.
package ingest

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// CleaningNoteSeverity is how serious a normalization adjustment was.
type CleaningNoteSeverity string

const (
	SeverityWarn  CleaningNoteSeverity = "warn"
	SeverityBlock CleaningNoteSeverity = "block"
)

// CleaningNote documents one adjustment (or rejection) made while
// normalizing a raw row.
type CleaningNote struct {
	RuleID        string
	Severity      CleaningNoteSeverity
	AffectedField string
	RawValue      string
	CleanValue    string
	Message       string
}

// Error is the structured diagnostic returned by a failed row parse.
// Adversarial input always produces one of these, never a panic.
type Error struct {
	Code   string
	Field  string
	Reason string
	Sample string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s (field=%s)", e.Code, e.Reason, e.Field)
}

func newError(code, field, reason, sample string) *Error {
	return &Error{Code: code, Field: field, Reason: reason, Sample: sample}
}

// Money is a currency amount paired with its normalized three-letter
// currency code, stored as a fixed-point decimal.
type Money struct {
	Currency string
	Amount   decimal.Decimal
}

// GA4EventRaw is one unvalidated GA4 event row as received from a
// connector.
type GA4EventRaw struct {
	EventName      string
	UserPseudoID   string
	EventTimestamp string // RFC3339
	CampaignID     string
	AdGroupID      string
}

// GA4Event is a validated, cleaned GA4 event.
type GA4Event struct {
	EventName      string
	UserPseudoID   string
	EventTimestamp string
	CampaignID     string
	AdGroupID      string
}

// GoogleAdsRowRaw is one unvalidated Google Ads performance row.
type GoogleAdsRowRaw struct {
	CampaignID      string
	CampaignName    string
	AdGroupID       string
	AdGroupName     string
	KeywordText     string
	Date            string // YYYY-MM-DD
	Impressions     int64
	Clicks          int64
	CostMicros      int64
	Currency        string
	Conversions     float64
	ConversionValue float64
}

// GoogleAdsRow is a validated, cleaned Google Ads performance row.
type GoogleAdsRow struct {
	CampaignID      string
	CampaignName    string
	AdGroupID       string
	AdGroupName     string
	KeywordText     string
	Date            string
	Impressions     int64
	Clicks          int64
	Cost            Money
	Conversions     float64
	ConversionValue float64
}

// WixOrderRaw is one unvalidated Wix commerce order.
type WixOrderRaw struct {
	OrderID      string
	PlacedAtUTC  string // RFC3339
	GrossAmount  string
	Currency     string
}

// WixOrder is a validated, cleaned Wix commerce order.
type WixOrder struct {
	OrderID     string
	PlacedAtUTC string
	Gross       Money
}

// WixSessionRaw is one unvalidated Wix storefront visit, carrying
// traffic-source fields rather than revenue amounts.
type WixSessionRaw struct {
	SessionID     string
	StartedAtUTC  string
	VisitorID     string
	LandingPath   string
	TrafficSource string
}
