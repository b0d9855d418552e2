package ingest

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// normalizedNonEmpty trims a required string, emitting a trim_whitespace
// warn note if trimming changed it, and fails with
// ingest_empty_required_field if the trimmed value is empty.
func normalizedNonEmpty(field, raw string) (string, *CleaningNote, *Error) {
	trimmed := strings.TrimSpace(raw)
	var note *CleaningNote
	if trimmed != raw {
		note = &CleaningNote{
			RuleID:        "trim_whitespace",
			Severity:      SeverityWarn,
			AffectedField: field,
			RawValue:      raw,
			CleanValue:    trimmed,
			Message:       "trimmed surrounding whitespace",
		}
	}
	if trimmed == "" {
		return "", note, newError("ingest_empty_required_field", field, "required field is empty after trimming", raw)
	}
	return trimmed, note, nil
}

// normalizedCurrency uppercases and validates a three-letter ASCII
// currency code, emitting a normalize_currency_code warn note if the
// case changed.
func normalizedCurrency(field, raw string) (string, *CleaningNote, *Error) {
	upper := strings.ToUpper(strings.TrimSpace(raw))
	if len(upper) != 3 || !isAlpha(upper) {
		return "", nil, newError("ingest_invalid_currency_code", field, "currency code must be three ASCII letters", raw)
	}
	var note *CleaningNote
	if upper != raw {
		note = &CleaningNote{
			RuleID:        "normalize_currency_code",
			Severity:      SeverityWarn,
			AffectedField: field,
			RawValue:      raw,
			CleanValue:    upper,
			Message:       "normalized currency code casing",
		}
	}
	return upper, note, nil
}

func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

// ParseGA4Event validates and cleans one raw GA4 event row.
func ParseGA4Event(raw GA4EventRaw) (GA4Event, []CleaningNote, *Error) {
	var notes []CleaningNote

	eventName, note, err := normalizedNonEmpty("event_name", raw.EventName)
	if note != nil {
		notes = append(notes, *note)
	}
	if err != nil {
		return GA4Event{}, notes, err
	}

	userID, note, err := normalizedNonEmpty("user_pseudo_id", raw.UserPseudoID)
	if note != nil {
		notes = append(notes, *note)
	}
	if err != nil {
		return GA4Event{}, notes, err
	}

	if _, perr := time.Parse(time.RFC3339, raw.EventTimestamp); perr != nil {
		return GA4Event{}, notes, newError("ga4_invalid_timestamp", "event_timestamp", "event_timestamp must be RFC3339", raw.EventTimestamp)
	}

	return GA4Event{
		EventName:      eventName,
		UserPseudoID:   userID,
		EventTimestamp: raw.EventTimestamp,
		CampaignID:     strings.TrimSpace(raw.CampaignID),
		AdGroupID:      strings.TrimSpace(raw.AdGroupID),
	}, notes, nil
}

// ParseGoogleAdsRow validates and cleans one raw Google Ads performance
// row, rejecting clicks greater than impressions and normalizing the
// currency and micros-denominated cost.
func ParseGoogleAdsRow(raw GoogleAdsRowRaw) (GoogleAdsRow, []CleaningNote, *Error) {
	var notes []CleaningNote

	campaignID, note, err := normalizedNonEmpty("campaign_id", raw.CampaignID)
	if note != nil {
		notes = append(notes, *note)
	}
	if err != nil {
		return GoogleAdsRow{}, notes, err
	}

	adGroupID, note, err := normalizedNonEmpty("ad_group_id", raw.AdGroupID)
	if note != nil {
		notes = append(notes, *note)
	}
	if err != nil {
		return GoogleAdsRow{}, notes, err
	}

	if _, perr := time.Parse("2006-01-02", raw.Date); perr != nil {
		return GoogleAdsRow{}, notes, newError("ads_invalid_date", "date", "date must use YYYY-MM-DD", raw.Date)
	}

	if raw.Clicks > raw.Impressions {
		return GoogleAdsRow{}, notes, newError("ads_clicks_gt_impressions", "clicks", "clicks cannot exceed impressions", "")
	}

	currency, note, err := normalizedCurrency("currency", raw.Currency)
	if note != nil {
		notes = append(notes, *note)
	}
	if err != nil {
		return GoogleAdsRow{}, notes, err
	}

	cost := decimal.NewFromInt(raw.CostMicros).Div(decimal.NewFromInt(1_000_000))

	return GoogleAdsRow{
		CampaignID:      campaignID,
		CampaignName:    strings.TrimSpace(raw.CampaignName),
		AdGroupID:       adGroupID,
		AdGroupName:     strings.TrimSpace(raw.AdGroupName),
		KeywordText:     strings.TrimSpace(raw.KeywordText),
		Date:            raw.Date,
		Impressions:     raw.Impressions,
		Clicks:          raw.Clicks,
		Cost:            Money{Currency: currency, Amount: cost},
		Conversions:     raw.Conversions,
		ConversionValue: raw.ConversionValue,
	}, notes, nil
}

// ParseWixOrder validates and cleans one raw Wix commerce order.
func ParseWixOrder(raw WixOrderRaw) (WixOrder, []CleaningNote, *Error) {
	var notes []CleaningNote

	orderID, note, err := normalizedNonEmpty("order_id", raw.OrderID)
	if note != nil {
		notes = append(notes, *note)
	}
	if err != nil {
		return WixOrder{}, notes, err
	}

	if _, perr := time.Parse(time.RFC3339, raw.PlacedAtUTC); perr != nil {
		return WixOrder{}, notes, newError("wix_invalid_timestamp", "placed_at_utc", "placed_at_utc must be RFC3339", raw.PlacedAtUTC)
	}

	currency, note, err := normalizedCurrency("currency", raw.Currency)
	if note != nil {
		notes = append(notes, *note)
	}
	if err != nil {
		return WixOrder{}, notes, err
	}

	amount, derr := decimal.NewFromString(strings.TrimSpace(raw.GrossAmount))
	if derr != nil {
		return WixOrder{}, notes, newError("wix_invalid_decimal", "gross_amount", "gross_amount must be a decimal string", raw.GrossAmount)
	}

	return WixOrder{
		OrderID:     orderID,
		PlacedAtUTC: raw.PlacedAtUTC,
		Gross:       Money{Currency: currency, Amount: amount},
	}, notes, nil
}
