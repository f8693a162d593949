package orders

import (
	"regexp"
	"strings"
	"time"
)

// DateRange selects how the start/end date parameters are derived.
type DateRange string

const (
	// DateRangeNone omits the date parameters.
	DateRangeNone DateRange = ""

	DateRangeToday         DateRange = "today"
	DateRangeYesterday     DateRange = "yesterday"
	DateRangeCurrentMonth  DateRange = "currentMonth"
	DateRangePreviousMonth DateRange = "previousMonth"

	// DateRangeCustom passes the caller-supplied bounds through verbatim.
	DateRangeCustom DateRange = "custom"
)

// FilterSelection is the operator's filter state for the order list.
type FilterSelection struct {
	Sources         []string
	Statuses        []string
	PaymentStatuses []string

	DateRange   DateRange
	CustomStart time.Time // used only with DateRangeCustom; zero omits
	CustomEnd   time.Time

	// Search is a free-text term. An all-digit term is sent as an order-id
	// filter, anything else as a customer-name filter.
	Search string
}

const isoDate = "2006-01-02"

var numericSearch = regexp.MustCompile(`^\d+$`)

// BuildParams translates a filter selection into the flat parameter map of
// the orders endpoint. It is pure: now is injected so date ranges are
// deterministic under test.
//
// Empty list filters omit their key entirely; the server reads absence as
// "no restriction", not "match nothing".
func BuildParams(sel FilterSelection, now time.Time) map[string]string {
	params := make(map[string]string)

	if len(sel.Sources) > 0 {
		params["source"] = strings.Join(sel.Sources, ",")
	}
	if len(sel.Statuses) > 0 {
		params["status"] = strings.Join(sel.Statuses, ",")
	}
	if len(sel.PaymentStatuses) > 0 {
		params["paymentStatus"] = strings.Join(sel.PaymentStatuses, ",")
	}

	start, end, ok := resolveDateRange(sel, now)
	if ok {
		if !start.IsZero() {
			params["startDate"] = start.Format(isoDate)
		}
		if !end.IsZero() {
			params["endDate"] = end.Format(isoDate)
		}
	}

	if term := strings.TrimSpace(sel.Search); term != "" {
		// Heuristic: digits mean an order id, anything else a customer
		// name. A customer named in digits only is unreachable through
		// search; kept as-is pending product guidance.
		if numericSearch.MatchString(term) {
			params["orderId"] = term
		} else {
			params["customerName"] = term
		}
	}

	return params
}

// resolveDateRange computes the inclusive start/end dates for the selected
// range relative to now.
func resolveDateRange(sel FilterSelection, now time.Time) (start, end time.Time, ok bool) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch sel.DateRange {
	case DateRangeToday:
		return today, today, true

	case DateRangeYesterday:
		yesterday := today.AddDate(0, 0, -1)
		return yesterday, yesterday, true

	case DateRangeCurrentMonth:
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		last := first.AddDate(0, 1, -1)
		return first, last, true

	case DateRangePreviousMonth:
		// AddDate carries the year rollover for January.
		firstOfCurrent := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		first := firstOfCurrent.AddDate(0, -1, 0)
		last := firstOfCurrent.AddDate(0, 0, -1)
		return first, last, true

	case DateRangeCustom:
		return sel.CustomStart, sel.CustomEnd, true

	default:
		return time.Time{}, time.Time{}, false
	}
}
