package services

import (
	"fmt"
	"sort"
	"time"

	"contract_flow_app_go/models"
)

// EffectiveDate resolves the business-meaningful date of a status-change
// event. The audit timestamp of when the record was edited frequently trails
// the date the user intends (a contract signed last week and entered today),
// so the contract's own date field for the event's status wins whenever it
// is populated. For probono the probono date is checked first, the contract
// date second. Only when no business date exists does the raw event
// timestamp apply.
func EffectiveDate(contract *models.Contract, event models.StatusEvent) time.Time {
	if d := contract.StatusDate(event.NewStatus); d != nil {
		return *d
	}
	return event.ChangedAt
}

// DaysBetween returns the absolute difference between two dates in whole
// calendar days, ignoring the time-of-day component.
func DaysBetween(a, b time.Time) int {
	a = time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	b = time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	days := int(b.Sub(a).Hours() / 24)
	if days < 0 {
		days = -days
	}
	return days
}

// FormatDayDifference renders a day gap for the case history view
func FormatDayDifference(days int) string {
	switch {
	case days == 0:
		return "same day"
	case days == 1:
		return "1 day"
	default:
		return fmt.Sprintf("%d days", days)
	}
}

// TimelineEntry is one effective-dated step of a contract's history
type TimelineEntry struct {
	Event             models.StatusEvent `json:"event"`
	EffectiveAt       time.Time          `json:"effective_at"`
	DaysSincePrevious int                `json:"days_since_previous"`
	SincePrevious     string             `json:"since_previous"`
}

// BuildTimeline orders a contract's status events by effective date and
// annotates each with the gap since the previous event
func BuildTimeline(contract *models.Contract, events []models.StatusEvent) []TimelineEntry {
	entries := make([]TimelineEntry, 0, len(events))
	for _, event := range events {
		entries = append(entries, TimelineEntry{
			Event:       event,
			EffectiveAt: EffectiveDate(contract, event),
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].EffectiveAt.Before(entries[j].EffectiveAt)
	})
	for i := range entries {
		if i == 0 {
			entries[i].SincePrevious = FormatDayDifference(0)
			continue
		}
		days := DaysBetween(entries[i-1].EffectiveAt, entries[i].EffectiveAt)
		entries[i].DaysSincePrevious = days
		entries[i].SincePrevious = FormatDayDifference(days)
	}
	return entries
}

// CaseDuration returns the total effective-dated span of a timeline in whole
// days, oldest event to newest. Zero when fewer than two events exist.
func CaseDuration(entries []TimelineEntry) int {
	if len(entries) < 2 {
		return 0
	}
	return DaysBetween(entries[0].EffectiveAt, entries[len(entries)-1].EffectiveAt)
}
