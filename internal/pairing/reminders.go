package pairing

import (
	"sort"

	"github.com/pairup/pairup/internal/history"
	"github.com/pairup/pairup/internal/users"
)

// DefaultReminderStreak is the number of consecutive pending pairings that flags a user
const DefaultReminderStreak = 5

// ComputeReminders returns the identifiers whose `streak` most recent appearances
// in records are all pending. Users with fewer appearances are never flagged.
// The result is sorted and never nil.
func ComputeReminders(all []users.User, records []*history.Record, streak int) []string {
	if streak < 1 {
		streak = DefaultReminderStreak
	}

	ordered := make([]*history.Record, len(records))
	copy(ordered, records)
	sort.SliceStable(ordered, func(i, j int) bool { return history.Newer(ordered[i], ordered[j]) })

	flagged := make([]string, 0)
	seen := make(map[string]struct{}, len(all))
	for _, u := range all {
		if u.Identifier == "" {
			continue
		}
		if _, dup := seen[u.Identifier]; dup {
			continue
		}
		seen[u.Identifier] = struct{}{}

		if pendingStreak(u.Identifier, ordered, streak) {
			flagged = append(flagged, u.Identifier)
		}
	}

	sort.Strings(flagged)
	return flagged
}

// pendingStreak walks newest-first records and reports whether the first
// `streak` records involving identifier are all pending
func pendingStreak(identifier string, ordered []*history.Record, streak int) bool {
	count := 0
	for _, record := range ordered {
		if !record.Involves(identifier) {
			continue
		}
		if record.Completed {
			return false
		}
		count++
		if count == streak {
			return true
		}
	}
	return false
}
