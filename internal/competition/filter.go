package competition

// FilterAnnouncedSince keeps the competitions whose AnnouncedAt is not earlier
// than cutoff. Both sides are ISO-8601 UTC strings of the same shape, so string
// order is chronological order. The API's announced_after parameter only
// compares calendar days; this removes same-day announcements already seen.
func FilterAnnouncedSince(comps []Competition, cutoff string) []Competition {
	kept := make([]Competition, 0, len(comps))
	for _, c := range comps {
		if c.AnnouncedAt < cutoff {
			continue
		}
		kept = append(kept, c)
	}
	return kept
}
