package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/pfrederiksen/compcal/internal/competition"
)

const (
	uidDomain = "compcal.ffgti.org"
	// TimeZone is the zone clients use for the floating competition times.
	TimeZone = "Europe/Berlin"
	// AlarmBefore is how long before registration opens the reminder fires.
	AlarmBefore = 15 * time.Minute
)

// Build generates an iCalendar document with two events per record: the
// competition itself and the opening of its registration.
func Build(name string, records []competition.Record, now time.Time) string {
	var ics strings.Builder

	ics.WriteString("BEGIN:VCALENDAR\r\n")
	ics.WriteString("VERSION:2.0\r\n")
	ics.WriteString("PRODID:-//Finn Ickler//compCal//EN\r\n")
	ics.WriteString("CALSCALE:GREGORIAN\r\n")
	ics.WriteString("METHOD:PUBLISH\r\n")
	writeLine(&ics, "X-WR-CALNAME:"+escapeICS(name))
	writeLine(&ics, "X-WR-TIMEZONE:"+TimeZone)

	stamp := formatICSTime(now)
	for _, rec := range records {
		writeCompetition(&ics, rec, stamp)
		writeRegistration(&ics, rec, stamp)
	}

	ics.WriteString("END:VCALENDAR\r\n")
	return ics.String()
}

func writeCompetition(ics *strings.Builder, rec competition.Record, stamp string) {
	start, errStart := time.Parse(time.DateOnly, rec.StartDate)
	end, errEnd := time.Parse(time.DateOnly, rec.EndDate)
	if errStart != nil {
		return
	}
	if errEnd != nil {
		end = start
	}

	ics.WriteString("BEGIN:VEVENT\r\n")
	writeLine(ics, fmt.Sprintf("UID:%s@%s", rec.ID, uidDomain))
	writeLine(ics, "DTSTAMP:"+stamp)
	// Floating local times: the competition runs in the venue's zone
	writeLine(ics, "DTSTART:"+formatLocalTime(start, 7))
	writeLine(ics, "DTEND:"+formatLocalTime(end, 18))
	writeLine(ics, "SUMMARY:"+escapeICS(fmt.Sprintf("%s in %s", rec.Name, rec.City)))
	writeLine(ics, "DESCRIPTION:"+escapeICS(rec.Name))
	writeOrganizer(ics, rec)
	if rec.VenueAddress != "" {
		writeLine(ics, "LOCATION:"+escapeICS(rec.VenueAddress))
	}
	if rec.URL != "" {
		writeLine(ics, "URL:"+rec.URL)
	}
	ics.WriteString("STATUS:CONFIRMED\r\n")
	ics.WriteString("TRANSP:OPAQUE\r\n")
	ics.WriteString("END:VEVENT\r\n")
}

// writeRegistration adds the registration opening. Records stored with a
// fallback value instead of a timestamp get no registration event.
func writeRegistration(ics *strings.Builder, rec competition.Record, stamp string) {
	opens, err := time.Parse(time.RFC3339, rec.RegistrationOpen)
	if err != nil {
		return
	}

	ics.WriteString("BEGIN:VEVENT\r\n")
	writeLine(ics, fmt.Sprintf("UID:%s-registration@%s", rec.ID, uidDomain))
	writeLine(ics, "DTSTAMP:"+stamp)
	writeLine(ics, "DTSTART:"+formatICSTime(opens))
	writeLine(ics, "SUMMARY:"+escapeICS(fmt.Sprintf("Registration for %s in %s", rec.Name, rec.City)))
	writeLine(ics, "DESCRIPTION:"+escapeICS("Registration "+rec.Name))
	writeOrganizer(ics, rec)
	if rec.URL != "" {
		writeLine(ics, "LOCATION:"+escapeICS(rec.URL+"/register"))
		writeLine(ics, "URL:"+rec.URL)
	}
	ics.WriteString("TRANSP:TRANSPARENT\r\n")
	ics.WriteString("BEGIN:VALARM\r\n")
	ics.WriteString("ACTION:DISPLAY\r\n")
	writeLine(ics, fmt.Sprintf("TRIGGER:-PT%dM", int(AlarmBefore.Minutes())))
	writeLine(ics, "DESCRIPTION:"+escapeICS("Registration for "+rec.Name+" opens soon"))
	ics.WriteString("END:VALARM\r\n")
	ics.WriteString("END:VEVENT\r\n")
}

func writeOrganizer(ics *strings.Builder, rec competition.Record) {
	email, _, _ := strings.Cut(rec.Organizer, ",")
	if email == "" || email == competition.NoEmail {
		return
	}
	writeLine(ics, fmt.Sprintf("ORGANIZER;CN=%s:mailto:%s",
		quoteParam(rec.Name+" Organization Team"), email))
}

// formatICSTime formats a time.Time as an iCalendar UTC datetime string
func formatICSTime(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

// formatLocalTime formats day at hour as a floating iCalendar datetime
func formatLocalTime(day time.Time, hour int) string {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, 0, 0, 0, time.UTC).Format("20060102T150405")
}

// escapeICS escapes special characters for iCalendar format
func escapeICS(s string) string {
	// Replace special characters according to RFC 5545
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}

func quoteParam(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, "'") + `"`
}

// writeLine writes a content line folded at 75 octets.
func writeLine(ics *strings.Builder, line string) {
	limit := 75
	for len(line) > limit {
		cut := limit
		// keep UTF-8 sequences whole
		for cut > 0 && line[cut]&0xC0 == 0x80 {
			cut--
		}
		if cut == 0 {
			cut = limit
		}
		ics.WriteString(line[:cut])
		ics.WriteString("\r\n ")
		line = line[cut:]
		// continuation lines start with a space
		limit = 74
	}
	ics.WriteString(line)
	ics.WriteString("\r\n")
}
