package links

import (
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/joshua-takyi/localinsights/internal/models"
)

const (
	ICSProductID = "-//localinsights//wishlist//FR"
	icsUIDDomain = "localinsights"
	icsLineLimit = 75
)

var icsEscaper = strings.NewReplacer(
	`\`, `\\`,
	";", `\;`,
	",", `\,`,
	"\r\n", `\n`,
	"\n", `\n`,
)

// WriteICS writes one VEVENT per event. Events whose date or time cannot be
// read are skipped. stamp is used as DTSTAMP.
func WriteICS(w io.Writer, name string, events []models.Event, loc *time.Location, stamp time.Time) error {
	var b strings.Builder

	b.WriteString("BEGIN:VCALENDAR\r\n")
	b.WriteString("VERSION:2.0\r\n")
	fmt.Fprintf(&b, "PRODID:%s\r\n", ICSProductID)
	writeProperty(&b, "X-WR-CALNAME", icsEscaper.Replace(name))
	if loc != nil {
		fmt.Fprintf(&b, "X-WR-TIMEZONE:%s\r\n", loc.String())
	}
	b.WriteString("CALSCALE:GREGORIAN\r\n")

	for _, e := range events {
		start, err := e.StartsAt(loc)
		if err != nil {
			continue
		}
		end := start.Add(EventDuration)

		b.WriteString("BEGIN:VEVENT\r\n")
		fmt.Fprintf(&b, "UID:event-%s@%s\r\n", e.ID, icsUIDDomain)
		fmt.Fprintf(&b, "DTSTAMP:%s\r\n", stamp.UTC().Format(calendarStampFmt))
		fmt.Fprintf(&b, "DTSTART:%s\r\n", start.UTC().Format(calendarStampFmt))
		fmt.Fprintf(&b, "DTEND:%s\r\n", end.UTC().Format(calendarStampFmt))
		writeProperty(&b, "SUMMARY", icsEscaper.Replace(e.Title))
		writeProperty(&b, "DESCRIPTION", icsEscaper.Replace(calendarDetails(e)))
		writeProperty(&b, "LOCATION", icsEscaper.Replace(e.Location.Name+", "+e.Location.Address))
		fmt.Fprintf(&b, "GEO:%f;%f\r\n", e.Location.Lat, e.Location.Lng)
		writeProperty(&b, "URL", MapsURL(e))
		b.WriteString("END:VEVENT\r\n")
	}

	b.WriteString("END:VCALENDAR\r\n")

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("failed to write calendar: %w", err)
	}
	return nil
}

// writeProperty writes NAME:value folded so no line exceeds 75 octets.
// Continuation lines start with a single space and never split a rune.
func writeProperty(b *strings.Builder, name, value string) {
	line := name + ":" + value
	limit := icsLineLimit
	for len(line) > limit {
		cut := limit
		for cut > 0 && !utf8.RuneStart(line[cut]) {
			cut--
		}
		b.WriteString(line[:cut])
		b.WriteString("\r\n ")
		line = line[cut:]
		// the leading space counts toward the next line
		limit = icsLineLimit - 1
	}
	b.WriteString(line)
	b.WriteString("\r\n")
}
