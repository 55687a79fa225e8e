package links

import (
	"bytes"
	"net/url"
	"strings"
	"testing"
	"time"
	_ "time/tzdata"
	"unicode/utf8"

	"github.com/joshua-takyi/localinsights/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jazzNight() models.Event {
	return models.Event{
		ID:          "1",
		Title:       "Concert Jazz Intime - Sarah Chen",
		Description: "Une soirée jazz",
		Date:        "2024-01-15",
		Time:        "20:00",
		Location: models.Location{
			Name:    "Le Petit Jazz Club",
			Address: "15 Rue de la Musique, 75011 Paris",
			Lat:     48.8566,
			Lng:     2.3522,
		},
		Price: models.Price{Min: decimal.NewFromInt(15), Max: decimal.NewFromInt(25), Currency: "EUR"},
	}
}

func TestMapsURL(t *testing.T) {
	assert.Equal(t,
		"https://www.google.com/maps/search/?api=1&query=Le%20Petit%20Jazz%20Club%2C%2015%20Rue%20de%20la%20Musique%2C%2075011%20Paris",
		MapsURL(jazzNight()))
}

func TestCalendarURL(t *testing.T) {
	paris, err := time.LoadLocation("Europe/Paris")
	require.NoError(t, err)

	raw, err := CalendarURL(jazzNight(), paris)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(raw, "https://calendar.google.com/calendar/render?action=TEMPLATE&text=Concert%20Jazz%20Intime%20-%20Sarah%20Chen&"))

	u, err := url.Parse(raw)
	require.NoError(t, err)
	q := u.Query()
	assert.Equal(t, "20240115T190000Z/20240115T210000Z", q.Get("dates"))
	assert.Equal(t, "Une soirée jazz\n\nLocation: Le Petit Jazz Club\nAddress: 15 Rue de la Musique, 75011 Paris", q.Get("details"))
	assert.Equal(t, "15 Rue de la Musique, 75011 Paris", q.Get("location"))
}

func TestCalendarURL_BadDate(t *testing.T) {
	e := jazzNight()
	e.Time = "8pm"
	_, err := CalendarURL(e, time.UTC)
	assert.Error(t, err)
}

func TestPriceLabel(t *testing.T) {
	assert.Equal(t, "Free", PriceLabel(models.Price{}))
	assert.Equal(t, "15€", PriceLabel(models.Price{Min: decimal.NewFromInt(15), Max: decimal.NewFromInt(15)}))
	assert.Equal(t, "10-20€", PriceLabel(models.Price{Min: decimal.NewFromInt(10), Max: decimal.NewFromInt(20)}))
	assert.Equal(t, "7.5-9€", PriceLabel(models.Price{Min: decimal.RequireFromString("7.50"), Max: decimal.NewFromInt(9)}))
}

func TestWriteICS(t *testing.T) {
	broken := jazzNight()
	broken.ID = "2"
	broken.Date = "soon"

	var buf bytes.Buffer
	stamp := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, WriteICS(&buf, "My wishlist", []models.Event{jazzNight(), broken}, time.UTC, stamp))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "BEGIN:VCALENDAR\r\n"))
	assert.True(t, strings.HasSuffix(out, "END:VCALENDAR\r\n"))
	assert.Equal(t, 1, strings.Count(out, "BEGIN:VEVENT"))
	assert.Contains(t, out, "UID:event-1@localinsights\r\n")
	assert.Contains(t, out, "DTSTART:20240115T200000Z\r\n")
	assert.Contains(t, out, "DTEND:20240115T220000Z\r\n")
	assert.Contains(t, out, `LOCATION:Le Petit Jazz Club\, 15 Rue de la Musique\, 75011 Paris`)
	assert.Contains(t, out, `DESCRIPTION:Une soirée jazz\n\nLocation:`)
}

func TestWriteICS_FoldsLongLines(t *testing.T) {
	e := jazzNight()
	e.Title = strings.Repeat("Soirée électro à l'Élysée ", 6)
	e.Description = strings.Repeat("é", 200)

	var buf bytes.Buffer
	require.NoError(t, WriteICS(&buf, "Wishlist", []models.Event{e}, time.UTC, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
	out := buf.String()

	for _, line := range strings.Split(strings.TrimSuffix(out, "\r\n"), "\r\n") {
		assert.LessOrEqual(t, len(line), 75, line)
		assert.True(t, utf8.ValidString(line), "fold split a rune: %q", line)
	}

	unfolded := strings.ReplaceAll(out, "\r\n ", "")
	assert.Contains(t, unfolded, "SUMMARY:"+icsEscaper.Replace(e.Title)+"\r\n")
	assert.Contains(t, unfolded, "DESCRIPTION:"+strings.Repeat("é", 200)+`\n\n`)
}

func TestWriteProperty_ShortLineUnchanged(t *testing.T) {
	var b strings.Builder
	writeProperty(&b, "SUMMARY", "Jazz")
	assert.Equal(t, "SUMMARY:Jazz\r\n", b.String())
}
