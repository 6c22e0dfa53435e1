// Package export serializes facility search results to CSV.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"

	leadscout "github.com/leadscout/leadscout-go"
)

// PriorityFields always lead the column order, whatever the user selected.
var PriorityFields = []string{
	"name",
	"international_phone_number",
	"contact_number",
	"email",
	"location",
	"address",
}

// DefaultFields is the selection used when the user picked nothing.
var DefaultFields = []string{
	"name",
	"international_phone_number",
	"formatted_phone_number",
	"email",
	"location",
	"address",
	"google_rating",
	"user_ratings_total",
	"website",
}

// Columns resolves the final column order: priority fields first, then the
// selection (or the default selection), de-duplicated in first-seen order.
func Columns(selected []string) []string {
	if len(selected) == 0 {
		selected = DefaultFields
	}
	seen := make(map[string]bool, len(PriorityFields)+len(selected))
	out := make([]string, 0, len(PriorityFields)+len(selected))
	for _, key := range append(append([]string{}, PriorityFields...), selected...) {
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, key)
	}
	return out
}

// Facilities writes one CSV document: a header row of the resolved columns
// followed by one row per facility, in input order.
func Facilities(w io.Writer, facilities []leadscout.Facility, selected []string) error {
	columns := Columns(selected)
	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	row := make([]string, len(columns))
	for i := range facilities {
		for j, key := range columns {
			row[j] = fieldValue(&facilities[i], key)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// fieldValue maps a column key to a facility field. The contact_number
// column carries the formatted phone number, matching what the results view
// always exported.
func fieldValue(f *leadscout.Facility, key string) string {
	switch key {
	case "name":
		return f.Name
	case "international_phone_number":
		return f.InternationalPhoneNumber
	case "contact_number":
		return f.FormattedPhoneNumber
	case "formatted_phone_number":
		return f.FormattedPhoneNumber
	case "email":
		return f.Email
	case "location":
		return f.Location
	case "address":
		return f.Address
	case "google_rating":
		if f.GoogleRating == 0 {
			return ""
		}
		return strconv.FormatFloat(f.GoogleRating, 'f', -1, 64)
	case "user_ratings_total":
		if f.UserRatingsTotal == 0 {
			return ""
		}
		return strconv.Itoa(f.UserRatingsTotal)
	case "business_status":
		return f.BusinessStatus
	case "website":
		return f.Website
	case "established_year":
		return f.EstablishedYear
	case "whatsapp_number":
		return f.WhatsappNumber
	case "instagram_id":
		return f.InstagramID
	case "linkedin":
		return f.Linkedin
	case "place_id":
		return f.PlaceID
	default:
		return ""
	}
}

var unsafeFilename = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

// Filename builds the download name <place>_<country>_<city>.csv with each
// segment sanitized and capped at 20 characters.
func Filename(placeType, country, city string) string {
	return safeSegment(placeType) + "_" + safeSegment(country) + "_" + safeSegment(city) + ".csv"
}

func safeSegment(s string) string {
	s = unsafeFilename.ReplaceAllString(s, "_")
	if len(s) > 20 {
		s = s[:20]
	}
	return s
}
