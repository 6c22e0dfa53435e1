package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	leadscout "github.com/leadscout/leadscout-go"
)

func TestColumnsPriorityFirstAndDeduplicated(t *testing.T) {
	columns := Columns([]string{"website", "name", "email", "place_id"})

	for i, want := range PriorityFields {
		if columns[i] != want {
			t.Fatalf("column %d = %q, want priority field %q", i, columns[i], want)
		}
	}
	rest := columns[len(PriorityFields):]
	if len(rest) != 2 || rest[0] != "website" || rest[1] != "place_id" {
		t.Fatalf("selected tail = %v, want [website place_id]", rest)
	}
}

func TestColumnsDefaultSelection(t *testing.T) {
	columns := Columns(nil)
	want := map[string]bool{}
	for _, key := range append(append([]string{}, PriorityFields...), DefaultFields...) {
		want[key] = true
	}
	if len(columns) != len(want) {
		t.Fatalf("columns = %v", columns)
	}
	for _, key := range columns {
		if !want[key] {
			t.Fatalf("unexpected column %q", key)
		}
	}
}

func TestFacilitiesWritesRowsInOrder(t *testing.T) {
	facilities := []leadscout.Facility{
		{Name: "Iron Gym", FormattedPhoneNumber: "(512) 555-0101", Email: "iron@example.com", GoogleRating: 4.5},
		{Name: "Zen Yoga, Austin", Website: "https://zen.example.com"},
	}
	var buf bytes.Buffer
	if err := Facilities(&buf, facilities, []string{"name", "contact_number", "email", "google_rating", "website"}); err != nil {
		t.Fatalf("Facilities: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read back csv: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("rows = %d, want header plus 2", len(records))
	}
	header := records[0]
	col := map[string]int{}
	for i, key := range header {
		col[key] = i
	}
	if records[1][col["name"]] != "Iron Gym" || records[1][col["contact_number"]] != "(512) 555-0101" {
		t.Fatalf("row 1 = %v", records[1])
	}
	if records[1][col["google_rating"]] != "4.5" {
		t.Fatalf("google_rating = %q", records[1][col["google_rating"]])
	}
	// csv quoting must survive a comma in the value.
	if records[2][col["name"]] != "Zen Yoga, Austin" {
		t.Fatalf("row 2 = %v", records[2])
	}
	if records[2][col["google_rating"]] != "" {
		t.Fatalf("zero rating must render empty, got %q", records[2][col["google_rating"]])
	}
}

func TestFilenameSanitizesSegments(t *testing.T) {
	got := Filename("gym / spa", "United States", "São Paulo")
	if strings.ContainsAny(got, " /") {
		t.Fatalf("unsanitized filename %q", got)
	}
	if !strings.HasSuffix(got, ".csv") {
		t.Fatalf("filename %q must end in .csv", got)
	}
}

func TestFilenameCapsSegmentLength(t *testing.T) {
	long := strings.Repeat("a", 40)
	got := Filename(long, "us", "x")
	if want := strings.Repeat("a", 20) + "_us_x.csv"; got != want {
		t.Fatalf("Filename = %q, want %q", got, want)
	}
}
