package extract

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/use-agent/splitboard/models"
)

// fixture builds a minimal runner page in the results site's ant-design
// markup, one row per {checkpoint, pass, segment, cumulative} quadruple.
func fixture(rows [][4]string) string {
	var b strings.Builder
	b.WriteString(`<html><body><div class="ant-card">`)
	b.WriteString(`<div class="ant-card-head"><div class="ant-card-head-title">2025 Chuncheon Marathon</div></div>`)
	b.WriteString(`<div class="ant-card-meta-detail">`)
	b.WriteString(`<div class="ant-card-meta-title">Hong Gildong</div>`)
	b.WriteString(`<div class="ant-card-meta-description">M | #1060</div>`)
	b.WriteString(`</div>`)
	for _, r := range rows {
		b.WriteString(`<div class="table-row ant-row">`)
		for _, cell := range r {
			b.WriteString(`<div class="ant-col ant-col-6">` + cell + `</div>`)
		}
		b.WriteString(`</div>`)
	}
	b.WriteString(`</div></body></html>`)
	return b.String()
}

var cleanRows = [][4]string{
	{"5km", "00:27:10", "00:27:10", "00:27:10"},
	{"10km", "00:54:02", "00:26:52", "00:54:02"},
	{"Finish", "03:48:33", "02:54:31", "03:48:33"},
}

func TestRecords(t *testing.T) {
	ext := New(Options{})

	records, err := ext.Records(fixture(cleanRows))
	if err != nil {
		t.Fatalf("Records returned error: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}

	// Source order preserved.
	for i, want := range []string{"5km", "10km", "Finish"} {
		if records[i].Checkpoint != want {
			t.Errorf("records[%d].Checkpoint = %q, want %q", i, records[i].Checkpoint, want)
		}
	}

	rec := records[1]
	if !rec.Cumulative.Valid || rec.Cumulative.Duration != 54*time.Minute+2*time.Second {
		t.Errorf("10km cumulative = %+v, want valid 54m2s", rec.Cumulative)
	}
	if !rec.Segment.Valid || rec.Segment.Duration != 26*time.Minute+52*time.Second {
		t.Errorf("10km segment = %+v, want valid 26m52s", rec.Segment)
	}
	if rec.Pass.Raw != "00:54:02" {
		t.Errorf("10km pass raw = %q, want source text retained", rec.Pass.Raw)
	}
	for _, r := range records {
		if r.OutOfOrder {
			t.Errorf("checkpoint %s flagged out of order on a clean sequence", r.Checkpoint)
		}
	}
}

func TestRecords_PartialRowKept(t *testing.T) {
	rows := [][4]string{
		{"5km", "00:27:10", "00:27:10", "00:27:10"},
		{"10km", "--", "", "garbled"},
		{"Finish", "03:48:33", "02:54:31", "03:48:33"},
	}

	ext := New(Options{})
	records, err := ext.Records(fixture(rows))
	if err != nil {
		t.Fatalf("Records returned error: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3 (unparseable row must not be dropped)", len(records))
	}

	bad := records[1]
	if bad.Checkpoint != "10km" {
		t.Fatalf("partial row checkpoint = %q, want 10km", bad.Checkpoint)
	}
	if bad.Pass.Valid || bad.Segment.Valid || bad.Cumulative.Valid {
		t.Errorf("partial row cells should all be invalid: %+v", bad)
	}
	if bad.Cumulative.Raw != "garbled" {
		t.Errorf("invalid cell should retain raw text, got %q", bad.Cumulative.Raw)
	}
}

func TestRecords_FlagsDecreasingCumulative(t *testing.T) {
	rows := [][4]string{
		{"5km", "00:27:10", "00:27:10", "00:27:10"},
		{"10km", "00:54:02", "00:26:52", "00:20:00"}, // went backwards
		{"15km", "01:21:00", "00:27:00", "01:21:00"},
	}

	ext := New(Options{})
	records, err := ext.Records(fixture(rows))
	if err != nil {
		t.Fatalf("Records returned error: %v", err)
	}

	if !records[1].OutOfOrder {
		t.Error("decreasing cumulative time must be flagged")
	}
	if records[0].OutOfOrder || records[2].OutOfOrder {
		t.Error("neighbors of the violation must not be flagged")
	}
	// Flagged, not corrected.
	if records[1].Cumulative.Duration != 20*time.Minute {
		t.Errorf("flagged value was altered: %v", records[1].Cumulative.Duration)
	}
}

func TestRecords_NoTable(t *testing.T) {
	ext := New(Options{})
	_, err := ext.Records(`<html><body><div id="root"></div></body></html>`)
	if err == nil {
		t.Fatal("Records should fail on a page without the table marker")
	}
	var e *models.Error
	if !errors.As(err, &e) || e.Code != models.ErrCodeNoTable {
		t.Errorf("error = %v, want code %s", err, models.ErrCodeNoTable)
	}
}

func TestRecords_EmptyTable(t *testing.T) {
	// Row markers exist but carry no data cells.
	html := `<html><body><div class="table-row ant-row"></div></body></html>`

	ext := New(Options{})
	_, err := ext.Records(html)
	if err == nil {
		t.Fatal("Records should fail on a table with no data rows")
	}
	var e *models.Error
	if !errors.As(err, &e) || e.Code != models.ErrCodeEmpty {
		t.Errorf("error = %v, want code %s", err, models.ErrCodeEmpty)
	}
}

func TestRecords_ClockPassTimes(t *testing.T) {
	rows := [][4]string{
		{"5km", "09:27:10", "00:27:10", "00:27:10"},
	}

	ext := New(Options{ClockPassTimes: true, RaceStart: 9 * time.Hour})
	records, err := ext.Records(fixture(rows))
	if err != nil {
		t.Fatalf("Records returned error: %v", err)
	}
	if got, want := records[0].Pass.Duration, 27*time.Minute+10*time.Second; !records[0].Pass.Valid || got != want {
		t.Errorf("clock pass time = %v (valid=%v), want %v", got, records[0].Pass.Valid, want)
	}
}

func TestMeta(t *testing.T) {
	ext := New(Options{})
	meta := ext.Meta(fixture(cleanRows))

	if meta.Name != "Hong Gildong" {
		t.Errorf("Name = %q", meta.Name)
	}
	if meta.Gender != "M" {
		t.Errorf("Gender = %q", meta.Gender)
	}
	if meta.Bib != "1060" {
		t.Errorf("Bib = %q, want hash stripped", meta.Bib)
	}
	if meta.Event != "2025 Chuncheon Marathon" {
		t.Errorf("Event = %q", meta.Event)
	}

	// Meta never fails, even on unrelated markup.
	empty := ext.Meta("<html><body></body></html>")
	if empty.Name != "" || empty.Bib != "" {
		t.Errorf("expected empty meta, got %+v", empty)
	}
}

func TestLooksLikeResults(t *testing.T) {
	if !LooksLikeResults(fixture(cleanRows)) {
		t.Error("rendered results page should validate")
	}
	if LooksLikeResults(`<html><body><div id="root"></div></body></html>`) {
		t.Error("unrendered SPA shell should not validate")
	}
	if LooksLikeResults("") {
		t.Error("empty content should not validate")
	}
}
