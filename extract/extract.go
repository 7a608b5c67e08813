// Package extract turns a fetched runner page into ordered split records.
//
// The results site renders its table with ant-design grid markup rather
// than <table> elements, so rows and cells are located by structural class
// markers instead of positions.
package extract

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/use-agent/splitboard/models"
	"github.com/use-agent/splitboard/timeparse"
)

// RowSelector marks one results-table row. The browser fallback waits for
// it before snapshotting the rendered page.
const RowSelector = "div.table-row.ant-row"

// Structural markers of the results page. Compiled once; these are the
// only assumptions made about the markup.
var (
	rowSel   = cascadia.MustCompile(RowSelector)
	cellSel  = cascadia.MustCompile("div.ant-col.ant-col-6")
	nameSel  = cascadia.MustCompile("div.ant-card-meta-detail > div.ant-card-meta-title")
	descSel  = cascadia.MustCompile("div.ant-card-meta-detail > div.ant-card-meta-description")
	eventSel = cascadia.MustCompile("div.ant-card-head-title")
)

// Options controls how pass-time text is interpreted.
type Options struct {
	// ClockPassTimes treats pass times as wall-clock times of day
	// relative to RaceStart. When false they are parsed as elapsed
	// durations, matching what the site shows for most races.
	ClockPassTimes bool

	// RaceStart is the start time of day as an offset from midnight.
	RaceStart time.Duration
}

// Extractor parses runner pages.
type Extractor struct {
	opts Options
}

// New creates an Extractor.
func New(opts Options) *Extractor {
	return &Extractor{opts: opts}
}

// LooksLikeResults reports whether the HTML carries at least one results
// row. It is the content-shape check the fetch fallback uses to decide
// that a static response is just an unrendered application shell.
func LooksLikeResults(html string) bool {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return false
	}
	return doc.FindMatcher(rowSel).Length() > 0
}

// Records extracts the ordered split records from a runner page.
//
// Rows whose time fields fail to parse are kept with the checkpoint name
// and invalid cells so the table stays aligned across runners. The page
// having no recognizable table at all is NO_TABLE_FOUND; a recognizable
// table with no data rows is EMPTY_TABLE. Both tell the caller to treat
// the runner as unavailable rather than as zero-row.
func (e *Extractor) Records(html string) ([]models.SplitRecord, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, models.NewError(models.ErrCodeNoTable, "unparseable HTML", err)
	}

	rows := doc.FindMatcher(rowSel)
	if rows.Length() == 0 {
		return nil, models.NewError(models.ErrCodeNoTable, "results table marker not found", nil)
	}

	records := make([]models.SplitRecord, 0, rows.Length())
	rows.Each(func(_ int, row *goquery.Selection) {
		cols := make([]string, 0, 4)
		row.FindMatcher(cellSel).Each(func(_ int, cell *goquery.Selection) {
			cols = append(cols, strings.TrimSpace(cell.Text()))
		})
		if len(cols) == 0 {
			return // header or spacer row
		}

		rec := models.SplitRecord{Checkpoint: col(cols, 0)}
		rec.Pass = e.passCell(col(cols, 1))
		rec.Segment = elapsedCell(col(cols, 2))
		rec.Cumulative = elapsedCell(col(cols, 3))
		records = append(records, rec)
	})

	if len(records) == 0 {
		return nil, models.NewError(models.ErrCodeEmpty, "results table has no data rows", nil)
	}

	flagOutOfOrder(records)
	return records, nil
}

// Meta extracts the page-header runner metadata. It never fails: fields
// that cannot be located stay empty.
func (e *Extractor) Meta(html string) models.RunnerMeta {
	var meta models.RunnerMeta
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return meta
	}

	meta.Name = strings.TrimSpace(doc.FindMatcher(nameSel).First().Text())
	meta.Event = strings.TrimSpace(doc.FindMatcher(eventSel).First().Text())

	// The description renders as "<gender> | #<bib>".
	desc := strings.TrimSpace(doc.FindMatcher(descSel).First().Text())
	if desc != "" {
		parts := strings.Split(desc, "|")
		meta.Gender = strings.TrimSpace(parts[0])
		if len(parts) > 1 {
			meta.Bib = strings.TrimSpace(strings.ReplaceAll(parts[1], "#", ""))
		}
	}
	return meta
}

// passCell parses a pass-time field under the configured interpretation.
func (e *Extractor) passCell(raw string) models.TimeCell {
	if raw == "" {
		return models.InvalidTimeCell(raw)
	}
	var (
		d   time.Duration
		err error
	)
	if e.opts.ClockPassTimes {
		d, err = timeparse.ParseClock(raw, e.opts.RaceStart)
	} else {
		d, err = timeparse.Parse(raw)
	}
	if err != nil {
		return models.InvalidTimeCell(raw)
	}
	return models.NewTimeCell(raw, d)
}

func elapsedCell(raw string) models.TimeCell {
	if raw == "" {
		return models.InvalidTimeCell(raw)
	}
	d, err := timeparse.Parse(raw)
	if err != nil {
		return models.InvalidTimeCell(raw)
	}
	return models.NewTimeCell(raw, d)
}

// flagOutOfOrder marks records whose cumulative time decreases relative to
// the previous valid row. Values are flagged in place, never re-sorted.
func flagOutOfOrder(records []models.SplitRecord) {
	var (
		prev     time.Duration
		havePrev bool
	)
	for i := range records {
		cum := records[i].Cumulative
		if !cum.Valid {
			continue
		}
		if havePrev && cum.Duration < prev {
			records[i].OutOfOrder = true
		}
		prev = cum.Duration
		havePrev = true
	}
}

func col(cols []string, i int) string {
	if i < len(cols) {
		return cols[i]
	}
	return ""
}
