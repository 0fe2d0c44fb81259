package importer

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerline-dev/ledgerline/internal/journal"
)

// CSV column layout for journal entry imports. Rows sharing a reference
// form one entry; rows must be contiguous per reference.
const (
	numFields      = 6
	colReference   = 0
	colDate        = 1
	colDescription = 2
	colAccount     = 3
	colDebit       = 4
	colCredit      = 5

	csvDateFormat = "2006-01-02"
)

// Result summarizes one import run.
type Result struct {
	Created  []string // references of created drafts
	Posted   []string // references posted (when posting is requested)
	RowsRead int
	Entries  int
}

// Importer turns journal CSV files into draft entries.
type Importer struct {
	journal *journal.Service
}

// New creates an Importer over the journal service.
func New(jrn *journal.Service) *Importer {
	return &Importer{journal: jrn}
}

// Parse reads a journal CSV and returns draft parameters, one per
// reference group. The header row is skipped.
func Parse(r io.Reader) ([]journal.CreateDraftParams, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading journal CSV: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	var entries []journal.CreateDraftParams
	var current *journal.CreateDraftParams
	for i, rec := range records[1:] {
		rowNum := i + 2
		ref := rec[colReference]
		if current == nil || current.Reference != ref {
			params, err := parseEntryRow(rec)
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", rowNum, err)
			}
			entries = append(entries, params)
			current = &entries[len(entries)-1]
		}
		line, err := parseLine(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rowNum, err)
		}
		current.Lines = append(current.Lines, line)
	}
	return entries, nil
}

func parseEntryRow(rec []string) (journal.CreateDraftParams, error) {
	date, err := time.Parse(csvDateFormat, rec[colDate])
	if err != nil {
		return journal.CreateDraftParams{}, fmt.Errorf("parsing date %q: %w", rec[colDate], err)
	}
	return journal.CreateDraftParams{
		Reference:   rec[colReference],
		Date:        date,
		Description: rec[colDescription],
	}, nil
}

func parseLine(rec []string) (journal.Line, error) {
	debit, err := parseAmount(rec[colDebit])
	if err != nil {
		return journal.Line{}, fmt.Errorf("parsing debit %q: %w", rec[colDebit], err)
	}
	credit, err := parseAmount(rec[colCredit])
	if err != nil {
		return journal.Line{}, fmt.Errorf("parsing credit %q: %w", rec[colCredit], err)
	}
	return journal.Line{
		AccountCode: rec[colAccount],
		Debit:       debit,
		Credit:      credit,
	}, nil
}

func parseAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

// Import parses the reader and creates a draft per entry. With post set,
// each draft is posted after creation. The run stops at the first failing
// entry; earlier entries stay created.
func (im *Importer) Import(ctx context.Context, r io.Reader, post bool) (*Result, error) {
	entries, err := Parse(r)
	if err != nil {
		return nil, err
	}

	res := &Result{Entries: len(entries)}
	for _, params := range entries {
		res.RowsRead += len(params.Lines)
		entry, err := im.journal.CreateDraft(ctx, params)
		if err != nil {
			return res, fmt.Errorf("entry %s: %w", params.Reference, err)
		}
		res.Created = append(res.Created, entry.Reference)
		if post {
			if _, err := im.journal.Post(ctx, entry.Reference); err != nil {
				return res, fmt.Errorf("posting %s: %w", entry.Reference, err)
			}
			res.Posted = append(res.Posted, entry.Reference)
		}
	}
	return res, nil
}
