package notes

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/eventdates/internal/dates"
	"github.com/fyrsmithlabs/eventdates/internal/extraction"
)

// Patient is one patient's notes in file order.
type Patient struct {
	MRN   string                  `json:"mrn"`
	Notes []extraction.ClinicNote `json:"notes"`
}

// ReadNotes reads lines of the form MRN, date, description and optional
// text, separated by tabs. Patients are returned in order of first
// appearance; a note's date may be YYYY, YYYY-MM or YYYY-MM-DD.
func (l *Loader) ReadNotes(ctx context.Context, r io.Reader) ([]Patient, error) {
	var patients []Patient
	index := make(map[string]int)

	err := eachLine(r, func(lineNo int, line string, fields []string) {
		if len(fields) != 3 && len(fields) != 4 {
			l.skip(ctx, "notes", lineNo, line, fmt.Sprintf("want 3 or 4 fields, got %d", len(fields)))
			return
		}

		note := extraction.ClinicNote{Desc: fields[2]}
		if len(fields) == 4 {
			note.Text = normalize(fields[3])
		}
		if d, err := dates.ParseISO(fields[1]); err == nil {
			note.Date = d
		} else {
			l.logger.Debug(ctx, "note date not understood",
				zap.Int("line", lineNo),
				zap.String("date", fields[1]),
			)
		}

		mrn := fields[0]
		i, ok := index[mrn]
		if !ok {
			i = len(patients)
			index[mrn] = i
			patients = append(patients, Patient{MRN: mrn})
		}
		patients[i].Notes = append(patients[i].Notes, note)
	})
	if err != nil {
		return nil, err
	}
	return patients, nil
}

// LoadNotes reads a notes file.
func (l *Loader) LoadNotes(ctx context.Context, path string) ([]Patient, error) {
	return openWith(path, func(r io.Reader) ([]Patient, error) {
		return l.ReadNotes(ctx, r)
	})
}
