package analysis

import (
	"errors"
	"log/slog"

	"github.com/KaramelBytes/dataverify/internal/table"
)

// Service runs profiles and sort checks against tables handed in per call.
// It keeps no table state, so one Service can serve many tables.
type Service struct {
	log *slog.Logger
}

// NewService returns a Service that logs at debug level to logger
// (slog.Default when nil).
func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{log: logger}
}

// ProfileAll profiles every column in table order. Loader warnings carried by
// the table are copied into the report.
func (s *Service) ProfileAll(t *table.Table) *Report {
	rep := &Report{Name: t.Name(), Rows: t.Rows(), Warnings: t.Warnings()}
	cols := t.Columns()
	rep.Columns = make([]ColumnProfile, 0, len(cols))
	for _, name := range cols {
		p, err := ProfileColumn(t, name)
		if err != nil {
			// names come from the table itself
			s.log.Error("profile column", "column", name, "error", err)
			continue
		}
		s.log.Debug("column profiled",
			"column", name,
			"type", p.Type.String(),
			"nulls", p.NullCount,
			"distinct", p.DistinctCount,
		)
		rep.Columns = append(rep.Columns, *p)
	}
	return rep
}

// ProfileColumn profiles a single column.
func (s *Service) ProfileColumn(t *table.Table, name string) (*ColumnProfile, error) {
	return ProfileColumn(t, name)
}

// CheckSorting classifies the order of one column.
func (s *Service) CheckSorting(t *table.Table, name string) (*SortednessResult, error) {
	res, err := CheckSorting(t, name)
	if err != nil {
		s.log.Debug("sort check failed", "column", name, "error", err)
		return nil, err
	}
	s.log.Debug("sort checked", "column", name, "status", res.Status.String())
	return res, nil
}

// CheckColumns checks several columns and returns the results it could
// compute. Unknown columns do not stop the others; their errors are joined.
func (s *Service) CheckColumns(t *table.Table, names []string) ([]SortednessResult, error) {
	var out []SortednessResult
	var errs []error
	for _, name := range names {
		res, err := s.CheckSorting(t, name)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out = append(out, *res)
	}
	return out, errors.Join(errs...)
}
