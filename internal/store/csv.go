package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/sadopc/pmdesk/internal/apperr"
)

// File names of the CSV tables inside the data directory.
const (
	ProjectsFile      = "projects.csv"
	StaffFile         = "staff.csv"
	TasksFile         = "tasks.csv"
	WeeklyReportsFile = "weekly_reports.csv"
	FinalReportsFile  = "final_reports.csv"
)

// CSVStore keeps one delimited text table per entity kind. Every mutation
// reads the whole table, changes it in memory and rewrites the file.
type CSVStore struct {
	dir string
	mu  sync.Mutex
}

// NewCSV returns a store rooted at dir, creating the directory if needed.
func NewCSV(dir string) (*CSVStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &CSVStore{dir: dir}, nil
}

func (s *CSVStore) Close() error { return nil }

// Dir returns the data directory.
func (s *CSVStore) Dir() string { return s.dir }

// readTable returns the rows of name. A missing file is an empty table.
func (s *CSVStore) readTable(name string) ([]Row, error) {
	f, err := os.Open(filepath.Join(s.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	header := records[0]
	if len(header) > 0 {
		// Spreadsheet tools like to prepend a UTF-8 BOM.
		header[0] = trimBOM(header[0])
	}
	rows := make([]Row, 0, len(records)-1)
	for _, rec := range records[1:] {
		if len(rec) == 1 && rec[0] == "" {
			continue
		}
		rows = append(rows, RowFrom(header, rec))
	}
	return rows, nil
}

// writeTable replaces name with header plus records via a temp file rename.
func (s *CSVStore) writeTable(name string, header []string, records [][]string) error {
	path := filepath.Join(s.dir, name)
	tmp, err := os.CreateTemp(s.dir, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", name, err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(header); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s header: %w", name, err)
	}
	if err := w.WriteAll(records); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace %s: %w", name, err)
	}
	return nil
}

func trimBOM(s string) string {
	const bom = "\ufeff"
	if len(s) >= len(bom) && s[:len(bom)] == bom {
		return s[len(bom):]
	}
	return s
}

// csvTable binds a CSV file to one record type.
type csvTable[T any] struct {
	file     string
	resource string
	header   []string
	decode   func(Row) (T, error)
	encode   func(T) []string
	id       func(T) string
}

var (
	csvProjects = csvTable[Project]{
		file: ProjectsFile, resource: "project", header: ProjectHeader,
		decode: ProjectFromRecord, encode: Project.Record, id: func(p Project) string { return p.ID },
	}
	csvStaff = csvTable[Staff]{
		file: StaffFile, resource: "staff", header: StaffHeader,
		decode: StaffFromRecord, encode: Staff.Record, id: func(s Staff) string { return s.ID },
	}
	csvTasks = csvTable[Task]{
		file: TasksFile, resource: "task", header: TaskHeader,
		decode: TaskFromRecord, encode: Task.Record, id: func(t Task) string { return t.ID },
	}
	csvWeekly = csvTable[WeeklyReport]{
		file: WeeklyReportsFile, resource: "weekly report", header: WeeklyReportHeader,
		decode: WeeklyReportFromRecord, encode: WeeklyReport.Record, id: func(r WeeklyReport) string { return r.ID },
	}
	csvFinal = csvTable[FinalReport]{
		file: FinalReportsFile, resource: "final report", header: FinalReportHeader,
		decode: FinalReportFromRecord, encode: FinalReport.Record, id: func(r FinalReport) string { return r.ID },
	}
)

func loadAll[T any](s *CSVStore, t csvTable[T]) ([]T, error) {
	rows, err := s.readTable(t.file)
	if err != nil {
		return nil, err
	}
	return decodeRows(rows, t.decode)
}

func saveAll[T any](s *CSVStore, t csvTable[T], items []T) error {
	records := make([][]string, len(items))
	for i, it := range items {
		records[i] = t.encode(it)
	}
	return s.writeTable(t.file, t.header, records)
}

func find[T any](s *CSVStore, t csvTable[T], id string) (*T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := loadAll(s, t)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if t.id(items[i]) == id {
			return &items[i], nil
		}
	}
	return nil, fmt.Errorf("get %s: %w", t.resource, apperr.NotFound(t.resource, id))
}

// put replaces the record with the same id or appends it. When insertOnly is
// set an existing id is rejected.
func put[T any](s *CSVStore, t csvTable[T], item T, insertOnly bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := loadAll(s, t)
	if err != nil {
		return err
	}
	id := t.id(item)
	replaced := false
	for i := range items {
		if t.id(items[i]) == id {
			if insertOnly {
				return apperr.AlreadyExists(t.resource, id)
			}
			items[i] = item
			replaced = true
			break
		}
	}
	if !replaced {
		items = append(items, item)
	}
	return saveAll(s, t, items)
}

// remove deletes every record for which drop returns true and reports how many went.
func remove[T any](s *CSVStore, t csvTable[T], drop func(T) bool) (int, error) {
	items, err := loadAll(s, t)
	if err != nil {
		return 0, err
	}
	kept := items[:0]
	for _, it := range items {
		if !drop(it) {
			kept = append(kept, it)
		}
	}
	removed := len(items) - len(kept)
	if removed == 0 {
		return 0, nil
	}
	return removed, saveAll(s, t, kept)
}

func removeByID[T any](s *CSVStore, t csvTable[T], id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, err := remove(s, t, func(it T) bool { return t.id(it) == id })
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("delete %s: %w", t.resource, apperr.NotFound(t.resource, id))
	}
	return nil
}

func filter[T any](items []T, keep func(T) bool) []T {
	var out []T
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}
