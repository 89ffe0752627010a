package analysis

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/flumeio/flume/internal/pipeline"
)

// ErrMissingColumn is returned when the CSV header lacks a required
// column.
var ErrMissingColumn = errors.New("analysis: missing required column")

var requiredColumns = []string{
	"transaction_id", "date", "product_name", "category",
	"quantity", "unit_price", "region", "salesperson",
}

type columnIndex map[string]int

func indexHeader(header []string) (columnIndex, error) {
	idx := make(columnIndex, len(header))
	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}
	for _, col := range requiredColumns {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
	}
	return idx, nil
}

func parseRow(idx columnIndex, row []string, line int) (Record, error) {
	field := func(col string) string {
		return strings.TrimSpace(row[idx[col]])
	}

	date, err := time.Parse(DateFormat, field("date"))
	if err != nil {
		return Record{}, fmt.Errorf("analysis: row %d: bad date: %w", line, err)
	}
	quantity, err := strconv.Atoi(field("quantity"))
	if err != nil {
		return Record{}, fmt.Errorf("analysis: row %d: bad quantity: %w", line, err)
	}
	unitPrice, err := strconv.ParseFloat(field("unit_price"), 64)
	if err != nil {
		return Record{}, fmt.Errorf("analysis: row %d: bad unit_price: %w", line, err)
	}

	return Record{
		TransactionID: field("transaction_id"),
		Date:          date,
		Product:       field("product_name"),
		Category:      field("category"),
		Quantity:      quantity,
		UnitPrice:     unitPrice,
		Region:        field("region"),
		Salesperson:   field("salesperson"),
	}, nil
}

// LoadReader parses all records from r.
func LoadReader(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("analysis: failed to read header: %w", err)
	}
	idx, err := indexHeader(header)
	if err != nil {
		return nil, err
	}

	var records []Record
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return nil, fmt.Errorf("analysis: row %d: %w", line, err)
		}
		rec, err := parseRow(idx, row, line)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
}

// LoadFile parses all records from the CSV file at path.
func LoadFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("analysis: %w", err)
	}
	defer f.Close()
	return LoadReader(f)
}

// RecordSource streams records one at a time, implementing
// pipeline.Source[Record]. After Next returns false, Err distinguishes
// clean exhaustion from a read or parse fault.
type RecordSource struct {
	cr     *csv.Reader
	idx    columnIndex
	closer io.Closer
	line   int
	err    error
	done   bool
}

var _ pipeline.Source[Record] = (*RecordSource)(nil)

// StreamReader creates a RecordSource over r, consuming the header
// immediately.
func StreamReader(r io.Reader) (*RecordSource, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("analysis: failed to read header: %w", err)
	}
	idx, err := indexHeader(header)
	if err != nil {
		return nil, err
	}
	return &RecordSource{cr: cr, idx: idx, line: 1}, nil
}

// StreamFile creates a RecordSource over the file at path. The file is
// closed when the source is exhausted or faults.
func StreamFile(path string) (*RecordSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("analysis: %w", err)
	}
	src, err := StreamReader(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	src.closer = f
	return src, nil
}

// Next returns the next record. It returns false on exhaustion or
// fault; check Err afterwards.
func (s *RecordSource) Next() (Record, bool) {
	if s.done {
		return Record{}, false
	}
	s.line++
	row, err := s.cr.Read()
	if err == io.EOF {
		s.finish(nil)
		return Record{}, false
	}
	if err != nil {
		s.finish(fmt.Errorf("analysis: row %d: %w", s.line, err))
		return Record{}, false
	}
	rec, err := parseRow(s.idx, row, s.line)
	if err != nil {
		s.finish(err)
		return Record{}, false
	}
	return rec, true
}

// Err returns the fault that ended the stream, if any.
func (s *RecordSource) Err() error {
	return s.err
}

func (s *RecordSource) finish(err error) {
	s.done = true
	s.err = err
	if s.closer != nil {
		s.closer.Close()
		s.closer = nil
	}
}
