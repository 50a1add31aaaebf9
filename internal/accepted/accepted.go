// Package accepted persists the matches users accepted in an append-only CSV file.
package accepted

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/mitchellh/mapstructure"
)

// Columns is the header of the accepted matches file.
var Columns = []string{"title", "company", "confidence", "reason", "Preferred_Location", "User_Skills", "User_Interests"}

// Record is a single accepted match together with the profile that produced it.
type Record struct {
	Title             string  `json:"title" mapstructure:"title" validate:"required"`
	Company           string  `json:"company" mapstructure:"company" validate:"required"`
	Confidence        float64 `json:"confidence" mapstructure:"confidence"`
	Reason            string  `json:"reason" mapstructure:"reason"`
	PreferredLocation string  `json:"Preferred_Location" mapstructure:"Preferred_Location"`
	UserSkills        string  `json:"User_Skills" mapstructure:"User_Skills"`
	UserInterests     string  `json:"User_Interests" mapstructure:"User_Interests"`
}

func (r Record) values() []string {
	return []string{
		r.Title,
		r.Company,
		formatConfidence(r.Confidence),
		r.Reason,
		r.PreferredLocation,
		r.UserSkills,
		r.UserInterests,
	}
}

// Store appends records to a CSV file. A header is written when the file is
// created or empty. Appends from one Store are serialized.
type Store struct {
	path string
	mu   sync.Mutex
}

func New(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Path() string { return s.path }

// Append writes the record as a single fully quoted CSV line.
func (s *Store) Append(r Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open accepted file: %w", err)
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return err
	}

	var b strings.Builder
	if stat.Size() == 0 {
		writeQuotedLine(&b, Columns)
	}
	writeQuotedLine(&b, r.values())

	if _, err := io.WriteString(file, b.String()); err != nil {
		return fmt.Errorf("write accepted record: %w", err)
	}

	return nil
}

// List reads every record of the file. A missing file yields no records.
func (s *Store) List() ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read accepted header: %w", err)
	}

	var records []Record
	for {
		values, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read accepted record: %w", err)
		}

		row := make(map[string]any, len(header))
		for idx, name := range header {
			row[name] = values[idx]
		}

		var record Record
		cfg := &mapstructure.DecoderConfig{
			Result:           &record,
			TagName:          "mapstructure",
			WeaklyTypedInput: true,
		}
		decoder, err := mapstructure.NewDecoder(cfg)
		if err != nil {
			return nil, err
		}
		if err := decoder.Decode(row); err != nil {
			return nil, fmt.Errorf("decode accepted record: %w", err)
		}
		records = append(records, record)
	}

	return records, nil
}

// writeQuotedLine quotes every field. encoding/csv only quotes fields that
// need it.
func writeQuotedLine(b *strings.Builder, fields []string) {
	for i, field := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(field, `"`, `""`))
		b.WriteByte('"')
	}
	b.WriteString("\r\n")
}

func formatConfidence(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
