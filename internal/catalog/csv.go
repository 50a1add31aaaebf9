package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mitchellh/mapstructure"
)

const utf8BOM = "\ufeff"

// Decode parses a CSV catalog. The first record is the header; columns are
// matched by name so their order does not matter and unknown columns are
// ignored.
func Decode(r io.Reader) ([]Listing, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("catalog is empty")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for idx, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, utf8BOM))
		columns[name] = idx
	}

	var missing []string
	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}

	var listings []Listing
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read record: %w", err)
		}

		row := make(map[string]any, len(columns))
		for name, idx := range columns {
			row[name] = record[idx]
		}

		listing, err := decodeRow(row)
		if err != nil {
			return nil, fmt.Errorf("decode line %d: %w", line, err)
		}
		listings = append(listings, listing)
	}

	return listings, nil
}

func decodeRow(row map[string]any) (Listing, error) {
	var listing Listing

	cfg := &mapstructure.DecoderConfig{
		Metadata:         nil,
		Result:           &listing,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return Listing{}, err
	}

	if err := decoder.Decode(row); err != nil {
		return Listing{}, err
	}

	return listing, nil
}
