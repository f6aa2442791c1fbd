// Package catalog reads and decodes the static sentiment artifact and owns the
// compiled-in entity metadata table.
package catalog

import (
	"fmt"
	"math"

	"github.com/roshda/galaxy-o-meter/internal/domain"
	"github.com/tidwall/gjson"
)

// Field names of one entity object in the artifact. Case-sensitive.
const (
	fieldAverageNegative = "AverageNegative"
	fieldAverageNeutral  = "AverageNeutral"
	fieldAveragePositive = "AveragePositive"
	fieldCountNeutral    = "CountNeutral"
	fieldCountPositive   = "CountPositive"
	fieldCountNegative   = "CountNegative"
)

var recordFields = []string{
	fieldAverageNegative,
	fieldAverageNeutral,
	fieldAveragePositive,
	fieldCountNeutral,
	fieldCountPositive,
	fieldCountNegative,
}

// Decode parses the artifact into a Catalog, keeping the document's key order.
// Every failure wraps domain.ErrMalformedCatalog.
func Decode(data []byte) (*domain.Catalog, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: invalid JSON", domain.ErrMalformedCatalog)
	}

	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, fmt.Errorf("%w: top level must be an object, got %s", domain.ErrMalformedCatalog, root.Type)
	}

	var (
		entries []domain.CatalogEntry
		seen    = make(map[string]struct{})
		decErr  error
	)
	root.ForEach(func(key, value gjson.Result) bool {
		name := key.String()
		if _, dup := seen[name]; dup {
			decErr = fmt.Errorf("%w: duplicate entity %q", domain.ErrMalformedCatalog, name)
			return false
		}
		seen[name] = struct{}{}

		record, err := decodeRecord(value)
		if err != nil {
			decErr = fmt.Errorf("%w: entity %q: %v", domain.ErrMalformedCatalog, name, err)
			return false
		}
		entries = append(entries, domain.CatalogEntry{Name: name, Record: record})
		return true
	})
	if decErr != nil {
		return nil, decErr
	}

	return domain.NewCatalog(entries), nil
}

func decodeRecord(value gjson.Result) (domain.SentimentRecord, error) {
	if !value.IsObject() {
		return domain.SentimentRecord{}, fmt.Errorf("expected object, got %s", value.Type)
	}

	fields := make(map[string]gjson.Result, len(recordFields))
	var unknown string
	value.ForEach(func(k, v gjson.Result) bool {
		if !isRecordField(k.String()) {
			unknown = k.String()
			return false
		}
		fields[k.String()] = v
		return true
	})
	if unknown != "" {
		return domain.SentimentRecord{}, fmt.Errorf("unexpected field %q", unknown)
	}

	var (
		record domain.SentimentRecord
		err    error
	)
	if record.AverageNegative, err = average(fields, fieldAverageNegative); err != nil {
		return domain.SentimentRecord{}, err
	}
	if record.AverageNeutral, err = average(fields, fieldAverageNeutral); err != nil {
		return domain.SentimentRecord{}, err
	}
	if record.AveragePositive, err = average(fields, fieldAveragePositive); err != nil {
		return domain.SentimentRecord{}, err
	}
	if record.CountNeutral, err = count(fields, fieldCountNeutral); err != nil {
		return domain.SentimentRecord{}, err
	}
	if record.CountPositive, err = count(fields, fieldCountPositive); err != nil {
		return domain.SentimentRecord{}, err
	}
	if record.CountNegative, err = count(fields, fieldCountNegative); err != nil {
		return domain.SentimentRecord{}, err
	}

	return record, nil
}

func isRecordField(name string) bool {
	for _, f := range recordFields {
		if f == name {
			return true
		}
	}
	return false
}

func number(fields map[string]gjson.Result, name string) (float64, error) {
	v, ok := fields[name]
	if !ok {
		return 0, fmt.Errorf("missing field %q", name)
	}
	if v.Type != gjson.Number {
		return 0, fmt.Errorf("field %q must be a number, got %s", name, v.Type)
	}
	return v.Num, nil
}

func average(fields map[string]gjson.Result, name string) (float64, error) {
	return number(fields, name)
}

func count(fields map[string]gjson.Result, name string) (int, error) {
	n, err := number(fields, name)
	if err != nil {
		return 0, err
	}
	if n < 0 || n != math.Trunc(n) || n > math.MaxInt32 {
		return 0, fmt.Errorf("field %q must be a non-negative integer, got %v", name, n)
	}
	return int(n), nil
}
