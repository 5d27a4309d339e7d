// Package codec converts record collections to and from their stored form:
// a JSON array of flat string-keyed field maps.
package codec

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-viper/mapstructure/v2"

	"portal-sync-service/internal/domain"
)

// idField must be present in every stored field map.
const idField = "id"

// Codec encodes and decodes collections of T. Decoding maps each field map
// onto T through its `field` struct tags, so Fields and the tags must agree.
type Codec[T domain.Record] struct{}

// New returns a codec for T.
func New[T domain.Record]() Codec[T] {
	return Codec[T]{}
}

// Encode serializes items, preserving order.
func (Codec[T]) Encode(items []T) (string, error) {
	rows := make([]map[string]string, len(items))
	for i, item := range items {
		rows[i] = item.Fields()
	}

	data, err := json.Marshal(rows)
	if err != nil {
		return "", fmt.Errorf("encoding collection: %w", err)
	}

	return string(data), nil
}

// Decode parses data produced by Encode. Any malformed row fails the whole
// call; partial collections are never returned.
func (Codec[T]) Decode(data string) ([]T, error) {
	var rows []map[string]string
	if err := json.Unmarshal([]byte(data), &rows); err != nil {
		return nil, fmt.Errorf("%w: parsing collection: %w", domain.ErrDecode, err)
	}

	items := make([]T, 0, len(rows))
	for i, row := range rows {
		item, err := decodeRow[T](row)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %w", domain.ErrDecode, i, err)
		}
		items = append(items, item)
	}

	return items, nil
}

func decodeRow[T domain.Record](row map[string]string) (T, error) {
	var out T

	if row == nil {
		return out, errors.New("null row")
	}
	if _, ok := row[idField]; !ok {
		return out, fmt.Errorf("missing %q field", idField)
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.StringToTimeHookFunc(domain.TimeLayout),
		Result:     &out,
		TagName:    "field",
	})
	if err != nil {
		return out, fmt.Errorf("creating decoder: %w", err)
	}

	if err := decoder.Decode(row); err != nil {
		return out, err
	}

	return out, nil
}
