package record

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
)

// RawRecord is one page as delivered by the data source. Its properties are
// untrusted and vary by source database.
type RawRecord struct {
	ID         string                   `json:"id"`
	URL        string                   `json:"url"`
	Title      string                   `json:"title,omitempty"` // pre-resolved by the producer, informational
	Error      string                   `json:"error,omitempty"` // set when the producer failed to query a database
	Properties map[string]PropertyValue `json:"properties"`
}

// ParseRecord decodes one record. Missing or mistyped fields degrade to their
// zero values.
func ParseRecord(raw gjson.Result) RawRecord {
	r := RawRecord{
		ID:         raw.Get("id").String(),
		URL:        raw.Get("url").String(),
		Title:      raw.Get("title").String(),
		Error:      raw.Get("error").String(),
		Properties: make(map[string]PropertyValue),
	}
	if props := raw.Get("properties"); props.IsObject() {
		props.ForEach(func(key, value gjson.Result) bool {
			r.Properties[key.String()] = ParseProperty(value)
			return true
		})
	}
	return r
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *RawRecord) UnmarshalJSON(data []byte) error {
	*r = ParseRecord(gjson.ParseBytes(data))
	return nil
}

// Batch is the list of records returned for one source database key.
type Batch struct {
	Key     string
	Records []RawRecord
}

// DecodePayload decodes the data source response, a JSON object mapping
// database keys to record arrays. Key order is preserved.
func DecodePayload(data []byte) ([]Batch, error) {
	if !gjson.ValidBytes(data) {
		return nil, PayloadError{Reason: "invalid JSON"}
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, PayloadError{Reason: "expected a JSON object of database keys"}
	}

	var batches []Batch
	var err error
	root.ForEach(func(key, value gjson.Result) bool {
		if !value.IsArray() {
			err = PayloadError{Reason: fmt.Sprintf("database %q: expected an array of records", key.String())}
			return false
		}
		b := Batch{Key: key.String()}
		for _, item := range value.Array() {
			b.Records = append(b.Records, ParseRecord(item))
		}
		batches = append(batches, b)
		return true
	})
	if err != nil {
		return nil, err
	}
	return batches, nil
}

// EncodePayload encodes batches as a JSON object in batch order.
func EncodePayload(batches []Batch) ([]byte, error) {
	buf := []byte{'{'}
	for i, b := range batches {
		if i > 0 {
			buf = append(buf, ',')
		}
		key, err := json.Marshal(b.Key)
		if err != nil {
			return nil, err
		}
		records := b.Records
		if records == nil {
			records = []RawRecord{}
		}
		value, err := json.Marshal(records)
		if err != nil {
			return nil, err
		}
		buf = append(buf, key...)
		buf = append(buf, ':')
		buf = append(buf, value...)
	}
	return append(buf, '}'), nil
}

// PayloadError indicates the data source response did not have the expected
// top-level shape.
type PayloadError struct {
	Reason string
}

func (e PayloadError) Error() string {
	return "malformed data source payload: " + e.Reason
}
