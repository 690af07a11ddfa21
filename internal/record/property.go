// Package record models the semi-structured records returned by the data
// source: Notion pages whose properties carry one of several value shapes.
package record

import (
	"encoding/json"

	"github.com/tidwall/gjson"
)

// Kind identifies which shape a property value carries.
type Kind int

const (
	KindUnknown Kind = iota
	KindSelect
	KindMultiSelect
	KindCheckbox
	KindTitle
	KindRichText
	KindDate
)

// String returns the Notion name of the shape.
func (k Kind) String() string {
	switch k {
	case KindSelect:
		return "select"
	case KindMultiSelect:
		return "multi_select"
	case KindCheckbox:
		return "checkbox"
	case KindTitle:
		return "title"
	case KindRichText:
		return "rich_text"
	case KindDate:
		return "date"
	default:
		return "unknown"
	}
}

// probeOrder is the order in which shapes are looked for when a property
// carries no usable "type" hint.
//
//nolint:gochecknoglobals // fixed lookup order
var probeOrder = []Kind{KindSelect, KindMultiSelect, KindCheckbox, KindTitle, KindRichText, KindDate}

// PropertyValue is a tagged union over the property shapes the dashboard
// understands. Only the fields matching Kind are meaningful.
type PropertyValue struct {
	Kind    Kind
	Names   []string // select (exactly one) or multi_select labels
	Checked bool
	Text    []string // title or rich_text plain_text segments
	Start   string   // date start, verbatim
}

// Select builds a single-choice value.
func Select(name string) PropertyValue {
	return PropertyValue{Kind: KindSelect, Names: []string{name}}
}

// MultiSelect builds a multi-choice value.
func MultiSelect(names ...string) PropertyValue {
	return PropertyValue{Kind: KindMultiSelect, Names: names}
}

// Checkbox builds a boolean value.
func Checkbox(checked bool) PropertyValue {
	return PropertyValue{Kind: KindCheckbox, Checked: checked}
}

// Title builds a title value from text segments.
func Title(segments ...string) PropertyValue {
	return PropertyValue{Kind: KindTitle, Text: segments}
}

// RichText builds a rich_text value from text segments.
func RichText(segments ...string) PropertyValue {
	return PropertyValue{Kind: KindRichText, Text: segments}
}

// Date builds a date value.
func Date(start string) PropertyValue {
	return PropertyValue{Kind: KindDate, Start: start}
}

// ParseProperty decodes one property value. It never fails: shapes it does
// not recognize, and null shapes, yield KindUnknown.
func ParseProperty(raw gjson.Result) PropertyValue {
	if !raw.IsObject() {
		return PropertyValue{}
	}

	if hint := raw.Get("type").String(); hint != "" {
		for _, k := range probeOrder {
			if k.String() == hint {
				if v, ok := parseShape(raw, k); ok {
					return v
				}
				break
			}
		}
	}

	for _, k := range probeOrder {
		if v, ok := parseShape(raw, k); ok {
			return v
		}
	}
	return PropertyValue{}
}

func parseShape(raw gjson.Result, k Kind) (PropertyValue, bool) {
	field := raw.Get(k.String())
	switch k {
	case KindSelect:
		if !field.IsObject() {
			return PropertyValue{}, false
		}
		return Select(field.Get("name").String()), true
	case KindMultiSelect:
		if !field.IsArray() {
			return PropertyValue{}, false
		}
		return MultiSelect(collect(field, "name")...), true
	case KindCheckbox:
		if !field.IsBool() {
			return PropertyValue{}, false
		}
		return Checkbox(field.Bool()), true
	case KindTitle, KindRichText:
		if !field.IsArray() {
			return PropertyValue{}, false
		}
		return PropertyValue{Kind: k, Text: collect(field, "plain_text")}, true
	case KindDate:
		if !field.IsObject() {
			return PropertyValue{}, false
		}
		return Date(field.Get("start").String()), true
	default:
		return PropertyValue{}, false
	}
}

// collect collects the given key from each element of a JSON array.
func collect(arr gjson.Result, key string) []string {
	out := make([]string, 0, len(arr.Array()))
	for _, item := range arr.Array() {
		out = append(out, item.Get(key).String())
	}
	return out
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *PropertyValue) UnmarshalJSON(data []byte) error {
	*v = ParseProperty(gjson.ParseBytes(data))
	return nil
}

type nameJSON struct {
	Name string `json:"name"`
}

type textJSON struct {
	PlainText string `json:"plain_text"`
}

type dateJSON struct {
	Start string `json:"start"`
}

// MarshalJSON encodes the value in the Notion property shape.
func (v PropertyValue) MarshalJSON() ([]byte, error) {
	out := map[string]any{"type": v.Kind.String()}
	switch v.Kind {
	case KindSelect:
		name := ""
		if len(v.Names) > 0 {
			name = v.Names[0]
		}
		out["select"] = nameJSON{Name: name}
	case KindMultiSelect:
		names := make([]nameJSON, len(v.Names))
		for i, n := range v.Names {
			names[i] = nameJSON{Name: n}
		}
		out["multi_select"] = names
	case KindCheckbox:
		out["checkbox"] = v.Checked
	case KindTitle, KindRichText:
		segments := make([]textJSON, len(v.Text))
		for i, s := range v.Text {
			segments[i] = textJSON{PlainText: s}
		}
		out[v.Kind.String()] = segments
	case KindDate:
		out["date"] = dateJSON{Start: v.Start}
	case KindUnknown:
	}
	return json.Marshal(out)
}
