package domain

import (
	"bytes"
	"encoding/json"
	"errors"
)

// Source sites a result can come from
const (
	SourceToonkor  = "toonkor"
	SourceMangadex = "mangadex"
)

// Manhwa is a single browsable search result.
// The endpoint's record is kept verbatim in Raw; the remaining fields are
// decoded best-effort for display and are empty when the record lacks them.
type Manhwa struct {
	Title      string `json:"title"`
	ToonkorID  string `json:"toonkor_id"`
	MangadexID string `json:"mangadex_id"`
	Thumbnail  string `json:"thumbnail"`
	Site       string `json:"source"`

	Raw json.RawMessage `json:"-"`
}

// errNotObject is returned when a result element is not a JSON object
var errNotObject = errors.New("result record is not a JSON object")

// UnmarshalJSON keeps the raw record and decodes the display fields.
// Fields with unexpected types are left empty rather than failing the record.
func (m *Manhwa) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return errNotObject
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return err
	}

	*m = Manhwa{
		Title:      stringField(fields, "title"),
		ToonkorID:  stringField(fields, "toonkor_id"),
		MangadexID: stringField(fields, "mangadex_id"),
		Thumbnail:  stringField(fields, "thumbnail"),
		Site:       stringField(fields, "source"),
		Raw:        append(json.RawMessage(nil), trimmed...),
	}
	return nil
}

// MarshalJSON returns the record exactly as the endpoint sent it
func (m Manhwa) MarshalJSON() ([]byte, error) {
	if len(m.Raw) > 0 {
		return m.Raw, nil
	}
	type plain Manhwa
	return json.Marshal(plain(m))
}

func stringField(fields map[string]json.RawMessage, name string) string {
	raw, ok := fields[name]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// GetID returns the identifier used to open the result
func (m Manhwa) GetID() string {
	if m.ToonkorID != "" {
		return m.ToonkorID
	}
	return m.MangadexID
}

// GetTitle returns the display title
func (m Manhwa) GetTitle() string {
	if m.Title == "" {
		return m.GetID()
	}
	return m.Title
}

// Source returns the site this result was found on ("" if unknown)
func (m Manhwa) Source() string {
	switch {
	case m.Site != "":
		return m.Site
	case m.ToonkorID != "":
		return SourceToonkor
	case m.MangadexID != "":
		return SourceMangadex
	default:
		return ""
	}
}
