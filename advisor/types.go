package advisor

import (
	"time"

	"github.com/spf13/cast"
	"github.com/tidwall/gjson"
)

// DefaultModel is echoed back when a request names no model.
const DefaultModel = "gpt-4o-mini"

// Turn is one prior exchange of a conversation. Its shape is not validated.
type Turn map[string]any

// Role returns the turn's "role" field, "user" when absent.
func (t Turn) Role() string {
	if r := cast.ToString(t["role"]); r != "" {
		return r
	}
	return "user"
}

// Content returns the turn's "content" field as text.
func (t Turn) Content() string {
	return cast.ToString(t["content"])
}

// FileDescriptor describes one uploaded attachment.
type FileDescriptor struct {
	Name        string `json:"name"`
	Size        int64  `json:"size"`
	ContentType string `json:"type"`
}

// VoyageRecord is a single scheduled trip. Empty fields are rendered with
// placeholders by SummarizeSchedule.
type VoyageRecord struct {
	ID     string `json:"id,omitempty"`
	Cargo  string `json:"cargo,omitempty"`
	ETD    string `json:"etd,omitempty"`
	ETA    string `json:"eta,omitempty"`
	Status string `json:"status,omitempty"`
}

// UnmarshalJSON accepts any scalar for each field; numbers such as
// {"id": 69} keep their literal text and null counts as missing.
func (v *VoyageRecord) UnmarshalJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return ErrInvalidBriefing
	}
	res := gjson.ParseBytes(data)
	if !res.IsObject() {
		return ErrInvalidBriefing
	}
	*v = voyageFromResult(res)
	return nil
}

func voyageFromResult(res gjson.Result) VoyageRecord {
	return VoyageRecord{
		ID:     scalar(res.Get("id")),
		Cargo:  scalar(res.Get("cargo")),
		ETD:    scalar(res.Get("etd")),
		ETA:    scalar(res.Get("eta")),
		Status: scalar(res.Get("status")),
	}
}

// scalar returns the literal text of a JSON value, "" for null or absent.
func scalar(r gjson.Result) string {
	switch r.Type {
	case gjson.Null:
		return ""
	case gjson.String:
		return r.Str
	default:
		return r.Raw
	}
}

// WeatherWindow is a forecast interval. Only its presence is consumed.
type WeatherWindow struct {
	Raw string
}

func (w *WeatherWindow) UnmarshalJSON(data []byte) error {
	w.Raw = string(data)
	return nil
}

func (w WeatherWindow) MarshalJSON() ([]byte, error) {
	if w.Raw == "" {
		return []byte("null"), nil
	}
	return []byte(w.Raw), nil
}

// Briefing is the input of ComposeBriefing. Empty fields take the
// defaults documented on WithDefaults.
type Briefing struct {
	CurrentTime    string
	VesselName     string
	VesselStatus   string
	CurrentVoyage  string
	Schedule       []VoyageRecord
	WeatherWindows []WeatherWindow
	Model          string
	// Format is the requested rendering ("html" or empty), not part of
	// the composed text.
	Format string
}

// Query is one assistant request after transport decoding.
type Query struct {
	Prompt  string
	History []Turn
	Files   []FileDescriptor
	Model   string
}

// Reply is the assistant envelope.
type Reply struct {
	Answer         string
	Model          string
	Intent         Intent
	FilesProcessed int
	Timestamp      time.Time
}
