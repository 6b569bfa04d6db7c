package services

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Loose holds a JSON scalar that browsers send as a string, a number or null.
type Loose struct {
	Value string
	Set   bool
}

// LooseOf wraps a string value.
func LooseOf(v string) Loose {
	return Loose{Value: v, Set: true}
}

// LooseInt wraps an integer value.
func LooseInt(v int) Loose {
	return Loose{Value: strconv.Itoa(v), Set: true}
}

func (l *Loose) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	switch {
	case raw == "null":
		*l = Loose{}
	case strings.HasPrefix(raw, `"`):
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*l = Loose{Value: s, Set: true}
	case strings.HasPrefix(raw, "{"), strings.HasPrefix(raw, "["), raw == "true", raw == "false":
		return fmt.Errorf("expected a string or a number, got %s", raw)
	default:
		*l = Loose{Value: raw, Set: true}
	}
	return nil
}

func (l Loose) MarshalJSON() ([]byte, error) {
	if !l.Set {
		return []byte("null"), nil
	}
	return json.Marshal(l.Value)
}

// Empty reports an absent, null or blank value.
func (l Loose) Empty() bool {
	return !l.Set || strings.TrimSpace(l.Value) == ""
}

// Int parses the value as a base-10 integer. Whole-number floats such as
// 30.0 are accepted.
func (l Loose) Int() (int, error) {
	raw := strings.TrimSpace(l.Value)
	if n, err := strconv.Atoi(raw); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, fmt.Errorf("%s is not a whole number", raw)
	}
	return int(f), nil
}

// ID parses the value as a primary key.
func (l Loose) ID() (uint, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(l.Value), 10, 0)
	if err != nil {
		return 0, err
	}
	return uint(n), nil
}

// IncidentPayload is the "shooting" object posted by the roster editor.
type IncidentPayload struct {
	ID          Loose    `json:"id"`
	Name        string   `json:"name"`
	Date        string   `json:"date"`
	Age         Loose    `json:"age"`
	State       string   `json:"state"`
	Race        string   `json:"race"`
	Gender      string   `json:"gender"`
	City        string   `json:"city"`
	Department  string   `json:"department"`
	Description string   `json:"description"`
	VideoURL    string   `json:"video_url"`
	Sources     []string `json:"sources"`
	Tags        []string `json:"tags"`
}

// BodycamPayload is the "bodycam" object posted by the bodycam editor.
type BodycamPayload struct {
	ID          Loose    `json:"id"`
	Title       string   `json:"title"`
	Video       string   `json:"video"`
	Description string   `json:"description"`
	Department  string   `json:"department"`
	State       string   `json:"state"`
	City        string   `json:"city"`
	Date        string   `json:"date"`
	Tags        []string `json:"tags"`
	Shooting    Loose    `json:"shooting"`
}

// DecodeIncidentPayload parses the JSON document posted for an incident.
func DecodeIncidentPayload(data []byte) (IncidentPayload, error) {
	var p IncidentPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return IncidentPayload{}, err
	}
	return p, nil
}

// DecodeBodycamPayload parses the JSON document posted for a bodycam.
func DecodeBodycamPayload(data []byte) (BodycamPayload, error) {
	var p BodycamPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return BodycamPayload{}, err
	}
	return p, nil
}

// TipPayload is the public tip form.
type TipPayload struct {
	Name        string `json:"name"`
	Date        string `json:"date"`
	City        string `json:"city"`
	State       string `json:"state"`
	Description string `json:"description"`
	Link        string `json:"link"`
	Email       string `json:"email"`
}

// FeedbackPayload is the public feedback form.
type FeedbackPayload struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// PostPayload is the blog post document posted by editors.
type PostPayload struct {
	Title       string   `json:"title"`
	Summary     string   `json:"summary"`
	Content     string   `json:"content"`
	Authors     string   `json:"authors"`
	CoverImage  string   `json:"cover_image"`
	PublishDate string   `json:"publish_date"`
	Tags        []string `json:"tags"`
}

// DecodePostPayload parses the JSON document posted for a blog post.
func DecodePostPayload(data []byte) (PostPayload, error) {
	var p PostPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return PostPayload{}, err
	}
	return p, nil
}
