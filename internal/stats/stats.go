// Package stats reads, merges and writes the statistics record stored next to every
// result graph.
package stats

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"os"
)

// Field names as written by the hashing harnesses.
const (
	TimePerPictureMatching     = "TIME_PER_PICTURE_MATCHING"
	TimePerPicturePreComputing = "TIME_PER_PICTURE_PRE_COMPUTING"
	TimeToLoadPictures         = "TIME_TO_LOAD_PICTURES"
	NbPicture                  = "NB_PICTURE"
	TruePositiveRate           = "TRUE_POSITIVE_RATE"
)

// Stats is the statistics record of a result set. Every known field is optional; a nil
// pointer means the field was absent from the file. Unknown fields are kept verbatim so
// rewriting a file never loses data.
type Stats struct {
	TimePerPictureMatching     *float64
	TimePerPicturePreComputing *float64
	TimeToLoadPictures         *float64
	NbPicture                  *int
	TruePositiveRate           *float64

	extra map[string]json.RawMessage
}

// MissingStatsFieldError is returned by Merge when a field it needs is absent.
type MissingStatsFieldError struct {
	Field string
	Side  string
}

func (e *MissingStatsFieldError) Error() string {
	return fmt.Sprintf("stats of %s side: missing field %s", e.Side, e.Field)
}

func Float(v float64) *float64 { return &v }
func Int(v int) *int           { return &v }

func (s *Stats) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	*s = Stats{extra: map[string]json.RawMessage{}}
	for key, value := range raw {
		var err error
		switch key {
		case TimePerPictureMatching:
			s.TimePerPictureMatching, err = decodeFloat(value)
		case TimePerPicturePreComputing:
			s.TimePerPicturePreComputing, err = decodeFloat(value)
		case TimeToLoadPictures:
			s.TimeToLoadPictures, err = decodeFloat(value)
		case TruePositiveRate:
			s.TruePositiveRate, err = decodeFloat(value)
		case NbPicture:
			var f *float64
			if f, err = decodeFloat(value); f != nil {
				s.NbPicture = Int(int(math.Round(*f)))
			}
		default:
			s.extra[key] = value
		}
		if err != nil {
			return fmt.Errorf("stats field %s: %w", key, err)
		}
	}
	return nil
}

// decodeFloat treats JSON null as an absent field.
func decodeFloat(value json.RawMessage) (*float64, error) {
	if bytes.Equal(bytes.TrimSpace(value), []byte("null")) {
		return nil, nil
	}
	var f float64
	if err := json.Unmarshal(value, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

func (s Stats) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(s.extra)+5)
	for key, value := range s.extra {
		out[key] = value
	}
	if s.TimePerPictureMatching != nil {
		out[TimePerPictureMatching] = *s.TimePerPictureMatching
	}
	if s.TimePerPicturePreComputing != nil {
		out[TimePerPicturePreComputing] = *s.TimePerPicturePreComputing
	}
	if s.TimeToLoadPictures != nil {
		out[TimeToLoadPictures] = *s.TimeToLoadPictures
	}
	if s.NbPicture != nil {
		out[NbPicture] = *s.NbPicture
	}
	if s.TruePositiveRate != nil {
		out[TruePositiveRate] = *s.TruePositiveRate
	}
	return json.Marshal(out)
}

// Extra returns the raw value of a field Stats doesn't model.
func (s Stats) Extra(key string) (json.RawMessage, bool) {
	v, ok := s.extra[key]
	return v, ok
}

// Merge combines the statistics of two result sets whose graphs are merged: timings
// add up, the picture count is the larger of the two since both runs went over the
// same pictures. Fields not listed here are not carried over.
func Merge(a, b *Stats) (*Stats, error) {
	if err := a.requireMergeable("first"); err != nil {
		return nil, err
	}
	if err := b.requireMergeable("second"); err != nil {
		return nil, err
	}

	return &Stats{
		TimePerPictureMatching:     Float(*a.TimePerPictureMatching + *b.TimePerPictureMatching),
		TimePerPicturePreComputing: Float(*a.TimePerPicturePreComputing + *b.TimePerPicturePreComputing),
		TimeToLoadPictures:         Float(*a.TimeToLoadPictures + *b.TimeToLoadPictures),
		NbPicture:                  Int(max(*a.NbPicture, *b.NbPicture)),
	}, nil
}

func (s *Stats) requireMergeable(side string) error {
	switch {
	case s == nil:
		return &MissingStatsFieldError{Field: "(no stats)", Side: side}
	case s.TimePerPictureMatching == nil:
		return &MissingStatsFieldError{Field: TimePerPictureMatching, Side: side}
	case s.TimePerPicturePreComputing == nil:
		return &MissingStatsFieldError{Field: TimePerPicturePreComputing, Side: side}
	case s.TimeToLoadPictures == nil:
		return &MissingStatsFieldError{Field: TimeToLoadPictures, Side: side}
	case s.NbPicture == nil:
		return &MissingStatsFieldError{Field: NbPicture, Side: side}
	}
	return nil
}

// WithTruePositiveRate returns a copy of s with the rate set, overwriting any previous
// value. A nil s yields a record holding only the rate.
func (s *Stats) WithTruePositiveRate(rate float64) *Stats {
	out := &Stats{extra: map[string]json.RawMessage{}}
	if s != nil {
		*out = *s
		out.extra = make(map[string]json.RawMessage, len(s.extra))
		for key, value := range s.extra {
			out.extra[key] = value
		}
	}
	out.TruePositiveRate = Float(rate)
	return out
}

func Load(path string) (*Stats, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s := &Stats{}
	if err := json.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("failed to parse stats '%s': %w", path, err)
	}
	return s, nil
}

func (s *Stats) Save(path string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
