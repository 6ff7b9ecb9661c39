package appstate

import (
	"io"
	"log/slog"
	"net/url"
	"reflect"
	"testing"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestQueryRoundTrip(t *testing.T) {
	original := State{
		Timezones: []TimezoneEntry{
			NewEntry("America/New_York"),
			{ID: "Asia/Kolkata", Label: "Kolkata", CustomLabel: "Bangalore office"},
			NewEntry("Europe/London"),
		},
		Use24Hour: true,
	}

	encoded := EncodeQuery(original).Encode()
	values, err := url.ParseQuery(encoded)
	if err != nil {
		t.Fatalf("ParseQuery: %v", err)
	}
	decoded, ok := DecodeQuery(values, discard())
	if !ok {
		t.Fatal("DecodeQuery found no zones")
	}
	if !reflect.DeepEqual(original, decoded) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", decoded, original)
	}
}

func TestDecodeQueryDropsInvalidZone(t *testing.T) {
	values, err := url.ParseQuery("tz0=Invalid/Zone&tz1=Europe/London")
	if err != nil {
		t.Fatalf("ParseQuery: %v", err)
	}
	s, ok := DecodeQuery(values, discard())
	if !ok {
		t.Fatal("DecodeQuery found no zones")
	}
	if len(s.Timezones) != 1 || s.Timezones[0].ID != "Europe/London" {
		t.Errorf("Timezones = %+v, want only Europe/London at index 0", s.Timezones)
	}
}

func TestDecodeQueryStopsAtGap(t *testing.T) {
	values, err := url.ParseQuery("tz0=Europe/London&tz2=Asia/Tokyo")
	if err != nil {
		t.Fatalf("ParseQuery: %v", err)
	}
	s, _ := DecodeQuery(values, discard())
	if len(s.Timezones) != 1 {
		t.Errorf("decoding continued past the index gap: %+v", s.Timezones)
	}
}

func TestDecodeQueryFormat(t *testing.T) {
	tests := []struct {
		query string
		want  bool
	}{
		{"tz0=UTC&format=24h", true},
		{"tz0=UTC&format=12h", false},
		{"tz0=UTC", false},
		{"tz0=UTC&format=bogus", false},
	}
	for _, tt := range tests {
		values, err := url.ParseQuery(tt.query)
		if err != nil {
			t.Fatalf("ParseQuery(%q): %v", tt.query, err)
		}
		s, _ := DecodeQuery(values, discard())
		if s.Use24Hour != tt.want {
			t.Errorf("%q: Use24Hour = %v, want %v", tt.query, s.Use24Hour, tt.want)
		}
	}
}

func TestDecodeQueryIgnoresUnknownParams(t *testing.T) {
	values, err := url.ParseQuery("tz0=UTC&utm_source=share&theme=dark")
	if err != nil {
		t.Fatalf("ParseQuery: %v", err)
	}
	s, ok := DecodeQuery(values, discard())
	if !ok || len(s.Timezones) != 1 {
		t.Errorf("unknown params affected decoding: %+v", s)
	}
}

func TestDecodeQueryEmpty(t *testing.T) {
	if _, ok := DecodeQuery(url.Values{}, discard()); ok {
		t.Error("empty query reported ok")
	}
}

func TestEncodeQueryLabelIndexesFollowZones(t *testing.T) {
	s := State{Timezones: []TimezoneEntry{
		NewEntry("UTC"),
		{ID: "Asia/Tokyo", Label: "Tokyo", CustomLabel: "HQ"},
	}}
	values := EncodeQuery(s)
	if values.Get("label0") != "" {
		t.Error("label0 emitted for an entry without a custom label")
	}
	if values.Get("label1") != "HQ" {
		t.Errorf("label1 = %q, want HQ", values.Get("label1"))
	}
}
