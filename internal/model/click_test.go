package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func float64Ptr(f float64) *float64 { return &f }

func TestClickMessage_Validate(t *testing.T) {
	base := func() *ClickMessage {
		return &ClickMessage{
			LinkID:      "abc",
			AccountID:   "acct-1",
			Destination: "https://a.com",
			Country:     "US",
			Latitude:    float64Ptr(40.7),
			Longitude:   float64Ptr(-74.0),
			Timestamp:   time.Now(),
		}
	}

	tests := []struct {
		name    string
		mutate  func(*ClickMessage)
		wantErr error
	}{
		{"valid", func(m *ClickMessage) {}, nil},
		{"missing link id", func(m *ClickMessage) { m.LinkID = "" }, ErrMissingLinkID},
		{"missing account id", func(m *ClickMessage) { m.AccountID = "" }, ErrMissingAccountID},
		{"missing destination", func(m *ClickMessage) { m.Destination = "" }, ErrMissingDestination},
		{"lowercase country", func(m *ClickMessage) { m.Country = "us" }, ErrInvalidCountryCode},
		{"latitude too large", func(m *ClickMessage) { m.Latitude = float64Ptr(91) }, ErrLatitudeOutOfRange},
		{"longitude too small", func(m *ClickMessage) { m.Longitude = float64Ptr(-181) }, ErrLongitudeOutOfRange},
		{"absent geo fields are allowed", func(m *ClickMessage) {
			m.Country = ""
			m.Latitude = nil
			m.Longitude = nil
		}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := base()
			tt.mutate(msg)
			err := msg.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestClickMessage_HasGeo(t *testing.T) {
	msg := &ClickMessage{
		LinkID:      "abc",
		AccountID:   "acct-1",
		Destination: "https://a.com",
		Country:     "US",
		Latitude:    float64Ptr(40.7),
		Longitude:   float64Ptr(-74.0),
	}
	assert.True(t, msg.HasGeo())

	noCountry := *msg
	noCountry.Country = ""
	assert.False(t, noCountry.HasGeo())

	noLat := *msg
	noLat.Latitude = nil
	assert.False(t, noLat.HasGeo())

	noLon := *msg
	noLon.Longitude = nil
	assert.False(t, noLon.HasGeo())
}

func TestValidStatus(t *testing.T) {
	for _, s := range []string{StatusUp, StatusDown, StatusUnknown, StatusSuspicious} {
		assert.True(t, ValidStatus(s))
	}
	assert.False(t, ValidStatus("PENDING"))
	assert.False(t, ValidStatus("up"))
}
