package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBHKRoundTrip(t *testing.T) {
	literals := []string{"1", "2", "3", "4", "Studio"}
	for _, ui := range literals {
		stored, ok := BHKFromUI(ui)
		assert.True(t, ok, "bhk %q should be accepted", ui)
		assert.Equal(t, ui, BHKToUI(stored))
	}
	assert.Equal(t, "4", BHKToUI(BHKFour))
	assert.Equal(t, "", BHKToUI(BHK("FIVE")))

	_, ok := BHKFromUI("FOUR")
	assert.False(t, ok, "storage literal must not pass as UI input")
}

func TestTimelineRoundTrip(t *testing.T) {
	literals := []string{"0-3m", "3-6m", ">6m", "Exploring"}
	for _, ui := range literals {
		stored, ok := TimelineFromUI(ui)
		assert.True(t, ok, "timeline %q should be accepted", ui)
		assert.Equal(t, ui, TimelineToUI(stored))
	}
	assert.Equal(t, ">6m", TimelineToUI(TimelineOver6M))
	assert.Equal(t, "", TimelineToUI(Timeline("SOMEDAY")))

	_, ok := TimelineFromUI("> 6m")
	assert.False(t, ok)
}

func TestSourceRoundTrip(t *testing.T) {
	literals := []string{"Website", "Referral", "Walk-in", "Call", "Other"}
	for _, ui := range literals {
		stored, ok := SourceFromUI(ui)
		assert.True(t, ok, "source %q should be accepted", ui)
		assert.Equal(t, ui, SourceToUI(stored))
	}
	assert.Equal(t, "Walk-in", SourceToUI(SourceWalkIn))
	assert.Equal(t, "", SourceToUI(Source("Billboard")))

	_, ok := SourceFromUI("WalkIn")
	assert.False(t, ok)
}

func TestIdentityEnums(t *testing.T) {
	for _, ui := range []string{"Chandigarh", "Mohali", "Zirakpur", "Panchkula", "Other"} {
		stored, ok := CityFromUI(ui)
		assert.True(t, ok)
		assert.Equal(t, ui, string(stored))
	}
	for _, ui := range []string{"Apartment", "Villa", "Plot", "Office", "Retail"} {
		stored, ok := PropertyTypeFromUI(ui)
		assert.True(t, ok)
		assert.Equal(t, ui, string(stored))
	}
	for _, ui := range []string{"Buy", "Rent"} {
		stored, ok := PurposeFromUI(ui)
		assert.True(t, ok)
		assert.Equal(t, ui, string(stored))
	}
	for _, ui := range []string{"New", "Qualified", "Contacted", "Visited", "Negotiation", "Converted", "Dropped"} {
		stored, ok := StatusFromUI(ui)
		assert.True(t, ok)
		assert.Equal(t, ui, string(stored))
	}

	_, ok := CityFromUI("Delhi")
	assert.False(t, ok)
	_, ok = StatusFromUI("Archived")
	assert.False(t, ok)
}
