package leads

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBuilder() *Builder {
	return NewBuilder("auto", false, 10)
}

func TestBuildNormalizesContact(t *testing.T) {
	b := newTestBuilder()

	lead, err := b.Build(&Submission{
		Email:    "  A@B.com ",
		Phone:    "(555) 123-4567",
		LeadType: "auto",
	}, RequestMeta{IP: "203.0.113.9", UserAgent: "test-agent"})
	require.NoError(t, err)

	assert.Equal(t, "a@b.com", lead.Contact.Email)
	assert.Equal(t, "5551234567", lead.Contact.Phone)
	assert.Equal(t, VerticalAuto, lead.Vertical)
	assert.NotEmpty(t, lead.ID)
	assert.False(t, lead.CreatedAt.IsZero())
}

func TestBuildConsentTimestampEqualsCreatedAt(t *testing.T) {
	b := newTestBuilder()

	lead, err := b.Build(&Submission{Email: "x@y.z", TCPAText: " I agree. "}, RequestMeta{})
	require.NoError(t, err)

	assert.Equal(t, lead.CreatedAt, lead.Consent.Timestamp)
	assert.Equal(t, "I agree.", lead.Consent.Text)
	assert.Equal(t, ConsentChannel, lead.Consent.Channel)
}

func TestBuildMissingContact(t *testing.T) {
	b := newTestBuilder()

	_, err := b.Build(&Submission{FirstName: "Jane", Zip: "90210"}, RequestMeta{})
	require.ErrorIs(t, err, ErrMissingContact)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestBuildPhoneOnlyAccepted(t *testing.T) {
	b := newTestBuilder()

	lead, err := b.Build(&Submission{Phone: "+1 555 987 6543"}, RequestMeta{})
	require.NoError(t, err)
	assert.Equal(t, "5559876543", lead.Contact.Phone)
	assert.Empty(t, lead.Contact.Email)
}

func TestBuildConsentRequired(t *testing.T) {
	b := NewBuilder("auto", true, 10)

	_, err := b.Build(&Submission{Email: "x@y.z"}, RequestMeta{})
	require.ErrorIs(t, err, ErrMissingConsent)

	lead, err := b.Build(&Submission{Email: "x@y.z", TCPAConsent: true}, RequestMeta{})
	require.NoError(t, err)
	assert.True(t, lead.Consent.Confirmed)
}

func TestResolveVertical(t *testing.T) {
	b := newTestBuilder()

	tests := []struct {
		name string
		sub  Submission
		want Vertical
	}{
		{"explicit lead_type", Submission{LeadType: "home"}, VerticalHome},
		{"legacy coverage_type", Submission{CoverageType: "bundle"}, VerticalBundle},
		{"lead_type wins", Submission{LeadType: "auto", CoverageType: "home"}, VerticalAuto},
		{"case insensitive", Submission{LeadType: "HOME"}, VerticalHome},
		{"unknown clamps to default", Submission{LeadType: "pet"}, VerticalAuto},
		{"empty falls to default", Submission{}, VerticalAuto},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, b.ResolveVertical(&tt.sub))
		})
	}
}

func TestBuildEmptySubrecordsPresent(t *testing.T) {
	b := newTestBuilder()

	lead, err := b.Build(&Submission{Email: "x@y.z", LeadType: "home", HomeType: "condo"}, RequestMeta{})
	require.NoError(t, err)

	// Vehicle stays present with empty values so the row shape never shifts.
	assert.Equal(t, Vehicle{}, lead.Vehicle)
	assert.Equal(t, "condo", lead.Property.HomeType)
}

func TestBuildSourceURLFallsBackToReferrer(t *testing.T) {
	b := newTestBuilder()

	lead, err := b.Build(&Submission{Email: "x@y.z"}, RequestMeta{Referrer: "https://searchnrate.com/auto"})
	require.NoError(t, err)
	assert.Equal(t, "https://searchnrate.com/auto", lead.Consent.SourceURL)
}
