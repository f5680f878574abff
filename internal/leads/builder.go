package leads

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/searchnrate/leadgate/internal/normalize"
)

// ConsentChannel labels how consent was collected for every web submission.
const ConsentChannel = "web_form"

// Submission is the raw field mapping posted by the lead form. Every field
// is optional at the decoding layer; validation happens in Build.
type Submission struct {
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Zip          string `json:"zip"`
	LeadType     string `json:"lead_type"`
	CoverageType string `json:"coverage_type"`

	VehicleYear  string `json:"vehicle_year"`
	VehicleMake  string `json:"vehicle_make"`
	VehicleModel string `json:"vehicle_model"`

	HomeType      string `json:"home_type"`
	HomeOwnership string `json:"home_ownership"`

	TCPAConsent bool   `json:"tcpa_consent"`
	TCPAText    string `json:"tcpa_text"`
	SourceURL   string `json:"source_url"`
	UserAgent   string `json:"user_agent"`

	UTMSource   string `json:"utm_source"`
	UTMMedium   string `json:"utm_medium"`
	UTMCampaign string `json:"utm_campaign"`
	UTMTerm     string `json:"utm_term"`
	UTMContent  string `json:"utm_content"`
	GCLID       string `json:"gclid"`
}

// RequestMeta is what the HTTP layer knows about the submitting client.
type RequestMeta struct {
	IP        string
	UserAgent string
	Referrer  string
}

// Builder assembles canonical leads under one set of intake policies.
type Builder struct {
	defaultVertical Vertical
	requireConsent  bool
	phoneDigits     int
}

// NewBuilder creates a builder. An unrecognized default vertical clamps to auto.
func NewBuilder(defaultVertical string, requireConsent bool, phoneDigits int) *Builder {
	dv := Vertical(strings.ToLower(strings.TrimSpace(defaultVertical)))
	if !dv.Known() {
		dv = VerticalAuto
	}
	return &Builder{
		defaultVertical: dv,
		requireConsent:  requireConsent,
		phoneDigits:     phoneDigits,
	}
}

// ResolveVertical reads lead_type, falls back to the legacy coverage_type,
// then to the configured default. Out-of-set values clamp to the default
// rather than failing; callers log the raw value for observability.
func (b *Builder) ResolveVertical(sub *Submission) Vertical {
	raw := strings.TrimSpace(sub.LeadType)
	if raw == "" {
		raw = strings.TrimSpace(sub.CoverageType)
	}
	v := Vertical(strings.ToLower(raw))
	if !v.Known() {
		return b.defaultVertical
	}
	return v
}

// Build produces a fully-populated Lead or a *ValidationError. It performs
// all validation for the pipeline and has no side effects.
func (b *Builder) Build(sub *Submission, meta RequestMeta) (*Lead, error) {
	email := normalize.Email(sub.Email)
	phone := normalize.PhoneNational(sub.Phone, b.phoneDigits)

	if email == "" && phone == "" {
		return nil, ErrMissingContact
	}
	if b.requireConsent && !sub.TCPAConsent {
		return nil, ErrMissingConsent
	}

	now := time.Now().UTC()
	userAgent := meta.UserAgent
	if userAgent == "" {
		userAgent = sub.UserAgent
	}
	sourceURL := strings.TrimSpace(sub.SourceURL)
	if sourceURL == "" {
		sourceURL = meta.Referrer
	}

	return &Lead{
		ID:        uuid.NewString(),
		CreatedAt: now,
		Vertical:  b.ResolveVertical(sub),
		Contact: Contact{
			FirstName: strings.TrimSpace(sub.FirstName),
			LastName:  strings.TrimSpace(sub.LastName),
			Email:     email,
			Phone:     phone,
		},
		Zip: strings.TrimSpace(sub.Zip),
		Vehicle: Vehicle{
			Year:  sub.VehicleYear,
			Make:  sub.VehicleMake,
			Model: sub.VehicleModel,
		},
		Property: Property{
			HomeType:  sub.HomeType,
			Ownership: sub.HomeOwnership,
		},
		Consent: Consent{
			Confirmed: sub.TCPAConsent,
			Text:      strings.TrimSpace(sub.TCPAText),
			Timestamp: now,
			SourceURL: sourceURL,
			IP:        meta.IP,
			UserAgent: userAgent,
			Channel:   ConsentChannel,
		},
		Tracking: Tracking{
			UTMSource:   sub.UTMSource,
			UTMMedium:   sub.UTMMedium,
			UTMCampaign: sub.UTMCampaign,
			UTMTerm:     sub.UTMTerm,
			UTMContent:  sub.UTMContent,
			GCLID:       sub.GCLID,
		},
	}, nil
}
