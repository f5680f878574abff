package buyers

import (
	"time"

	"github.com/searchnrate/leadgate/internal/leads"
)

// formVersion identifies the payload layout to buyers; bump when the wire
// shape changes.
const formVersion = "v1-seo-2026-01"

const site = "searchnrate.com"

// Payload is the buyer-facing lead shape. One payload is built per target
// vertical so a buyer only sees the fields relevant to what it buys.
type Payload struct {
	LeadID     string `json:"lead_id"`
	Vertical   string `json:"vertical"`
	LeadStatus string `json:"lead_status"`

	Contact struct {
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Email     string `json:"email"`
		Phone     string `json:"phone"`
	} `json:"contact"`

	Address struct {
		PostalCode string `json:"postal_code"`
		Country    string `json:"country"`
	} `json:"address"`

	Vehicle  leads.Vehicle  `json:"vehicle"`
	Property leads.Property `json:"property"`

	TCPA struct {
		ConsentText      string `json:"consent_text"`
		ConsentTimestamp string `json:"consent_timestamp"`
		ConsentURL       string `json:"consent_url"`
		IPAddress        string `json:"ip_address"`
		UserAgent        string `json:"user_agent"`
		ConsentChannel   string `json:"consent_channel"`
	} `json:"tcpa"`

	Traffic struct {
		SourceURL   string `json:"source_url"`
		LandingPage string `json:"landing_page"`
		UTMSource   string `json:"utm_source"`
		UTMMedium   string `json:"utm_medium"`
		UTMCampaign string `json:"utm_campaign"`
		UTMTerm     string `json:"utm_term"`
		UTMContent  string `json:"utm_content"`
		GCLID       string `json:"gclid"`
	} `json:"traffic"`

	ComplianceFlags struct {
		IsOptedOut bool `json:"is_opted_out"`
	} `json:"compliance_flags"`

	Meta struct {
		FormVersion string `json:"form_version"`
		Site        string `json:"site"`
		Environment string `json:"environment"`
	} `json:"meta"`
}

// BuildPayload shapes a lead for one target vertical. Sub-records outside
// the target vertical are zeroed: an auto buyer never sees property fields
// and a home buyer never sees vehicle fields.
func BuildPayload(lead *leads.Lead, vertical leads.Vertical, environment string) *Payload {
	p := &Payload{
		LeadID:     lead.ID,
		Vertical:   string(vertical),
		LeadStatus: string(lead.Status),
	}

	p.Contact.FirstName = lead.Contact.FirstName
	p.Contact.LastName = lead.Contact.LastName
	p.Contact.Email = lead.Contact.Email
	p.Contact.Phone = lead.Contact.Phone

	p.Address.PostalCode = lead.Zip
	p.Address.Country = "US"

	switch vertical {
	case leads.VerticalAuto:
		p.Vehicle = lead.Vehicle
	case leads.VerticalHome:
		p.Property = lead.Property
	default:
		p.Vehicle = lead.Vehicle
		p.Property = lead.Property
	}

	p.TCPA.ConsentText = lead.Consent.Text
	p.TCPA.ConsentTimestamp = lead.Consent.Timestamp.UTC().Format(time.RFC3339)
	p.TCPA.ConsentURL = lead.Consent.SourceURL
	p.TCPA.IPAddress = lead.Consent.IP
	p.TCPA.UserAgent = lead.Consent.UserAgent
	p.TCPA.ConsentChannel = lead.Consent.Channel

	p.Traffic.SourceURL = lead.Consent.SourceURL
	p.Traffic.LandingPage = lead.Consent.SourceURL
	p.Traffic.UTMSource = lead.Tracking.UTMSource
	p.Traffic.UTMMedium = lead.Tracking.UTMMedium
	p.Traffic.UTMCampaign = lead.Tracking.UTMCampaign
	p.Traffic.UTMTerm = lead.Tracking.UTMTerm
	p.Traffic.UTMContent = lead.Tracking.UTMContent
	p.Traffic.GCLID = lead.Tracking.GCLID

	p.ComplianceFlags.IsOptedOut = lead.Status == leads.StatusBlocked

	p.Meta.FormVersion = formVersion
	p.Meta.Site = site
	p.Meta.Environment = environment

	return p
}
