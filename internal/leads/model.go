package leads

import "time"

// Status is derived once per request from the suppression check.
type Status string

const (
	StatusAccepted Status = "accepted"
	StatusBlocked  Status = "blocked"
)

// Vertical is the product category a lead belongs to.
type Vertical string

const (
	VerticalAuto   Vertical = "auto"
	VerticalHome   Vertical = "home"
	VerticalBundle Vertical = "bundle"
)

// Known reports whether v is one of the recognized verticals.
func (v Vertical) Known() bool {
	switch v {
	case VerticalAuto, VerticalHome, VerticalBundle:
		return true
	}
	return false
}

// Contact holds normalized contact identity for a lead.
type Contact struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// Vehicle is populated for auto leads; fields default to empty strings so
// the persisted row shape stays stable.
type Vehicle struct {
	Year  string `json:"year"`
	Make  string `json:"make"`
	Model string `json:"model"`
}

// Property is populated for home leads.
type Property struct {
	HomeType  string `json:"home_type"`
	Ownership string `json:"ownership"`
}

// Consent captures the TCPA consent event. Timestamp always equals the
// lead's CreatedAt: one consent event per lead.
type Consent struct {
	Confirmed bool      `json:"confirmed"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
	SourceURL string    `json:"source_url"`
	IP        string    `json:"ip"`
	UserAgent string    `json:"user_agent"`
	Channel   string    `json:"channel"`
}

// Tracking carries optional campaign attribution.
type Tracking struct {
	UTMSource   string `json:"utm_source"`
	UTMMedium   string `json:"utm_medium"`
	UTMCampaign string `json:"utm_campaign"`
	UTMTerm     string `json:"utm_term"`
	UTMContent  string `json:"utm_content"`
	GCLID       string `json:"gclid"`
}

// Lead is the canonical unit of work for one submission. It is owned by the
// intake pipeline for the duration of a single request.
type Lead struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Vertical  Vertical  `json:"vertical"`
	Status    Status    `json:"status"`
	Contact   Contact   `json:"contact"`
	Zip       string    `json:"zip"`
	Vehicle   Vehicle   `json:"vehicle"`
	Property  Property  `json:"property"`
	Consent   Consent   `json:"consent"`
	Tracking  Tracking  `json:"tracking"`
}
