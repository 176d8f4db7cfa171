package types

import "encoding/json"

// IdentityEvent is the envelope of an identity provider webhook.
type IdentityEvent struct {
	Type   string          `json:"type" description:"Event type, e.g. user.created"`
	Object string          `json:"object"`
	Data   json.RawMessage `json:"data"`
}

type IdentityEmail struct {
	ID           string `json:"id"`
	EmailAddress string `json:"email_address"`
}

type IdentityUserData struct {
	ID                    string          `json:"id"`
	Username              *string         `json:"username"`
	FirstName             *string         `json:"first_name"`
	LastName              *string         `json:"last_name"`
	ImageURL              string          `json:"image_url"`
	EmailAddresses        []IdentityEmail `json:"email_addresses"`
	PrimaryEmailAddressID *string         `json:"primary_email_address_id"`
	PublicMetadata        map[string]any  `json:"public_metadata"`
	Deleted               bool            `json:"deleted"`
}

type WebhookAck struct {
	Received bool   `json:"received"`
	Type     string `json:"type"`
	Handled  bool   `json:"handled" description:"False for event types that are acknowledged but ignored"`
}
