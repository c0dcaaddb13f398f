package entity

// WebhookHeaders are the three values a sender asserts alongside the body.
type WebhookHeaders struct {
	MessageID string
	Timestamp string
	Signature string
}

// Complete reports whether all three headers are present.
func (h WebhookHeaders) Complete() bool {
	return h.MessageID != "" && h.Timestamp != "" && h.Signature != ""
}

// WebhookEnvelope is what arrived on the wire for one webhook delivery.
// RawBody must be the exact received bytes; signatures are computed over them.
type WebhookEnvelope struct {
	Headers WebhookHeaders
	RawBody []byte
}
