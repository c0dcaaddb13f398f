package mailer

// EmailJob describes one outgoing email. Either set Subject/Text/HTML directly
// or name a Template and pass its Data; a template overrides the literal fields.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"` // e.g. "welcome"
	Data     map[string]any `json:"data,omitempty"`
}
