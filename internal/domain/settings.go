package domain

// MessagesSettings holds the dashboard alert and information banners.
type MessagesSettings struct {
	Main         string `json:"main"`
	MainEnabled  bool   `json:"main_enabled"`
	Alert        string `json:"alert"`
	AlertEnabled bool   `json:"alert_enabled"`
}

// LogoSettings holds the custom logo configuration.
type LogoSettings struct {
	URL     string `json:"url"`
	Enabled bool   `json:"enabled"`
}

// SystemURLSettings holds the externally reachable base URL of the
// dashboard, embedded in notification emails.
type SystemURLSettings struct {
	URL     string `json:"url"`
	Enabled bool   `json:"enabled"`
}

// EmailSettings holds the outbound notification configuration.
type EmailSettings struct {
	Enabled             bool   `json:"enabled"`
	HTMLFormat          bool   `json:"html_format"`
	FromAddress         string `json:"from_address"`
	TextPager           string `json:"text_pager"`
	IncidentGreeting    string `json:"incident_greeting"`
	IncidentUpdate      string `json:"incident_update"`
	MaintenanceGreeting string `json:"maintenance_greeting"`
	MaintenanceUpdate   string `json:"maintenance_update"`
	Footer              string `json:"footer"`
}

// EscalationSettings toggles the public escalation page.
type EscalationSettings struct {
	Enabled      bool   `json:"enabled"`
	Instructions string `json:"instructions"`
}

// ReportSettings governs the public incident-report intake.
type ReportSettings struct {
	Enabled       bool   `json:"enabled"`
	EmailEnabled  bool   `json:"email_enabled"`
	Instructions  string `json:"instructions"`
	SubmitMessage string `json:"submit_message"`
	UploadEnabled bool   `json:"upload_enabled"`
	UploadPath    string `json:"upload_path"`
	MaxFileSize   int64  `json:"max_file_size"`
}

// Recipient is an admin-managed email address used for event broadcasts.
type Recipient struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}
