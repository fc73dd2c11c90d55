package models

// OfferSubmission is the "get a cash offer" form. It is mailed, never stored.
type OfferSubmission struct {
	Name              string `json:"name,omitempty"`
	Email             string `json:"email,omitempty"`
	Phone             string `json:"phone,omitempty"`
	Address           string `json:"address,omitempty"`
	City              string `json:"city,omitempty"`
	State             string `json:"state,omitempty"`
	Zip               string `json:"zip,omitempty"`
	PropertyType      string `json:"propertyType,omitempty"`
	PropertyCondition string `json:"propertyCondition,omitempty"`
	Timeline          string `json:"timeline,omitempty"`
	AskingPrice       string `json:"askingPrice,omitempty"`
	Message           string `json:"message,omitempty"`
}

// ContactSubmission is the general contact form
type ContactSubmission struct {
	Name    string `json:"name,omitempty"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Subject string `json:"subject,omitempty"`
	Message string `json:"message,omitempty"`
}

// SubmissionReceipt is returned to the browser after a form was mailed
type SubmissionReceipt struct {
	MessageID string `json:"messageId"`
	Provider  string `json:"provider"`
	Mocked    bool   `json:"mocked,omitempty"`
}
