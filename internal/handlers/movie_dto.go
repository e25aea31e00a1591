package handlers

// MovieRequest is the body of create and update calls.
type MovieRequest struct {
	Title       string   `json:"title" example:"Blade Runner"`
	Director    string   `json:"director" example:"Ridley Scott"`
	ReleaseYear int      `json:"release_year" example:"1982"`
	Genre       []string `json:"genre" example:"Sci-fi,Suspense"`
}

// EnvelopeRequest is a raw request envelope as sent over TCP.
type EnvelopeRequest struct {
	Method   string         `json:"method" example:"GET"`
	Resource string         `json:"resource" example:"/movies/1"`
	Body     map[string]any `json:"body,omitempty"`
}
