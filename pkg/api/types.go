package api

import "time"

// ReviewResult is the JSON body a review backend answers with. Result
// carries the Markdown tables to render.
type ReviewResult struct {
	Success   bool   `json:"success"`
	Result    string `json:"result"`
	InputText string `json:"input_text,omitempty"`
	HasImage  bool   `json:"has_image,omitempty"`
	Filename  string `json:"filename,omitempty"`
	FileType  string `json:"file_type,omitempty"`
}

// RenderRequest is the JSON form accepted by the render endpoint.
type RenderRequest struct {
	Markdown string `json:"markdown"`
}

// Render is one archived rendering, keyed by the content hash of its input.
// Listings leave Markdown and HTML empty.
type Render struct {
	ID        string    `json:"id"`
	Markdown  string    `json:"markdown,omitempty"`
	HTML      string    `json:"html,omitempty"`
	Tables    int       `json:"tables"`
	CreatedAt time.Time `json:"created_at"`
}

// ErrorResponse is the JSON error envelope of the HTTP API.
type ErrorResponse struct {
	Error string `json:"error"`
}
