// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package types

// ReferenceVideo is one example video supplied with a pitch request.
type ReferenceVideo struct {
	Title string `json:"title,optional"`
	Url   string `json:"url,optional"`
}

// GeneratePitchRequest is the inbound lead submission. Every field is
// optional at the parsing layer; the logic requires at least a business name
// or a website.
type GeneratePitchRequest struct {
	BusinessName    string           `json:"business_name,optional"`
	Website         string           `json:"website,optional"`
	LinkedinUrl     string           `json:"linkedin_url,optional"`
	Email           string           `json:"email,optional"`
	Notes           string           `json:"notes,optional"`
	ReferenceVideos []ReferenceVideo `json:"reference_videos,optional"`
	ProcessVideoUrl string           `json:"process_video_url,optional"`
}

// GeneratePitchResponse carries the generated script back to the caller.
type GeneratePitchResponse struct {
	Script      string            `json:"script"`
	ScrapedData string            `json:"scraped_data"`
	Sections    map[string]string `json:"sections"`
	EmailId     string            `json:"email_id,omitempty"`
	Message     string            `json:"message,omitempty"`
}

// ListEmailsRequest filters the dispatch history.
type ListEmailsRequest struct {
	Status string `form:"status,optional"`
	Limit  int    `form:"limit,default=50"`
}

// EmailStatus is the tracked state of one dispatched pitch email.
type EmailStatus struct {
	Id        string `json:"id"`
	Recipient string `json:"recipient"`
	Subject   string `json:"subject"`
	Business  string `json:"business,omitempty"`
	Status    string `json:"status"`
	Attempts  int    `json:"attempts"`
	Error     string `json:"error,omitempty"`
	CreatedAt string `json:"created_at"`
}

// ListEmailsResponse is the dispatch history page.
type ListEmailsResponse struct {
	Emails []EmailStatus `json:"emails"`
	Count  int           `json:"count"`
}

// GetEmailStatusRequest identifies one dispatched email.
type GetEmailStatusRequest struct {
	Id string `path:"id"`
}

// StatsResponse reports queue counts by status.
type StatsResponse struct {
	Stats map[string]int `json:"stats"`
	Total int            `json:"total"`
}
