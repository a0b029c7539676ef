package config

import (
	"github.com/zeromicro/go-zero/mcp"
	"github.com/zeromicro/go-zero/rest"

	"github.com/reelforge/pitchmail/pkg/completion"
)

// Config holds the server configuration.
type Config struct {
	rest.RestConf

	// Mcp, when its port is set, starts an MCP server exposing the pitch
	// pipeline as tools.
	Mcp mcp.McpConf `json:",optional"`

	CORS       CORSConfig       `json:",optional"`
	Scraper    ScraperConfig    `json:",optional"`
	Completion CompletionConfig `json:",optional"`
	Pitch      PitchConfig      `json:",optional"`
	Database   DatabaseConfig   `json:",optional"`
	Delivery   DeliveryConfig   `json:",optional"`
	SMTP       SMTPConfig       `json:",optional"`
}

// CORSConfig holds the cross-origin settings for the JSON API.
type CORSConfig struct {
	AllowOrigin string `json:",default=*"`
}

// ScraperConfig holds website extraction settings.
type ScraperConfig struct {
	TimeoutSeconds int `json:",default=10"`
}

// CompletionConfig holds the chat-completion endpoint settings.
type CompletionConfig struct {
	BaseURL        string  `json:",default=https://api.openai.com/v1"`
	APIKey         string  `json:",optional"`
	Model          string  `json:",optional"`
	Temperature    float64 `json:",default=0.7"`
	MaxTokens      int     `json:",default=1024"`
	TimeoutSeconds int     `json:",default=60"`
}

// PitchConfig holds the pitch content settings: prompt override, email
// subject, branding, and static reference material.
type PitchConfig struct {
	Instructions    string           `json:",optional"`
	Subject         string           `json:",default=A 60-second video script for your business"`
	TemplateDir     string           `json:",optional"`
	CompanyName     string           `json:",optional"`
	CompanyLogo     string           `json:",optional"`
	CompanyURL      string           `json:",optional"`
	ProcessVideoURL string           `json:",optional"`
	ReferenceVideos []ReferenceVideo `json:",optional"`
}

// ReferenceVideo is one example video configured for pitch emails.
type ReferenceVideo struct {
	Title string
	URL   string
}

// ScriptInstructions returns the configured prompt override, or the built-in
// instructions.
func (p PitchConfig) ScriptInstructions() string {
	if p.Instructions != "" {
		return p.Instructions
	}
	return completion.ScriptInstructions
}

// DatabaseConfig holds database settings.
type DatabaseConfig struct {
	Path string `json:",default=./.data/pitchmail.db"`
}

// DeliveryConfig holds email delivery settings.
type DeliveryConfig struct {
	Workers      int    `json:",default=2"`
	MaxRetries   int    `json:",default=3"`
	RetryBackoff string `json:",default=5m"`
	MaxBackoff   string `json:",default=4h"`
	RateLimit    int    `json:",default=60"`
}

// SMTPConfig holds SMTP relay settings.
type SMTPConfig struct {
	Host      string `json:",default=smtp.gmail.com"`
	Port      string `json:",default=587"`
	Username  string `json:",optional"`
	Password  string `json:",optional"`
	FromEmail string `json:",optional"`
	FromName  string `json:",default=Reelforge Studio"`
}
