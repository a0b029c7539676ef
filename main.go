// Pitchmail CLI - pitch generation and email tooling
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/reelforge/pitchmail/pkg/completion"
	"github.com/reelforge/pitchmail/pkg/mail"
	"github.com/reelforge/pitchmail/pkg/profile"
	"github.com/reelforge/pitchmail/pkg/render"
	"github.com/reelforge/pitchmail/pkg/scrape"
	"github.com/reelforge/pitchmail/pkg/script"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "scrape":
		scrapeCmd(os.Args[2:])
	case "generate":
		generateCmd(os.Args[2:])
	case "render":
		renderCmd(os.Args[2:])
	case "validate":
		validateCmd(os.Args[2:])
	case "send":
		sendCmd(os.Args[2:])
	case "version":
		fmt.Println("pitchmail v0.1.0")
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`Pitchmail - Video Pitch Outreach CLI

Usage:
  pitchmail <command> [options]

Commands:
  scrape     Extract marketing copy from a website
  generate   Generate a pitch script for a business
  render     Render the pitch email template to HTML
  validate   Validate HTML for email client compatibility
  send       Send a test email via SMTP
  version    Show version
  help       Show this help

Examples:
  pitchmail scrape -url=acme.example
  pitchmail generate -name="Acme Widgets" -website=acme.example
  pitchmail render -out=pitch.html
  pitchmail validate -file=pitch.html
  pitchmail send -to=test@example.com -file=pitch.html

Environment Variables:
  OPENAI_API_KEY      API key for script generation
  GMAIL_USERNAME      Gmail username for sending
  GMAIL_APP_PASSWORD  Gmail app password for sending`)
}

func scrapeCmd(args []string) {
	fs := flag.NewFlagSet("scrape", flag.ExitOnError)
	url := fs.String("url", "", "Website URL to scrape")
	fs.Parse(args)

	if *url == "" {
		fmt.Println("Error: -url is required")
		os.Exit(1)
	}

	extractor := scrape.NewExtractor()
	result := extractor.Extract(context.Background(), *url)
	if result.Err != "" {
		fmt.Printf("Error: %s\n", result.Err)
		os.Exit(1)
	}

	if len(result.Keywords) > 0 {
		fmt.Printf("Keywords: %s\n\n", strings.Join(result.Keywords, ", "))
	}
	fmt.Println(result.Summary)
}

func generateCmd(args []string) {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	name := fs.String("name", "", "Business name")
	website := fs.String("website", "", "Business website URL")
	linkedin := fs.String("linkedin", "", "LinkedIn page URL")
	notes := fs.String("notes", "", "Notes about the lead")
	promptOnly := fs.Bool("prompt-only", false, "Print the prompt instead of calling the model")
	fs.Parse(args)

	if *name == "" && *website == "" {
		fmt.Println("Error: -name or -website is required")
		os.Exit(1)
	}

	ctx := context.Background()
	extractor := scrape.NewExtractor()
	site := extractor.Extract(ctx, *website)
	linked := extractor.Extract(ctx, *linkedin)

	prompt := profile.Build(profile.Submission{
		BusinessName: *name,
		Website:      *website,
		LinkedinURL:  *linkedin,
		Notes:        *notes,
	}, site, linked)

	if *promptOnly {
		fmt.Println(prompt)
		return
	}

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		fmt.Println("Error: OPENAI_API_KEY environment variable required (or use -prompt-only)")
		os.Exit(1)
	}

	client := completion.NewClient(completion.Config{APIKey: apiKey})
	raw, err := client.Complete(ctx, completion.ScriptInstructions, prompt)
	if err != nil {
		fmt.Printf("Error generating script: %v\n", err)
		os.Exit(1)
	}

	sections := script.Parse(raw)
	for _, key := range script.Order {
		fmt.Printf("== %s ==\n%s\n\n", strings.ToUpper(key), sections[key])
	}
}

func renderCmd(args []string) {
	fs := flag.NewFlagSet("render", flag.ExitOnError)
	templateDir := fs.String("dir", "", "Template directory overriding the embedded templates")
	outFile := fs.String("out", "", "Output file (default: stdout)")
	fs.Parse(args)

	opts := []render.Option{}
	if *templateDir != "" {
		opts = append(opts, render.WithTemplateDir(*templateDir))
	}

	renderer, err := render.NewRenderer(opts...)
	if err != nil {
		fmt.Printf("Error loading templates: %v\n", err)
		os.Exit(1)
	}

	data := render.TestData()[render.PitchTemplate]
	html, err := renderer.RenderTemplate(render.PitchTemplate, data)
	if err != nil {
		fmt.Printf("Error rendering template: %v\n", err)
		os.Exit(1)
	}

	if *outFile != "" {
		if err := os.WriteFile(*outFile, []byte(html), 0644); err != nil {
			fmt.Printf("Error writing output: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Rendered to %s (%d bytes)\n", *outFile, len(html))
	} else {
		fmt.Println(html)
	}
}

func validateCmd(args []string) {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	file := fs.String("file", "", "HTML file to validate")
	fs.Parse(args)

	if *file == "" {
		fmt.Println("Error: -file is required")
		os.Exit(1)
	}

	content, err := os.ReadFile(*file)
	if err != nil {
		fmt.Printf("Error reading file: %v\n", err)
		os.Exit(1)
	}

	issues := mail.ValidateHTML(string(content))
	if len(issues) == 0 {
		fmt.Printf("✓ %s - No compatibility issues found\n", *file)
	} else {
		fmt.Printf("⚠ %s - Found %d issue(s):\n", *file, len(issues))
		for _, issue := range issues {
			fmt.Printf("  • %s\n", issue)
		}
		os.Exit(1)
	}
}

func sendCmd(args []string) {
	fs := flag.NewFlagSet("send", flag.ExitOnError)
	to := fs.String("to", "", "Recipient email address")
	file := fs.String("file", "", "HTML file to send")
	subject := fs.String("subject", "Pitchmail Test Email", "Email subject")
	fs.Parse(args)

	if *to == "" || *file == "" {
		fmt.Println("Error: -to and -file are required")
		os.Exit(1)
	}

	smtpCfg := mail.Config{
		SMTPHost:  "smtp.gmail.com",
		SMTPPort:  "587",
		Username:  os.Getenv("GMAIL_USERNAME"),
		Password:  os.Getenv("GMAIL_APP_PASSWORD"),
		FromEmail: os.Getenv("GMAIL_USERNAME"),
		FromName:  "Pitchmail",
	}
	if smtpCfg.Username == "" || smtpCfg.Password == "" {
		fmt.Println("Error: GMAIL_USERNAME and GMAIL_APP_PASSWORD environment variables required")
		os.Exit(1)
	}

	content, err := os.ReadFile(*file)
	if err != nil {
		fmt.Printf("Error reading file: %v\n", err)
		os.Exit(1)
	}

	if err := mail.Send(smtpCfg, *to, *subject, string(content)); err != nil {
		fmt.Printf("Error sending email: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✓ Email sent to %s\n", *to)
}
