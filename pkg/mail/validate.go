package mail

import (
	"fmt"
	"strings"
)

// gmailClipLimit is the body size above which Gmail truncates the message and
// hides the rest behind a "View entire message" link.
const gmailClipLimit = 102 * 1024

// ValidateHTML checks a rendered pitch email for problems that commonly break
// delivery or display: markup the MJML compiler should have produced but
// didn't, template placeholders that were never substituted, and CSS that
// Outlook and Gmail refuse to honor.
func ValidateHTML(htmlContent string) []string {
	var issues []string
	lower := strings.ToLower(htmlContent)

	if !strings.Contains(lower, "doctype html") {
		issues = append(issues, "Missing DOCTYPE declaration")
	}

	if !strings.Contains(lower, "charset") {
		issues = append(issues, "Missing charset declaration; non-ASCII business names may garble")
	}

	if strings.Contains(htmlContent, "{{") || strings.Contains(htmlContent, "}}") {
		issues = append(issues, "Unresolved template placeholder in body")
	}

	if !strings.Contains(htmlContent, "<!--[if mso") {
		issues = append(issues, "Missing Outlook conditional comments")
	}

	if !strings.Contains(htmlContent, "border-collapse:collapse") && !strings.Contains(htmlContent, "border-collapse: collapse") {
		issues = append(issues, "Missing border-collapse for table compatibility")
	}

	if strings.Contains(lower, "display: flex") || strings.Contains(lower, "display:flex") {
		issues = append(issues, "WARNING: CSS flexbox not supported in many email clients")
	}

	if strings.Contains(lower, "background-image") {
		issues = append(issues, "WARNING: Background images not supported in Outlook")
	}

	if len(htmlContent) > gmailClipLimit {
		issues = append(issues, fmt.Sprintf("WARNING: body is %d bytes; Gmail clips messages over %d bytes", len(htmlContent), gmailClipLimit))
	}

	return issues
}
