// Package ui provides the server-rendered operator dashboard.
package ui

import (
	"fmt"
	"time"

	"github.com/reelforge/pitchmail/pkg/queue"

	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"
)

// Layout wraps content in the base HTML layout.
func Layout(title string, content ...g.Node) g.Node {
	return h.HTML(
		h.Lang("en"),
		h.Head(
			h.Meta(h.Charset("utf-8")),
			h.Meta(h.Name("viewport"), h.Content("width=device-width, initial-scale=1")),
			h.TitleEl(g.Text(title)),
			h.StyleEl(h.Type("text/css"), g.Raw(styles)),
		),
		h.Body(
			h.Nav(h.Class("navbar"),
				h.Div(h.Class("nav-brand"), g.Text("pitchmail")),
				h.Div(h.Class("nav-links"),
					h.A(h.Href("/"), g.Text("Dashboard")),
					h.A(h.Href("/emails"), g.Text("Emails")),
					h.A(h.Href("/preview"), g.Text("Preview")),
				),
			),
			h.Main(h.Class("container"), g.Group(content)),
			h.Footer(h.Class("footer"),
				g.Text("pitchmail - video pitch outreach"),
			),
		),
	)
}

// Dashboard renders the main dashboard page.
func Dashboard(stats map[string]int, recent []*queue.EmailJob) g.Node {
	return Layout("Dashboard - pitchmail",
		h.H1(g.Text("Pitch Dispatch Dashboard")),

		h.Div(h.Class("stats-grid"),
			StatCard(stats["pending"], "Pending"),
			StatCard(stats["retrying"], "Retrying"),
			StatCard(stats["sent"], "Sent"),
			StatCard(stats["failed"], "Failed"),
		),

		h.Div(h.Class("section"),
			h.H2(g.Text("Recent Dispatches")),
			emailTable(recent),
		),
	)
}

// StatCard renders a statistics card.
func StatCard(value int, label string) g.Node {
	return h.Div(h.Class("stat-card"),
		h.Div(h.Class("stat-value"), g.Text(fmt.Sprintf("%d", value))),
		h.Div(h.Class("stat-label"), g.Text(label)),
	)
}

// EmailsPage renders the dispatch history with an optional status filter.
func EmailsPage(status string, jobs []*queue.EmailJob) g.Node {
	title := "Emails"
	if status != "" && status != "all" {
		title = "Emails - " + status
	}

	return Layout(title+" - pitchmail",
		h.H1(g.Text("Dispatch History")),

		h.Div(h.Class("filter-links"),
			filterLink("all", status),
			filterLink("pending", status),
			filterLink("retrying", status),
			filterLink("sent", status),
			filterLink("failed", status),
		),

		emailTable(jobs),
	)
}

func filterLink(name, active string) g.Node {
	href := "/emails"
	if name != "all" {
		href += "?status=" + name
	}
	node := h.A(h.Href(href), g.Text(name))
	if name == active || (name == "all" && active == "") {
		return h.Span(h.Class("filter-active"), node)
	}
	return node
}

func emailTable(jobs []*queue.EmailJob) g.Node {
	if len(jobs) == 0 {
		return h.P(h.Class("hint"), g.Text("No emails yet."))
	}

	rows := make([]g.Node, 0, len(jobs))
	for _, job := range jobs {
		rows = append(rows, h.Tr(
			h.Td(h.Class("mono"), g.Text(shortID(job.ID))),
			h.Td(g.Text(job.Business)),
			h.Td(g.Text(job.Recipient)),
			h.Td(statusBadge(job.Status)),
			h.Td(g.Text(fmt.Sprintf("%d/%d", job.Attempts, job.MaxAttempts))),
			h.Td(g.Text(job.CreatedAt.Format(time.RFC3339))),
		))
	}

	return h.Table(h.Class("email-table"),
		h.THead(h.Tr(
			h.Th(g.Text("ID")),
			h.Th(g.Text("Business")),
			h.Th(g.Text("Recipient")),
			h.Th(g.Text("Status")),
			h.Th(g.Text("Attempts")),
			h.Th(g.Text("Created")),
		)),
		h.TBody(rows...),
	)
}

func statusBadge(status string) g.Node {
	return h.Span(h.Class("badge badge-"+status), g.Text(status))
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

const styles = `
* { box-sizing: border-box; margin: 0; padding: 0; }
body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", sans-serif; background: #f5f6f8; color: #1f2430; }
.navbar { display: flex; justify-content: space-between; align-items: center; padding: 0.75rem 1.5rem; background: #1f2430; color: #fff; }
.nav-brand { font-weight: 700; font-size: 1.1rem; }
.nav-links a { color: #c9d1e0; text-decoration: none; margin-left: 1.25rem; }
.nav-links a:hover { color: #fff; }
.container { max-width: 960px; margin: 0 auto; padding: 1.5rem; }
.footer { text-align: center; padding: 1.5rem; color: #8a93a5; font-size: 0.85rem; }
h1 { margin-bottom: 1rem; }
h2 { margin-bottom: 0.75rem; }
.section { margin-top: 2rem; }
.stats-grid { display: grid; grid-template-columns: repeat(auto-fit, minmax(140px, 1fr)); gap: 1rem; }
.stat-card { background: #fff; border-radius: 8px; padding: 1rem; text-align: center; box-shadow: 0 1px 3px rgba(0,0,0,0.08); }
.stat-value { font-size: 1.8rem; font-weight: 700; }
.stat-label { color: #8a93a5; font-size: 0.85rem; margin-top: 0.25rem; }
.filter-links { margin-bottom: 1rem; }
.filter-links a { margin-right: 1rem; color: #3b6fe0; text-decoration: none; }
.filter-active a { font-weight: 700; color: #1f2430; }
.email-table { width: 100%; border-collapse: collapse; background: #fff; border-radius: 8px; overflow: hidden; box-shadow: 0 1px 3px rgba(0,0,0,0.08); }
.email-table th, .email-table td { padding: 0.6rem 0.8rem; text-align: left; font-size: 0.9rem; }
.email-table th { background: #eef0f4; color: #5a6374; }
.email-table tr + tr td { border-top: 1px solid #eef0f4; }
.mono { font-family: ui-monospace, SFMono-Regular, Menlo, monospace; font-size: 0.85rem; }
.badge { padding: 0.15rem 0.5rem; border-radius: 999px; font-size: 0.75rem; }
.badge-pending { background: #fdf3d8; color: #92700c; }
.badge-retrying { background: #fde8d8; color: #a2540c; }
.badge-sent { background: #dcf5e3; color: #13713a; }
.badge-failed { background: #fadddd; color: #a01f1f; }
.hint { color: #8a93a5; }
`
