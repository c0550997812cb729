package notifications

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"lendwire/internal/request"
	"lendwire/internal/tier"
)

// Attachment colors keyed by request status. Anything unknown falls back to
// the neutral info color.
const (
	colorPending  = "#fbbf24"
	colorApproved = "#10b981"
	colorRejected = "#ef4444"
	colorInfo     = "#3b82f6"
)

const dateLayout = "Jan 2, 2006, 03:04 PM"

// Message is an incoming-webhook payload.
type Message struct {
	Text        string       `json:"text"`
	Username    string       `json:"username,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

// Attachment is one colored block within a Message.
type Attachment struct {
	Color  string  `json:"color,omitempty"`
	Title  string  `json:"title,omitempty"`
	Fields []Field `json:"fields,omitempty"`
	Footer string  `json:"footer,omitempty"`
	Ts     string  `json:"ts,omitempty"`
}

// Field is a labeled value inside an attachment. Short fields render
// side by side.
type Field struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Short bool   `json:"short"`
}

var titleCaser = cases.Title(language.AmericanEnglish)

func tierLabel(tr tier.Tier) string {
	return titleCaser.String(string(tr))
}

func statusColor(status request.Status) string {
	switch status {
	case request.StatusApproved:
		return colorApproved
	case request.StatusRejected:
		return colorRejected
	case request.StatusPending:
		return colorPending
	default:
		return colorInfo
	}
}

func statusEmoji(status request.Status) string {
	switch status {
	case request.StatusApproved:
		return "✅"
	case request.StatusRejected:
		return "❌"
	case request.StatusPending:
		return "⏳"
	default:
		return "ℹ️"
	}
}

func slackTimestamp(now time.Time) string {
	return strconv.FormatInt(now.Unix(), 10)
}

func newRequestMessage(req request.Request, tr tier.Tier, th tier.Thresholds, footer string, now time.Time) Message {
	amount := tier.FormatAmount(req.LoanAmount)
	attachment := Attachment{
		Color: tr.Color(),
		Title: fmt.Sprintf("🔔 New %s Loan Request: %s", tierLabel(tr), amount),
		Fields: []Field{
			{Title: "Borrower", Value: req.BorrowerName, Short: true},
			{Title: "Amount", Value: fmt.Sprintf("*%s*", amount), Short: true},
			{Title: "Status", Value: string(req.Status), Short: true},
			{Title: "Submitted", Value: req.SubmittedAt.Format(dateLayout), Short: true},
			{Title: "Request ID", Value: req.ID, Short: false},
			{Title: "Loan Tier", Value: fmt.Sprintf("%s (%s)", tierLabel(tr), th.Description(tr)), Short: false},
		},
		Footer: footer,
		Ts:     slackTimestamp(now),
	}
	return Message{
		Text:        fmt.Sprintf("New %s loan request: *%s* for %s", tr, amount, req.BorrowerName),
		Attachments: []Attachment{attachment},
	}
}

func statusChangedMessage(req request.Request, tr tier.Tier, footer string, now time.Time) Message {
	amount := tier.FormatAmount(req.LoanAmount)
	attachment := Attachment{
		Color: statusColor(req.Status),
		Title: fmt.Sprintf("%s %s Loan Request (%s) Status Updated", statusEmoji(req.Status), tierLabel(tr), amount),
		Fields: []Field{
			{Title: "Borrower", Value: req.BorrowerName, Short: true},
			{Title: "Amount", Value: fmt.Sprintf("*%s*", amount), Short: true},
			{Title: "New Status", Value: fmt.Sprintf("*%s*", req.Status), Short: true},
			{Title: "Request ID", Value: req.ID, Short: false},
		},
		Footer: footer,
		Ts:     slackTimestamp(now),
	}
	return Message{
		Text:        fmt.Sprintf("%s loan request %s: *%s* for %s", tierLabel(tr), strings.ToLower(string(req.Status)), amount, req.BorrowerName),
		Attachments: []Attachment{attachment},
	}
}

func connectionTestMessage(tr tier.Tier, th tier.Thresholds, footer string, now time.Time) Message {
	attachment := Attachment{
		Color: tr.Color(),
		Title: fmt.Sprintf("Connection Test: %s Loan Channel", tierLabel(tr)),
		Fields: []Field{
			{Title: "Status", Value: "✅ Webhook connection is working!", Short: false},
			{Title: "Tier Description", Value: th.Description(tr), Short: false},
			{Title: "Color Sample", Value: fmt.Sprintf("This channel uses %s as its primary color.", tr.Color()), Short: false},
		},
		Footer: footer + " - Test",
		Ts:     slackTimestamp(now),
	}
	return Message{
		Text:        fmt.Sprintf("🧪 Test notification for %s tier channel", tr),
		Attachments: []Attachment{attachment},
	}
}
