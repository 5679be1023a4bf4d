package meeting

import (
	"fmt"
	"strings"
	"time"

	"github.com/trackteam/action-tracker/internal/domain/entities"
)

// Email content types. summary is the default.
const (
	emailTypeSummary   = "summary"
	emailTypeDecisions = "decisions"
	emailTypeActions   = "actions"
	emailTypeFull      = "full"
)

func validEmailType(t string) bool {
	switch t {
	case emailTypeSummary, emailTypeDecisions, emailTypeActions, emailTypeFull:
		return true
	}
	return false
}

// formatMeetingEmail renders the HTML and plain-text bodies for a meeting
// summary email. The type selects which sections are included; blockers only
// appear in the full version.
func formatMeetingEmail(m *entities.Meeting, emailType string) (htmlBody, textBody string) {
	summary := m.Summary.Data()

	var html strings.Builder
	html.WriteString("<html><body>")
	html.WriteString(fmt.Sprintf("<h2>%s</h2>", m.Title))
	html.WriteString(fmt.Sprintf("<p><strong>Date:</strong> %s</p>", m.ProcessedAt.Format(time.RFC3339)))
	html.WriteString(fmt.Sprintf("<p><strong>Processed by:</strong> %s</p>", m.OwnerName))
	html.WriteString("<hr>")

	var text strings.Builder
	text.WriteString(m.Title + "\n")
	text.WriteString(fmt.Sprintf("Date: %s\n", m.ProcessedAt.Format(time.RFC3339)))
	text.WriteString(fmt.Sprintf("Processed by: %s\n\n---\n", m.OwnerName))

	if emailType == emailTypeSummary || emailType == emailTypeFull {
		html.WriteString("<h3>Summary</h3><ul>")
		html.WriteString(fmt.Sprintf("<li><strong>Total Actions:</strong> %d</li>", summary.TotalActions))
		html.WriteString(fmt.Sprintf("<li><strong>Decisions:</strong> %d</li>", summary.TotalDecisions))
		html.WriteString(fmt.Sprintf("<li><strong>Blockers:</strong> %d</li>", summary.TotalBlockers))
		html.WriteString(fmt.Sprintf("<li><strong>Unassigned Actions:</strong> %d</li>", summary.UnassignedActions))
		html.WriteString("</ul>")

		text.WriteString("Summary:\n")
		text.WriteString(fmt.Sprintf("  - Total Actions: %d\n", summary.TotalActions))
		text.WriteString(fmt.Sprintf("  - Decisions: %d\n", summary.TotalDecisions))
		text.WriteString(fmt.Sprintf("  - Blockers: %d\n", summary.TotalBlockers))
		text.WriteString(fmt.Sprintf("  - Unassigned Actions: %d\n\n", summary.UnassignedActions))
	}

	if emailType == emailTypeDecisions || emailType == emailTypeFull {
		decisions := tasksByIntent(m, entities.IntentDecision)
		if len(decisions) > 0 {
			html.WriteString("<h3>Key Decisions</h3><ul>")
			text.WriteString("Key Decisions:\n")
			for i, d := range decisions {
				html.WriteString(fmt.Sprintf("<li><strong>%d.</strong> %s</li>", i+1, d.Description))
				text.WriteString(fmt.Sprintf("  %d. %s\n", i+1, d.Description))
			}
			html.WriteString("</ul>")
			text.WriteString("\n")
		}
	}

	if emailType == emailTypeActions || emailType == emailTypeFull {
		actions := tasksByIntent(m, entities.IntentAction)
		if len(actions) > 0 {
			html.WriteString("<h3>Action Items</h3><ul>")
			text.WriteString("Action Items:\n")
			for i, a := range actions {
				owner := a.Owner
				if owner == "" {
					owner = entities.UnassignedOwner
				}
				html.WriteString(fmt.Sprintf("<li><strong>%d.</strong> %s <em>(Owner: %s)</em></li>", i+1, a.Description, owner))
				text.WriteString(fmt.Sprintf("  %d. %s (Owner: %s)\n", i+1, a.Description, owner))
			}
			html.WriteString("</ul>")
			text.WriteString("\n")
		}
	}

	if emailType == emailTypeFull {
		blockers := tasksByIntent(m, entities.IntentBlocker)
		if len(blockers) > 0 {
			html.WriteString("<h3>Blockers</h3><ul>")
			text.WriteString("Blockers:\n")
			for i, b := range blockers {
				html.WriteString(fmt.Sprintf("<li><strong>%d.</strong> %s</li>", i+1, b.Description))
				text.WriteString(fmt.Sprintf("  %d. %s\n", i+1, b.Description))
			}
			html.WriteString("</ul>")
			text.WriteString("\n")
		}
	}

	html.WriteString("</body></html>")
	return html.String(), text.String()
}

func tasksByIntent(m *entities.Meeting, intent entities.TaskIntent) []entities.Task {
	var out []entities.Task
	for i := range m.Tasks {
		if m.Tasks[i].Intent == intent {
			out = append(out, m.Tasks[i])
		}
	}
	return out
}
