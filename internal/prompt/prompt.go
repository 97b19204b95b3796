// Package prompt turns fetched messages into a text prompt for an external
// language-model analysis step. Pure templating; nothing here touches the
// network.
package prompt

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mhoward/mailscope/internal/mailbox"
)

const header = `You are analyzing a set of email messages on behalf of their owner.
The messages below were fetched live from the owner's mailbox and are not
stored anywhere else. Treat the content as private.`

// Build assembles the analysis prompt from fetched records and the user's
// free-text request.
func Build(records []mailbox.MessageRecord, request string) string {
	var b strings.Builder

	b.WriteString(header)
	fmt.Fprintf(&b, "\n\nMessages (%d):\n", len(records))

	for i, rec := range records {
		fmt.Fprintf(&b, "\n=== Message %d ===\n", i+1)
		fmt.Fprintf(&b, "Folder: %s\n", rec.Folder)
		fmt.Fprintf(&b, "From: %s\n", rec.From)
		fmt.Fprintf(&b, "To: %s\n", rec.To)
		if rec.Cc != "" {
			fmt.Fprintf(&b, "Cc: %s\n", rec.Cc)
		}
		fmt.Fprintf(&b, "Date: %s\n", rec.Date)
		fmt.Fprintf(&b, "Subject: %s\n", rec.Subject)
		if rec.Body != "" {
			fmt.Fprintf(&b, "Body:\n%s\n", rec.Body)
		}
	}

	b.WriteString("\nAnalysis request:\n")
	b.WriteString(strings.TrimSpace(request))
	b.WriteString("\n")

	return b.String()
}

// DefaultFilename names the generated prompt file with a timestamp.
func DefaultFilename(now time.Time) string {
	return "email_analysis_prompt_" + now.Format("20060102_150405") + ".txt"
}

// Save writes the prompt as UTF-8 text.
func Save(path, content string) error {
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write prompt file: %w", err)
	}
	return nil
}
