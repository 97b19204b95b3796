package cli

import (
	"fmt"
	"net/mail"
	"time"

	"github.com/mhoward/mailscope/internal/config"
	"github.com/mhoward/mailscope/internal/mailbox"
)

// displayCap bounds how many rows the result table shows; the full set is
// still available via --json.
const displayCap = 50

func (f filterFlags) toFilter(defaults config.DefaultsConfig) (mailbox.Filter, string, error) {
	filter := mailbox.Filter{
		From:    f.From,
		To:      f.To,
		Cc:      f.Cc,
		Subject: f.Subject,
		Limit:   f.Limit,
	}

	if f.Since != "" {
		t, err := parseDay(f.Since)
		if err != nil {
			return filter, "", fmt.Errorf("invalid --since date %q - use YYYY-MM-DD", f.Since)
		}
		filter.Since = t
	}
	if f.Before != "" {
		t, err := parseDay(f.Before)
		if err != nil {
			return filter, "", fmt.Errorf("invalid --before date %q - use YYYY-MM-DD", f.Before)
		}
		filter.Before = t
	}

	if filter.Limit == 0 {
		filter.Limit = defaults.Limit
	}

	folder := f.Folder
	if folder == "" {
		folder = defaults.Folder
	}
	if folder == "" {
		folder = config.DefaultFolder
	}

	return filter, folder, nil
}

func parseDay(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

func (c *SearchCmd) Run(ctx *Context) error {
	filter, folder, err := c.toFilter(ctx.Config.Defaults)
	if err != nil {
		return err
	}
	if filter.Empty() {
		return fmt.Errorf("at least one of --from, --to, --cc, --subject, --since, --before is required")
	}

	sess, err := connectSession(ctx)
	if err != nil {
		return err
	}
	defer sess.Disconnect()

	ctx.Formatter.Verbosef("Searching %s...", folder)

	ids, err := sess.Search(filter, folder)
	if err != nil {
		return err
	}

	if len(ids) == 0 {
		if ctx.Formatter.JSON {
			return ctx.Formatter.PrintJSON(map[string]interface{}{
				"folder":   folder,
				"count":    0,
				"messages": []mailbox.MessageRecord{},
			})
		}
		fmt.Println("No messages found.")
		return nil
	}

	result := sess.FetchDetails(ids, 0)

	if ctx.Formatter.JSON {
		messages := result.Records
		if !c.Body {
			for i := range messages {
				messages[i].Body = ""
			}
		}
		return ctx.Formatter.PrintJSON(map[string]interface{}{
			"folder":   folder,
			"count":    len(messages),
			"failed":   result.Failed,
			"messages": messages,
		})
	}

	if result.Failed > 0 {
		fmt.Println(ctx.Formatter.WarningText(
			fmt.Sprintf("Skipped %d message(s) that could not be fetched; results may be incomplete.", result.Failed)))
	}

	fmt.Printf("Found %d message(s):\n\n", len(result.Records))
	printRecordTable(ctx, result.Records)
	return nil
}

func printRecordTable(ctx *Context, records []mailbox.MessageRecord) {
	table := ctx.Formatter.NewTable("FROM", "SUBJECT", "DATE", "FOLDER")
	shown := records
	if len(shown) > displayCap {
		shown = shown[:displayCap]
	}

	for _, rec := range shown {
		table.AddRow(
			truncate(rec.From, 30),
			truncate(rec.Subject, 50),
			formatDate(rec.Date),
			rec.Folder,
		)
	}
	table.Flush()

	if len(records) > displayCap {
		fmt.Printf("\n... and %d more message(s) (use --json for the full set)\n", len(records)-displayCap)
	}
}

// formatDate normalizes an RFC 5322 date for display, falling back to a
// clipped raw value for dates the server sent malformed.
func formatDate(raw string) string {
	if t, err := mail.ParseDate(raw); err == nil {
		return t.Format("2006-01-02 15:04")
	}
	if len(raw) > 20 {
		return raw[:20]
	}
	return raw
}

// truncate shortens a string to max length with ellipsis
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
