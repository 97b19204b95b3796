package cli

import (
	"fmt"
	"time"

	"github.com/mhoward/mailscope/internal/prompt"
)

func (c *PromptCmd) Run(ctx *Context) error {
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

	ids, err := sess.Search(filter, folder)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return fmt.Errorf("no messages matched the filter - nothing to analyze")
	}

	result := sess.FetchDetails(ids, 0)
	if len(result.Records) == 0 {
		return fmt.Errorf("all %d matching message(s) failed to fetch", len(ids))
	}
	if result.Failed > 0 {
		ctx.Formatter.Verbosef("Skipped %d message(s) that could not be fetched", result.Failed)
	}

	content := prompt.Build(result.Records, c.Request)

	path := c.Out
	if path == "" {
		path = prompt.DefaultFilename(time.Now())
	}
	if err := prompt.Save(path, content); err != nil {
		return err
	}

	if ctx.Formatter.JSON {
		return ctx.Formatter.PrintJSON(map[string]interface{}{
			"success":  true,
			"path":     path,
			"messages": len(result.Records),
			"failed":   result.Failed,
		})
	}

	ctx.Formatter.PrintSuccess(fmt.Sprintf("Prompt with %d message(s) written to %s", len(result.Records), path))
	return nil
}
