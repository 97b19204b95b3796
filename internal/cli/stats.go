package cli

import (
	"fmt"
	"strconv"

	"github.com/mhoward/mailscope/internal/config"
)

func (c *StatsCmd) Run(ctx *Context) error {
	folder := c.Folder
	if folder == "" {
		folder = ctx.Config.Defaults.Folder
	}
	if folder == "" {
		folder = config.DefaultFolder
	}

	sess, err := connectSession(ctx)
	if err != nil {
		return err
	}
	defer sess.Disconnect()

	ctx.Formatter.Verbosef("Analyzing %s...", folder)

	snapshot, err := sess.Summarize(folder)
	if err != nil {
		return err
	}

	if ctx.Formatter.JSON {
		return ctx.Formatter.PrintJSON(snapshot)
	}

	fmt.Printf("Statistics for %s:\n", snapshot.Folder)
	fmt.Printf("  Total messages: %d\n", snapshot.TotalMessages)
	fmt.Printf("  Analyzed:       %d\n", snapshot.Analyzed)
	if snapshot.Analyzed < snapshot.TotalMessages {
		fmt.Println(ctx.Formatter.MutedText("  (sampled to the most recent messages)"))
	}

	if len(snapshot.TopSenders) > 0 {
		fmt.Println("\nTop senders:")
		table := ctx.Formatter.NewTable("SENDER", "COUNT")
		for _, s := range snapshot.TopSenders {
			table.AddRow(s.Sender, strconv.Itoa(s.Count))
		}
		table.Flush()
	}

	if len(snapshot.TopKeywords) > 0 {
		fmt.Println("\nTop subject keywords:")
		table := ctx.Formatter.NewTable("KEYWORD", "COUNT")
		for _, k := range snapshot.TopKeywords {
			table.AddRow(k.Keyword, strconv.Itoa(k.Count))
		}
		table.Flush()
	}

	return nil
}
