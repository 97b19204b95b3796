package cli

import "fmt"

func (c *FoldersCmd) Run(ctx *Context) error {
	sess, err := connectSession(ctx)
	if err != nil {
		return err
	}
	defer sess.Disconnect()

	ctx.Formatter.Verbosef("Listing folders...")

	folders := sess.ListFolders()

	if ctx.Formatter.JSON {
		return ctx.Formatter.PrintJSON(map[string]interface{}{
			"count":   len(folders),
			"folders": folders,
		})
	}

	fmt.Printf("Folders (%d):\n\n", len(folders))

	table := ctx.Formatter.NewTable("NAME", "CLASS")
	for _, f := range folders {
		table.AddRow(f.Name, f.Class)
	}
	table.Flush()

	return nil
}
