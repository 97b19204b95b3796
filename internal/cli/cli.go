package cli

import (
	"errors"
	"fmt"

	"github.com/mhoward/mailscope/internal/config"
	"github.com/mhoward/mailscope/internal/mailbox"
	"github.com/mhoward/mailscope/internal/output"
)

var Version = "0.1.0"

type Globals struct {
	JSON    bool   `help:"Output as JSON" name:"json"`
	Config  string `help:"Path to config file" short:"c" type:"path"`
	Verbose bool   `help:"Verbose output" short:"v"`
	Quiet   bool   `help:"Suppress non-essential output" short:"q"`
}

type CLI struct {
	Globals

	Config  ConfigCmd  `cmd:"" help:"Configuration management"`
	Folders FoldersCmd `cmd:"" help:"List mailbox folders"`
	Search  SearchCmd  `cmd:"" help:"Search messages by sender, recipient, subject or date"`
	Stats   StatsCmd   `cmd:"" help:"Sender and keyword statistics for a folder"`
	Prompt  PromptCmd  `cmd:"" help:"Assemble an analysis prompt from matching messages"`
	Version VersionCmd `cmd:"" help:"Show version information"`
}

type Context struct {
	Config    *config.Config
	Formatter *output.Formatter
	Globals   *Globals
}

func NewContext(globals *Globals) (*Context, error) {
	formatter := output.New(globals.JSON, globals.Verbose, globals.Quiet)

	var cfg *config.Config
	var err error

	if globals.Config != "" {
		cfg, err = config.Load(globals.Config)
	} else if config.Exists() {
		cfg, err = config.Load("")
	}

	if err != nil && cfg == nil {
		cfg = config.DefaultConfig()
	}
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	return &Context{
		Config:    cfg,
		Formatter: formatter,
		Globals:   globals,
	}, nil
}

// ConfigCmd handles configuration management
type ConfigCmd struct {
	Init   ConfigInitCmd   `cmd:"" help:"Interactive setup wizard"`
	Show   ConfigShowCmd   `cmd:"" help:"Display current configuration"`
	Set    ConfigSetCmd    `cmd:"" help:"Set a configuration value"`
	Doctor ConfigDoctorCmd `cmd:"" help:"Diagnose connection issues"`
}

type ConfigInitCmd struct{}

type ConfigShowCmd struct{}

type ConfigSetCmd struct {
	Key   string `arg:"" help:"Configuration key (e.g., account.email, defaults.limit)"`
	Value string `arg:"" help:"Value to set"`
}

type ConfigDoctorCmd struct{}

type FoldersCmd struct{}

// filterFlags are shared by every command that runs a search.
type filterFlags struct {
	Folder  string `help:"Folder to search" short:"m"`
	From    string `help:"Filter by sender address"`
	To      string `help:"Filter by recipient address"`
	Cc      string `help:"Filter by CC address"`
	Subject string `help:"Filter by subject keyword" short:"s"`
	Since   string `help:"Messages on or after date (YYYY-MM-DD)"`
	Before  string `help:"Messages before date (YYYY-MM-DD)"`
	Limit   int    `help:"Maximum results" short:"n"`
}

type SearchCmd struct {
	filterFlags
	Body bool `help:"Include message bodies in JSON output"`
}

type StatsCmd struct {
	Folder string `help:"Folder to analyze" short:"m"`
}

type PromptCmd struct {
	Request string `arg:"" help:"Free-text analysis request for the model"`
	filterFlags
	Out string `help:"Output path (default: timestamped file in the working directory)" short:"o"`
}

type VersionCmd struct{}

// connectSession opens an authenticated session using the configured
// account. On total connection failure it prints provider-specific
// remediation notes before returning the error.
func connectSession(ctx *Context) (*mailbox.Session, error) {
	if ctx.Config.Account.Email == "" {
		return nil, fmt.Errorf("not configured - run 'mailscope config init' first")
	}

	password, err := ctx.Config.GetPassword()
	if err != nil {
		return nil, err
	}

	ctx.Formatter.Verbosef("Connecting to %s...", ctx.Config.Account.Email)

	sess, err := mailbox.Connect(mailbox.ConnectOptions{
		Address: ctx.Config.Account.Email,
		Secret:  password,
		Server:  ctx.Config.Account.Server,
		Port:    ctx.Config.Account.Port,
		Sink:    ctx.Formatter,
	})
	if err != nil {
		var connErr *mailbox.ConnectError
		if errors.As(err, &connErr) && !ctx.Formatter.JSON {
			printConnectHelp(ctx, connErr)
		}
		return nil, err
	}

	ctx.Formatter.Verbosef("Connected via %s", sess.Strategy)
	return sess, nil
}

func printConnectHelp(ctx *Context, connErr *mailbox.ConnectError) {
	fmt.Println("All connection attempts failed:")
	for _, attempt := range connErr.Attempts {
		fmt.Printf("  - %s\n", attempt)
	}
	fmt.Println()
	fmt.Printf("Hints for %s:\n", ctx.Config.Account.Email)
	for _, note := range config.ProviderNotes(ctx.Config.Account.Email) {
		fmt.Printf("  - %s\n", note)
	}
}
