package cli

import (
	"bufio"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/mhoward/mailscope/internal/config"
	"github.com/mhoward/mailscope/internal/mailbox"
)

func (c *ConfigInitCmd) Run(ctx *Context) error {
	fmt.Println("Mailscope Configuration Wizard")
	fmt.Println("==============================")
	fmt.Println()
	fmt.Println("This wizard will help you configure mailscope to connect to your")
	fmt.Println("mail provider over IMAP. For Gmail and most other providers you")
	fmt.Println("will need an app-specific password, not your account password.")
	fmt.Println()

	reader := bufio.NewReader(os.Stdin)
	cfg := config.DefaultConfig()

	// Email
	fmt.Printf("Email address: ")
	email, _ := reader.ReadString('\n')
	email = strings.TrimSpace(email)
	if email == "" {
		return fmt.Errorf("email address is required")
	}
	cfg.Account.Email = email

	// IMAP Server (auto-detected when left empty)
	detected := config.IMAPHost(email)
	fmt.Printf("IMAP server [%s]: ", detected)
	server, _ := reader.ReadString('\n')
	server = strings.TrimSpace(server)
	if server != "" {
		cfg.Account.Server = server
	}

	// IMAP Port
	fmt.Printf("IMAP port [%d]: ", config.DefaultIMAPPort)
	portStr, _ := reader.ReadString('\n')
	portStr = strings.TrimSpace(portStr)
	if portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return fmt.Errorf("invalid IMAP port: %s", portStr)
		}
		cfg.Account.Port = port
	}

	// Password
	fmt.Println()
	for _, note := range config.ProviderNotes(email) {
		fmt.Printf("Note: %s\n", note)
	}
	fmt.Print("Password: ")

	passwordBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}
	password := string(passwordBytes)
	if password == "" {
		return fmt.Errorf("password is required")
	}

	configPath, err := config.ConfigPath()
	if err != nil {
		return err
	}

	if err := cfg.Save(ctx.Globals.Config); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	if err := cfg.SetPassword(password); err != nil {
		return fmt.Errorf("failed to store password in keyring: %w", err)
	}

	fmt.Println()
	fmt.Printf("Configuration saved to %s\n", configPath)
	fmt.Println("Password stored securely in system keyring.")
	fmt.Println()
	fmt.Println("Test your connection with: mailscope folders")

	return nil
}

func (c *ConfigShowCmd) Run(ctx *Context) error {
	if ctx.Config == nil {
		return fmt.Errorf("no configuration found - run 'mailscope config init' first")
	}

	server := ctx.Config.Account.Server
	if server == "" {
		server = config.IMAPHost(ctx.Config.Account.Email) + " (auto-detected)"
	}

	if ctx.Formatter.JSON {
		return ctx.Formatter.PrintJSON(map[string]interface{}{
			"account": map[string]interface{}{
				"email":  ctx.Config.Account.Email,
				"server": ctx.Config.Account.Server,
				"port":   ctx.Config.Account.Port,
			},
			"defaults": map[string]interface{}{
				"folder": ctx.Config.Defaults.Folder,
				"limit":  ctx.Config.Defaults.Limit,
			},
		})
	}

	configPath, _ := config.ConfigPath()
	fmt.Printf("Configuration file: %s\n\n", configPath)

	fmt.Println("Account:")
	fmt.Printf("  Email:  %s\n", ctx.Config.Account.Email)
	fmt.Printf("  Server: %s\n", server)
	fmt.Printf("  Port:   %d\n", ctx.Config.Account.Port)

	fmt.Println()
	fmt.Println("Defaults:")
	fmt.Printf("  Folder: %s\n", ctx.Config.Defaults.Folder)
	fmt.Printf("  Limit:  %d\n", ctx.Config.Defaults.Limit)

	_, err := ctx.Config.GetPassword()
	fmt.Println()
	if err != nil {
		fmt.Println("Password: not set (run 'mailscope config init' to set)")
	} else {
		fmt.Println("Password: ********** (stored in keyring)")
	}

	return nil
}

func (c *ConfigSetCmd) Run(ctx *Context) error {
	if ctx.Config == nil {
		ctx.Config = config.DefaultConfig()
	}

	parts := strings.Split(c.Key, ".")
	if len(parts) != 2 {
		return fmt.Errorf("invalid key format - use section.key (e.g., account.email, defaults.limit)")
	}

	section, key := parts[0], parts[1]

	switch section {
	case "account":
		switch key {
		case "email":
			ctx.Config.Account.Email = c.Value
		case "server":
			ctx.Config.Account.Server = c.Value
		case "port":
			port, err := strconv.Atoi(c.Value)
			if err != nil {
				return fmt.Errorf("invalid port value: %s", c.Value)
			}
			ctx.Config.Account.Port = port
		default:
			return fmt.Errorf("unknown account key: %s", key)
		}
	case "defaults":
		switch key {
		case "folder":
			ctx.Config.Defaults.Folder = c.Value
		case "limit":
			limit, err := strconv.Atoi(c.Value)
			if err != nil {
				return fmt.Errorf("invalid limit value: %s", c.Value)
			}
			ctx.Config.Defaults.Limit = limit
		default:
			return fmt.Errorf("unknown defaults key: %s", key)
		}
	default:
		return fmt.Errorf("unknown section: %s (use 'account' or 'defaults')", section)
	}

	if err := ctx.Config.Save(ctx.Globals.Config); err != nil {
		return err
	}

	ctx.Formatter.PrintSuccess(fmt.Sprintf("Set %s = %s", c.Key, c.Value))
	return nil
}

func (c *ConfigDoctorCmd) Run(ctx *Context) error {
	type checkResult struct {
		Name    string `json:"name"`
		Status  string `json:"status"`
		Message string `json:"message,omitempty"`
	}

	var results []checkResult

	addResult := func(name, status, message string) {
		results = append(results, checkResult{
			Name:    name,
			Status:  status,
			Message: message,
		})
	}

	printResult := func(status, name, message string) {
		if ctx.Formatter.JSON {
			return
		}
		prefix := "[OK]"
		if status == "fail" {
			prefix = "[FAIL]"
		}
		if message != "" {
			fmt.Printf("%s %s - %s\n", prefix, name, message)
		} else {
			fmt.Printf("%s %s\n", prefix, name)
		}
	}

	// Check 1: Config file exists
	configPath, err := config.ConfigPath()
	if err != nil {
		addResult("Config file exists", "fail", err.Error())
		printResult("fail", "Config file exists", err.Error())
	} else if !config.Exists() {
		addResult("Config file exists", "fail", fmt.Sprintf("not found at %s", configPath))
		printResult("fail", "Config file exists", fmt.Sprintf("not found at %s", configPath))
	} else {
		addResult("Config file exists", "ok", "")
		printResult("ok", "Config file exists", "")
	}

	// Check 2: Config file is valid YAML
	var cfg *config.Config
	if config.Exists() {
		cfg, err = config.Load("")
		if err != nil {
			addResult("Config valid", "fail", err.Error())
			printResult("fail", "Config valid", err.Error())
		} else {
			addResult("Config valid", "ok", "")
			printResult("ok", "Config valid", "")
		}
	}

	if cfg == nil {
		cfg = ctx.Config
	}
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	// Check 3: Email is configured
	if cfg.Account.Email == "" {
		addResult("Email configured", "fail", "no email address set")
		printResult("fail", "Email configured", "no email address set")
	} else {
		addResult("Email configured", "ok", cfg.Account.Email)
		printResult("ok", fmt.Sprintf("Email configured: %s", cfg.Account.Email), "")
	}

	// Check 4: Password exists in keyring
	if cfg.Account.Email != "" {
		_, err := cfg.GetPassword()
		if err != nil {
			addResult("Password in keyring", "fail", "password not found in keyring")
			printResult("fail", "Password in keyring", "password not found in keyring")
		} else {
			addResult("Password in keyring", "ok", "")
			printResult("ok", "Password in keyring", "")
		}
	} else {
		addResult("Password in keyring", "fail", "cannot check - email not configured")
		printResult("fail", "Password in keyring", "cannot check - email not configured")
	}

	// Check 5: IMAP server resolved
	host := cfg.Account.Server
	if host == "" {
		host = config.IMAPHost(cfg.Account.Email)
	}
	if host == "" {
		addResult("IMAP server resolved", "fail", "no server configured and none could be derived from the email address")
		printResult("fail", "IMAP server resolved", "no server configured and none could be derived from the email address")
	} else {
		addResult("IMAP server resolved", "ok", host)
		printResult("ok", fmt.Sprintf("IMAP server resolved: %s", host), "")
	}

	// Checks 6 and 7: TLS and STARTTLS ports reachable
	if host != "" {
		port := cfg.Account.Port
		if port == 0 {
			port = config.DefaultIMAPPort
		}
		for _, p := range []int{port, 143} {
			addr := net.JoinHostPort(host, strconv.Itoa(p))
			name := fmt.Sprintf("Port %d reachable", p)
			conn, err := net.DialTimeout("tcp", addr, 5*time.Second)
			if err != nil {
				addResult(name, "fail", fmt.Sprintf("cannot connect to %s", addr))
				printResult("fail", name, fmt.Sprintf("cannot connect to %s", addr))
			} else {
				conn.Close()
				addResult(name, "ok", addr)
				printResult("ok", fmt.Sprintf("%s (%s)", name, addr), "")
			}
		}
	}

	// Check 8: IMAP login succeeds
	if cfg.Account.Email != "" {
		password, err := cfg.GetPassword()
		if err != nil {
			addResult("IMAP login succeeds", "fail", "cannot test - password not available")
			printResult("fail", "IMAP login succeeds", "cannot test - password not available")
		} else {
			sess, err := mailbox.Connect(mailbox.ConnectOptions{
				Address: cfg.Account.Email,
				Secret:  password,
				Server:  cfg.Account.Server,
				Port:    cfg.Account.Port,
			})
			if err != nil {
				addResult("IMAP login succeeds", "fail", err.Error())
				printResult("fail", "IMAP login succeeds", err.Error())
			} else {
				sess.Disconnect()
				addResult("IMAP login succeeds", "ok", "")
				printResult("ok", "IMAP login succeeds", "")
			}
		}
	} else {
		addResult("IMAP login succeeds", "fail", "cannot test - email not configured")
		printResult("fail", "IMAP login succeeds", "cannot test - email not configured")
	}

	if ctx.Formatter.JSON {
		allOk := true
		for _, r := range results {
			if r.Status == "fail" {
				allOk = false
				break
			}
		}
		return ctx.Formatter.PrintJSON(map[string]interface{}{
			"checks":  results,
			"healthy": allOk,
		})
	}

	if !ctx.Formatter.JSON && cfg.Account.Email != "" {
		fmt.Println()
		fmt.Printf("Hints for %s:\n", cfg.Account.Email)
		for _, note := range config.ProviderNotes(cfg.Account.Email) {
			fmt.Printf("  - %s\n", note)
		}
	}

	return nil
}
