package config

import "strings"

// Provider describes the known IMAP settings for a mail provider, plus the
// setup notes users most often need (app passwords, IMAP enablement).
type Provider struct {
	Host  string
	Notes []string
}

var providers = map[string]Provider{
	"gmail.com": {
		Host: "imap.gmail.com",
		Notes: []string{
			"Use an App Password instead of your regular password",
			"Enable 2-factor authentication first, then create one under Google Account > Security > App passwords",
		},
	},
	"outlook.com": {
		Host: "outlook.office365.com",
		Notes: []string{
			"Regular password should work; with 2FA enabled you may need an app password",
		},
	},
	"hotmail.com": {
		Host: "outlook.office365.com",
		Notes: []string{
			"Regular password should work; with 2FA enabled you may need an app password",
		},
	},
	"live.com": {
		Host: "outlook.office365.com",
		Notes: []string{
			"Regular password should work; with 2FA enabled you may need an app password",
		},
	},
	"yahoo.com": {
		Host: "imap.mail.yahoo.com",
		Notes: []string{
			"Generate an app password under Yahoo Account Security and use it instead of your regular password",
		},
	},
	"icloud.com": {
		Host: "imap.mail.me.com",
		Notes: []string{
			"Use an app-specific password from Apple ID > Sign-In and Security > App-Specific Passwords",
		},
	},
	"me.com": {
		Host: "imap.mail.me.com",
		Notes: []string{
			"Use an app-specific password from Apple ID > Sign-In and Security > App-Specific Passwords",
		},
	},
	"aol.com": {
		Host: "imap.aol.com",
		Notes: []string{
			"IMAP may need to be enabled in your AOL mail settings",
		},
	},
}

func emailDomain(address string) string {
	idx := strings.LastIndex(address, "@")
	if idx < 0 || idx == len(address)-1 {
		return ""
	}
	return strings.ToLower(address[idx+1:])
}

// IMAPHost resolves the IMAP server for an email address. Unknown domains
// fall back to the imap.<domain> convention; an address with no domain
// yields an empty host.
func IMAPHost(address string) string {
	domain := emailDomain(address)
	if domain == "" {
		return ""
	}
	if p, ok := providers[domain]; ok {
		return p.Host
	}
	return "imap." + domain
}

// ProviderNotes returns setup guidance for an address's provider.
func ProviderNotes(address string) []string {
	domain := emailDomain(address)
	if p, ok := providers[domain]; ok {
		return p.Notes
	}
	return []string{
		"IMAP server auto-detected as imap." + domain + " - if that is wrong, set account.server explicitly",
		"Check that IMAP access is enabled for your account and whether an app password is required",
	}
}
