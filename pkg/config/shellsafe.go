package config

import (
	"strings"
	"unicode"

	"github.com/pkg/errors"
)

// dangerousPatterns are shell metacharacters that must never reach a
// generated script. Longer patterns are listed first so their error
// messages win over the single-character forms they contain.
var dangerousPatterns = []struct {
	pattern string
	desc    string
}{
	{">>", "append redirection"},
	{"<<", "here document"},
	{"||", "logical OR"},
	{"&&", "logical AND"},
	{";", "semicolon"},
	{"|", "pipe"},
	{"&", "ampersand"},
	{">", "output redirection"},
	{"<", "input redirection"},
	{"\n", "newline"},
	{"\r", "carriage return"},
}

// ShellSafeString validates that a value is safe to embed in a generated
// shell script. It rejects command substitution, shell metacharacters and
// control characters.
func ShellSafeString(value, fieldName string) error {
	if value == "" {
		return nil
	}

	if strings.Contains(value, "$(") {
		return errors.Errorf("%s contains dangerous command substitution '$(' pattern: %s", fieldName, value)
	}
	if strings.Contains(value, "`") {
		return errors.Errorf("%s contains dangerous command substitution backtick '`' pattern: %s", fieldName, value)
	}

	for _, dc := range dangerousPatterns {
		if strings.Contains(value, dc.pattern) {
			return errors.Errorf("%s contains dangerous character '%s' (%s): %s", fieldName, dc.pattern, dc.desc, value)
		}
	}

	for _, r := range value {
		if unicode.IsControl(r) && r != '\t' {
			return errors.Errorf("%s contains control character (code %d)", fieldName, r)
		}
	}

	return nil
}

// shellSafeWithVars is ShellSafeString for fields where ${VAR} expansion is
// expected, so '$' passes but command substitution still does not.
func shellSafeWithVars(value, fieldName string) error {
	if strings.Contains(value, "$(") || strings.Contains(value, "`") {
		return errors.Errorf("%s contains dangerous command substitution: %s", fieldName, value)
	}
	for _, dc := range dangerousPatterns {
		if strings.Contains(value, dc.pattern) {
			return errors.Errorf("%s contains dangerous character '%s': %s", fieldName, dc.pattern, value)
		}
	}
	return nil
}

// ValidateForScript checks every field that gets embedded in a generated
// bootstrap script. Template and directory fields may carry ${VAR}
// references; everything else must be fully literal.
func (c *Config) ValidateForScript() error {
	if err := ShellSafeString(StringValue(c.Repo), "repo"); err != nil {
		return err
	}
	if err := ShellSafeString(StringValue(c.BinName), "bin_name"); err != nil {
		return err
	}
	if err := ShellSafeString(StringValue(c.Crate), "crate"); err != nil {
		return err
	}
	if err := shellSafeWithVars(StringValue(c.AssetTemplate), "asset_template"); err != nil {
		return err
	}
	if err := shellSafeWithVars(StringValue(c.InstallDir), "install_dir"); err != nil {
		return err
	}
	return c.Validate()
}
