package ledger

import (
	"context"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Audit modes accepted by the audit_mode option.
const (
	AuditFailFast   = "fail_fast"
	AuditCollectAll = "collect_all"
)

// NamePlaceholder is replaced in name search terms by Config.NamePlaceholder.
const NamePlaceholder = "{naam}"

// Config holds the options of a ledger file.
type Config struct {
	Currency string

	// NamePlaceholder is the expression substituted for {naam} in name searches.
	NamePlaceholder string

	AuditMode       string
	CashCodes       []string
	TransferMarkers []string
}

// NewConfig returns the defaults.
func NewConfig() *Config {
	return &Config{
		Currency:        "EUR",
		NamePlaceholder: `\w+(\s+\w+)?`,
		AuditMode:       AuditFailFast,
		CashCodes:       []string{"GM", "BA"},
		TransferMarkers: []string{"transfer", "correction"},
	}
}

// optionValues decodes either a scalar or a sequence of scalars.
type optionValues []string

func (v *optionValues) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*v = optionValues{node.Value}
		return nil
	}
	var values []string
	if err := node.Decode(&values); err != nil {
		return err
	}
	*v = values
	return nil
}

// configFromOptions parses the options section of a ledger file.
// Supports:
//   - name_placeholder: '\w+'
//   - audit_mode: fail_fast | collect_all
//   - cash_codes: [GM, BA]
//   - transfer_markers: [transfer, correction]
func configFromOptions(options map[string]optionValues) (*Config, error) {
	cfg := NewConfig()

	for name, values := range options {
		if len(values) == 0 {
			continue
		}

		switch name {
		case "name_placeholder":
			cfg.NamePlaceholder = values[0]
		case "audit_mode":
			mode := strings.ToLower(values[0])
			if mode != AuditFailFast && mode != AuditCollectAll {
				return nil, fmt.Errorf("invalid audit_mode %q, expected %s or %s", values[0], AuditFailFast, AuditCollectAll)
			}
			cfg.AuditMode = mode
		case "cash_codes":
			cfg.CashCodes = []string(values)
		case "transfer_markers":
			cfg.TransferMarkers = []string(values)
		default:
			return nil, fmt.Errorf("unknown option %q", name)
		}
	}

	return cfg, nil
}

type contextKey struct{}

// WithContext returns a new context with the Config attached.
func (c *Config) WithContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, c)
}

// ConfigFromContext retrieves the Config from context.
// Returns a default Config if not found.
func ConfigFromContext(ctx context.Context) *Config {
	if cfg, ok := ctx.Value(contextKey{}).(*Config); ok {
		return cfg
	}
	return NewConfig()
}
