// Package registry provides the read-only map of known accounts loaded from YAML.
package registry

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"fjacquet/camt-qif/internal/logging"
	"fjacquet/camt-qif/internal/parsererror"

	"gopkg.in/yaml.v3"
)

// Account is one registered account.
type Account struct {
	Section string `yaml:"-"`
	IBAN    string `yaml:"iban"`
	Name    string `yaml:"name,omitempty"`
}

// DisplayName returns the configured name, or the IBAN when none is set.
func (a Account) DisplayName() string {
	if a.Name == "" {
		return a.IBAN
	}
	return a.Name
}

type registryFile struct {
	Accounts map[string]Account `yaml:"accounts"`
}

// Registry maps IBANs to display names. It is safe for concurrent reads.
type Registry struct {
	byIBAN   map[string]Account
	accounts []Account
}

// New builds a Registry from accounts. Blank and duplicate IBANs are rejected.
func New(accounts []Account) (*Registry, error) {
	r := &Registry{
		byIBAN:   make(map[string]Account, len(accounts)),
		accounts: make([]Account, 0, len(accounts)),
	}

	for _, acc := range accounts {
		acc.IBAN = NormalizeIBAN(acc.IBAN)
		acc.Name = strings.TrimSpace(acc.Name)
		if acc.IBAN == "" {
			return nil, fmt.Errorf("account %q has no iban", acc.Section)
		}
		if existing, ok := r.byIBAN[acc.IBAN]; ok {
			return nil, fmt.Errorf("iban %s is registered by both %q and %q", acc.IBAN, existing.Section, acc.Section)
		}
		r.byIBAN[acc.IBAN] = acc
		r.accounts = append(r.accounts, acc)
	}

	sort.Slice(r.accounts, func(i, j int) bool {
		if r.accounts[i].Section != r.accounts[j].Section {
			return r.accounts[i].Section < r.accounts[j].Section
		}
		return r.accounts[i].IBAN < r.accounts[j].IBAN
	})

	return r, nil
}

// Parse decodes a registry document.
func Parse(data []byte) (*Registry, error) {
	var file registryFile

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("registry is empty")
		}
		return nil, fmt.Errorf("failed to decode registry: %w", err)
	}
	if file.Accounts == nil {
		return nil, errors.New("registry has no accounts section")
	}

	accounts := make([]Account, 0, len(file.Accounts))
	for section, acc := range file.Accounts {
		acc.Section = section
		accounts = append(accounts, acc)
	}
	return New(accounts)
}

// Load reads and parses the registry file at path.
func Load(path string, logger logging.Logger) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read registry: %w", err)
	}

	r, err := Parse(data)
	if err != nil {
		return nil, &parsererror.InvalidFormatError{
			FilePath:       path,
			ExpectedFormat: "YAML account registry",
			Msg:            err.Error(),
		}
	}

	if logger != nil {
		logger.Debug("Account registry loaded",
			logging.Field{Key: logging.FieldFile, Value: path},
			logging.Field{Key: logging.FieldAccounts, Value: r.Len()})
	}
	return r, nil
}

// Resolve returns the display name of the account with the given IBAN.
func (r *Registry) Resolve(id string) (string, bool) {
	acc, ok := r.byIBAN[id]
	if !ok {
		return "", false
	}
	return acc.DisplayName(), true
}

// Accounts returns the registered accounts ordered by section name.
func (r *Registry) Accounts() []Account {
	out := make([]Account, len(r.accounts))
	copy(out, r.accounts)
	return out
}

// Len returns the number of registered accounts.
func (r *Registry) Len() int {
	return len(r.accounts)
}

// NormalizeIBAN strips whitespace and upper-cases an IBAN as written by hand.
func NormalizeIBAN(iban string) string {
	return strings.ToUpper(strings.Join(strings.Fields(iban), ""))
}
