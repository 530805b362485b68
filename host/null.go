package host

import (
	"github.com/google/uuid"
	"github.com/smnsjas/go-pshost/objects"
)

// NullHost provides a no-op host implementation for non-interactive scenarios.
type NullHost struct {
	name    string
	version Version
	ui      *NullHostUI
}

// NewNullHost creates a new NullHost.
func NewNullHost() *NullHost {
	return &NullHost{
		name: "go-pshost",
		version: Version{
			Major: 1,
			Minor: 0,
		},
		ui: &NullHostUI{},
	}
}

// GetName returns the host name.
func (h *NullHost) GetName() string { return h.name }

// GetVersion returns the host version.
func (h *NullHost) GetVersion() Version { return h.version }

// GetInstanceID returns the nil UUID.
func (h *NullHost) GetInstanceID() uuid.UUID { return uuid.Nil }

// GetCurrentCulture returns the current culture.
func (h *NullHost) GetCurrentCulture() string { return DefaultCulture.String() }

// GetCurrentUICulture returns the current UI culture.
func (h *NullHost) GetCurrentUICulture() string { return DefaultCulture.String() }

// UI returns the host UI implementation.
func (h *NullHost) UI() HostUI { return h.ui }

// SetShouldExit does nothing.
func (h *NullHost) SetShouldExit(_ int) {}

// EnterNestedPrompt is not supported.
func (h *NullHost) EnterNestedPrompt() error { return Unsupported("EnterNestedPrompt") }

// ExitNestedPrompt does nothing.
func (h *NullHost) ExitNestedPrompt() {}

// NotifyBeginApplication does nothing.
func (h *NullHost) NotifyBeginApplication() {}

// NotifyEndApplication does nothing.
func (h *NullHost) NotifyEndApplication() {}

// NullHostUI provides a no-op HostUI implementation.
type NullHostUI struct{}

// ReadLine returns an empty string.
func (ui *NullHostUI) ReadLine() (string, error) { return "", nil }

// ReadLineAsSecureString returns an empty secure string.
func (ui *NullHostUI) ReadLineAsSecureString() (*objects.SecureString, error) {
	return objects.NewSecureString("")
}

// Write does nothing.
//
//nolint:revive // unused-parameter acceptable for null implementation
func (ui *NullHostUI) Write(_ string) {}

// WriteLine does nothing.
func (ui *NullHostUI) WriteLine(_ string) {}

// WriteErrorLine does nothing.
func (ui *NullHostUI) WriteErrorLine(_ string) {}

// WriteDebugLine does nothing.
func (ui *NullHostUI) WriteDebugLine(_ string) {}

// WriteVerboseLine does nothing.
func (ui *NullHostUI) WriteVerboseLine(_ string) {}

// WriteWarningLine does nothing.
func (ui *NullHostUI) WriteWarningLine(_ string) {}

// WriteProgress does nothing.
func (ui *NullHostUI) WriteProgress(_ int64, _ *objects.ProgressRecord) {}

// Prompt returns an empty dictionary.
func (ui *NullHostUI) Prompt(_, _ string, _ []FieldDescription) (map[string]interface{}, error) {
	return make(map[string]interface{}), nil
}

// PromptForCredential returns nil.
func (ui *NullHostUI) PromptForCredential(_, _, _, _ string, _ CredentialTypes, _ CredentialUIOptions) (*objects.PSCredential, error) {
	return nil, nil
}

// PromptForChoice returns the default choice.
func (ui *NullHostUI) PromptForChoice(_, _ string, _ []ChoiceDescription, defaultChoice int) (int, error) {
	return defaultChoice, nil
}
