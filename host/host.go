// Package host defines the host contract an embedded PowerShell engine calls into.
//
// The engine never talks to a terminal directly. It asks its host for an
// identity, culture and version metadata, and a user interface surface, and
// it notifies the host about exit requests, nested prompts and child
// application boundaries. Hosts that support interactive remote sessions
// additionally implement InteractiveSession so the engine can push and pop
// runspaces.
//
// # Host Methods
//
// The Host interface maps to PowerShell's PSHost:
//
//   - GetName/GetVersion/GetInstanceID: Host identity
//   - GetCurrentCulture/GetCurrentUICulture: Locale snapshot
//   - UI: The HostUI surface
//   - SetShouldExit: Exit request with an exit code
//   - EnterNestedPrompt/ExitNestedPrompt: Nested input loops
//   - NotifyBeginApplication/NotifyEndApplication: Child process boundaries
//
// HostUI maps to PSHostUserInterface and InteractiveSession maps to
// IHostSupportsInteractiveSession.
//
// # Default Implementation
//
// A default no-op implementation is provided for non-interactive scenarios:
//
//	h := host.NewNullHost()
//
// # Reference
//
// MS-PSRP Section 2.2.3.17: https://docs.microsoft.com/en-us/openspecs/windows_protocols/ms-psrp/
package host

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/smnsjas/go-pshost/objects"
)

// Host defines the interface the engine uses to reach its embedding environment.
type Host interface {
	// GetName returns the host name.
	GetName() string

	// GetVersion returns the host version.
	GetVersion() Version

	// GetInstanceID returns a unique identifier for this host.
	GetInstanceID() uuid.UUID

	// GetCurrentCulture returns the current culture (e.g., "en-US").
	GetCurrentCulture() string

	// GetCurrentUICulture returns the current UI culture.
	GetCurrentUICulture() string

	// UI returns the user interface implementation.
	UI() HostUI

	// SetShouldExit tells the host application that exit has been requested.
	SetShouldExit(exitCode int)

	// EnterNestedPrompt starts a nested input loop.
	// Hosts that cannot do so return an *UnsupportedError.
	EnterNestedPrompt() error

	// ExitNestedPrompt leaves the current input loop.
	ExitNestedPrompt()

	// NotifyBeginApplication is called before an external process starts.
	NotifyBeginApplication()

	// NotifyEndApplication is called after an external process finishes.
	NotifyEndApplication()
}

// HostUI defines the user interface callbacks.
//
//nolint:revive // HostUI is the established name, suppressing stutter warning
type HostUI interface {
	// ReadLine reads a line of text from the user.
	ReadLine() (string, error)

	// ReadLineAsSecureString reads sensitive input.
	ReadLineAsSecureString() (*objects.SecureString, error)

	// Write outputs text without a newline.
	Write(text string)

	// WriteLine outputs text with a newline.
	WriteLine(text string)

	// WriteErrorLine outputs error text.
	WriteErrorLine(text string)

	// WriteDebugLine outputs debug text.
	WriteDebugLine(text string)

	// WriteVerboseLine outputs verbose text.
	WriteVerboseLine(text string)

	// WriteWarningLine outputs warning text.
	WriteWarningLine(text string)

	// WriteProgress outputs a progress record.
	WriteProgress(sourceID int64, record *objects.ProgressRecord)

	// Prompt displays prompts and returns responses.
	Prompt(caption, message string, descriptions []FieldDescription) (map[string]interface{}, error)

	// PromptForCredential prompts for credentials.
	PromptForCredential(caption, message, userName, targetName string, allowedCredentialTypes CredentialTypes, options CredentialUIOptions) (*objects.PSCredential, error)

	// PromptForChoice displays choices and returns the selection.
	PromptForChoice(caption, message string, choices []ChoiceDescription, defaultChoice int) (int, error)
}

// Runspace is an execution context that pipelines run in.
type Runspace interface {
	// ID returns the runspace identifier.
	ID() uuid.UUID

	// Name returns a display name, usually the computer the runspace lives on.
	Name() string
}

// InteractiveSession is implemented by hosts that can redirect execution to
// a pushed runspace (Enter-PSSession).
type InteractiveSession interface {
	// IsRunspacePushed reports whether a pushed runspace is active.
	IsRunspacePushed() bool

	// Runspace returns the runspace that pipelines currently target.
	Runspace() Runspace

	// PushRunspace makes rs the active runspace, saving the current one.
	PushRunspace(rs Runspace) error

	// PopRunspace restores the runspace that was active before the last push.
	PopRunspace() error
}

// Version represents a host version.
type Version struct {
	Major    int
	Minor    int
	Build    int
	Revision int
}

// String returns the dotted form, e.g. "1.0.0.0".
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d.%d", v.Major, v.Minor, v.Build, v.Revision)
}

// ParseVersion parses a dotted version with two to four components.
// Missing components are zero.
func ParseVersion(s string) (Version, error) {
	parts := strings.Split(strings.TrimSpace(s), ".")
	if len(parts) < 2 || len(parts) > 4 {
		return Version{}, fmt.Errorf("invalid version %q: want 2 to 4 components", s)
	}

	var fields [4]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return Version{}, fmt.Errorf("invalid version %q: component %d is %q", s, i, p)
		}
		fields[i] = n
	}
	return Version{Major: fields[0], Minor: fields[1], Build: fields[2], Revision: fields[3]}, nil
}

// FieldDescription describes a prompt field.
type FieldDescription struct {
	Name                  string
	Label                 string
	ParameterTypeName     string
	ParameterTypeFullName string
	HelpMessage           string
	DefaultValue          string
	IsMandatory           bool
}

// ChoiceDescription describes a choice option.
type ChoiceDescription struct {
	Label       string
	HelpMessage string
}

// CredentialTypes specifies allowed credential types.
type CredentialTypes int

const (
	// CredentialTypeGeneric allows generic credentials.
	CredentialTypeGeneric CredentialTypes = 1 << iota
	// CredentialTypeDomain allows domain credentials.
	CredentialTypeDomain
	// CredentialTypeDefault allows default credentials.
	CredentialTypeDefault = CredentialTypeGeneric | CredentialTypeDomain
)

// CredentialUIOptions specifies credential UI options.
type CredentialUIOptions int

const (
	// CredentialUIOptionNone indicates no specific UI options.
	CredentialUIOptionNone CredentialUIOptions = iota
	// CredentialUIOptionValidateUserNameSyntax validates username syntax.
	CredentialUIOptionValidateUserNameSyntax
	// CredentialUIOptionAlwaysPrompt always prompts.
	CredentialUIOptionAlwaysPrompt
	// CredentialUIOptionReadOnlyUserName makes username read-only.
	CredentialUIOptionReadOnlyUserName
)
