package terminal

import (
	"errors"
	"fmt"
	"strings"

	"github.com/smnsjas/go-pshost/host"
	"github.com/smnsjas/go-pshost/objects"
)

// ErrNoChoices is returned by PromptForChoice when there is nothing to choose.
var ErrNoChoices = errors.New("no choices to prompt for")

// Prompt asks for each field in turn and returns the answers keyed by field
// name. SecureString fields are read without echo and PSCredential fields
// run a credential prompt. Mandatory fields are asked again until answered.
func (u *UI) Prompt(caption, message string, descriptions []host.FieldDescription) (map[string]interface{}, error) {
	u.writeHeader(caption, message)

	results := make(map[string]interface{}, len(descriptions))
	for _, fd := range descriptions {
		v, err := u.promptField(fd)
		if err != nil {
			return nil, fmt.Errorf("prompt %s: %w", fd.Name, err)
		}
		results[fd.Name] = v
	}
	return results, nil
}

func (u *UI) promptField(fd host.FieldDescription) (interface{}, error) {
	label := fd.Label
	if label == "" {
		label = fd.Name
	}
	label = stripAccelerator(label)

	switch fd.ParameterTypeName {
	case "SecureString":
		u.Write(label + ": ")
		return u.ReadLineAsSecureString()
	case "PSCredential":
		return u.PromptForCredential("", "", "", "", host.CredentialTypeDefault, host.CredentialUIOptionNone)
	}

	for {
		if fd.DefaultValue != "" {
			u.Write(fmt.Sprintf("%s (default is %q): ", label, fd.DefaultValue))
		} else {
			u.Write(label + ": ")
		}

		line, err := u.ReadLine()
		if err != nil {
			return nil, err
		}
		switch {
		case line == "!?" && fd.HelpMessage != "":
			u.WriteLine(fd.HelpMessage)
		case line != "":
			return line, nil
		case fd.DefaultValue != "":
			return fd.DefaultValue, nil
		case !fd.IsMandatory:
			return "", nil
		}
	}
}

// PromptForCredential asks for a user name (unless one is given) and a
// password read without echo.
func (u *UI) PromptForCredential(caption, message, userName, _ string, _ host.CredentialTypes, options host.CredentialUIOptions) (*objects.PSCredential, error) {
	u.writeHeader(caption, message)

	if userName == "" || options == host.CredentialUIOptionAlwaysPrompt {
		for {
			if userName != "" {
				u.Write(fmt.Sprintf("User (default is %q): ", userName))
			} else {
				u.Write("User: ")
			}
			line, err := u.ReadLine()
			if err != nil {
				return nil, err
			}
			if line = strings.TrimSpace(line); line != "" {
				userName = line
			}
			if userName != "" {
				break
			}
		}
	}

	u.Write(fmt.Sprintf("Password for user %s: ", userName))
	password, err := u.ReadLineAsSecureString()
	if err != nil {
		return nil, err
	}
	return objects.NewPSCredential(userName, password), nil
}

// PromptForChoice shows the choices with their accelerator keys and returns
// the selected index. Empty input picks defaultChoice when it is valid;
// "?" prints the help messages.
func (u *UI) PromptForChoice(caption, message string, choices []host.ChoiceDescription, defaultChoice int) (int, error) {
	if len(choices) == 0 {
		return -1, ErrNoChoices
	}
	if defaultChoice < -1 || defaultChoice >= len(choices) {
		return -1, fmt.Errorf("default choice %d out of range [0,%d)", defaultChoice, len(choices))
	}

	u.writeHeader(caption, message)

	keys := make([]string, len(choices))
	var line strings.Builder
	for i, c := range choices {
		keys[i] = acceleratorKey(c.Label, i)
		fmt.Fprintf(&line, "[%s] %s  ", keys[i], stripAccelerator(c.Label))
	}
	line.WriteString("[?] Help")
	if defaultChoice >= 0 {
		fmt.Fprintf(&line, " (default is %q)", keys[defaultChoice])
	}
	line.WriteString(": ")

	for {
		u.Write(line.String())
		answer, err := u.ReadLine()
		if err != nil {
			return -1, err
		}
		answer = strings.TrimSpace(answer)

		switch {
		case answer == "" && defaultChoice >= 0:
			return defaultChoice, nil
		case answer == "?":
			for i, c := range choices {
				u.WriteLine(fmt.Sprintf("%s - %s", keys[i], c.HelpMessage))
			}
			continue
		}

		for i, c := range choices {
			if strings.EqualFold(answer, keys[i]) || strings.EqualFold(answer, stripAccelerator(c.Label)) {
				return i, nil
			}
		}
	}
}

func (u *UI) writeHeader(caption, message string) {
	if caption != "" {
		u.WriteLine(caption)
	}
	if message != "" {
		u.WriteLine(message)
	}
}

// acceleratorKey returns the upper-cased character following '&' in label,
// or the 1-based index when the label has none.
func acceleratorKey(label string, idx int) string {
	if i := strings.IndexByte(label, '&'); i >= 0 && i+1 < len(label) {
		r := []rune(label[i+1:])[0]
		return strings.ToUpper(string(r))
	}
	return fmt.Sprint(idx + 1)
}

func stripAccelerator(label string) string {
	return strings.Replace(label, "&", "", 1)
}
