package host

import "fmt"

// MethodID represents a host method identifier.
type MethodID int32

// Host method IDs per MS-PSRP 2.2.3.17. The raw UI methods (27-50) are not
// dispatched and answer with an exception.
const (
	MethodIDGetName                MethodID = 1  // PSHost.Name
	MethodIDGetVersion             MethodID = 2  // PSHost.Version
	MethodIDGetInstanceID          MethodID = 3  // PSHost.InstanceId
	MethodIDGetCurrentCulture      MethodID = 4  // PSHost.CurrentCulture
	MethodIDGetCurrentUICulture    MethodID = 5  // PSHost.CurrentUICulture
	MethodIDSetShouldExit          MethodID = 6  // Request host exit
	MethodIDEnterNestedPrompt      MethodID = 7  // Start a nested input loop
	MethodIDExitNestedPrompt       MethodID = 8  // Leave the input loop
	MethodIDNotifyBeginApplication MethodID = 9  // External process starting
	MethodIDNotifyEndApplication   MethodID = 10 // External process finished
	MethodIDReadLine               MethodID = 11 // Read a line of user input
	MethodIDReadLineAsSecureString MethodID = 12 // Read a line without echo
	MethodIDWrite1                 MethodID = 13 // Write(value)
	MethodIDWrite2                 MethodID = 14 // Write(fg, bg, value)
	MethodIDWriteLine1             MethodID = 15 // WriteLine()
	MethodIDWriteLine2             MethodID = 16 // WriteLine(value)
	MethodIDWriteLine3             MethodID = 17 // WriteLine(fg, bg, value)
	MethodIDWriteErrorLine         MethodID = 18 // Write an error message
	MethodIDWriteDebugLine         MethodID = 19 // Write debug output
	MethodIDWriteProgress          MethodID = 20 // Write a progress record
	MethodIDWriteVerboseLine       MethodID = 21 // Write verbose output
	MethodIDWriteWarningLine       MethodID = 22 // Write warning output
	MethodIDPrompt                 MethodID = 23 // Prompt user for fields
	MethodIDPromptForCredential1   MethodID = 24 // Prompt for PSCredential
	MethodIDPromptForCredential2   MethodID = 25 // Prompt for PSCredential with options
	MethodIDPromptForChoice        MethodID = 26 // Prompt user to choose from options
	MethodIDPushRunspace           MethodID = 51 // Enter an interactive session
	MethodIDPopRunspace            MethodID = 52 // Leave the interactive session
	MethodIDGetIsRunspacePushed    MethodID = 53 // Query session redirection
	MethodIDGetRunspace            MethodID = 54 // Active runspace
)

var methodNames = map[MethodID]string{
	MethodIDGetName:                "GetName",
	MethodIDGetVersion:             "GetVersion",
	MethodIDGetInstanceID:          "GetInstanceId",
	MethodIDGetCurrentCulture:      "GetCurrentCulture",
	MethodIDGetCurrentUICulture:    "GetCurrentUICulture",
	MethodIDSetShouldExit:          "SetShouldExit",
	MethodIDEnterNestedPrompt:      "EnterNestedPrompt",
	MethodIDExitNestedPrompt:       "ExitNestedPrompt",
	MethodIDNotifyBeginApplication: "NotifyBeginApplication",
	MethodIDNotifyEndApplication:   "NotifyEndApplication",
	MethodIDReadLine:               "ReadLine",
	MethodIDReadLineAsSecureString: "ReadLineAsSecureString",
	MethodIDWrite1:                 "Write1",
	MethodIDWrite2:                 "Write2",
	MethodIDWriteLine1:             "WriteLine1",
	MethodIDWriteLine2:             "WriteLine2",
	MethodIDWriteLine3:             "WriteLine3",
	MethodIDWriteErrorLine:         "WriteErrorLine",
	MethodIDWriteDebugLine:         "WriteDebugLine",
	MethodIDWriteProgress:          "WriteProgress",
	MethodIDWriteVerboseLine:       "WriteVerboseLine",
	MethodIDWriteWarningLine:       "WriteWarningLine",
	MethodIDPrompt:                 "Prompt",
	MethodIDPromptForCredential1:   "PromptForCredential1",
	MethodIDPromptForCredential2:   "PromptForCredential2",
	MethodIDPromptForChoice:        "PromptForChoice",
	MethodIDPushRunspace:           "PushRunspace",
	MethodIDPopRunspace:            "PopRunspace",
	MethodIDGetIsRunspacePushed:    "GetIsRunspacePushed",
	MethodIDGetRunspace:            "GetRunspace",
}

// String returns the string representation of a method ID.
func (m MethodID) String() string {
	if name, ok := methodNames[m]; ok {
		return name
	}
	return fmt.Sprintf("Unknown(%d)", m)
}

// RemoteHostCall represents a host callback request from the engine.
// Corresponds to Microsoft.PowerShell.Remoting.Internal.RemoteHostCall
type RemoteHostCall struct {
	CallID           int64         // ci - Unique identifier to correlate call with response
	MethodID         MethodID      // mi - Host method ID
	MethodParameters []interface{} // mp - Method-specific parameters
}

// RemoteHostResponse represents a host callback response to the engine.
// Corresponds to Microsoft.PowerShell.Remoting.Internal.RemoteHostResponse
type RemoteHostResponse struct {
	CallID          int64       // ci - Must match CallID from request
	ExceptionRaised bool        // er - True if an exception occurred
	ReturnValue     interface{} // rv - Return value from host method, or exception if er=true
}

// CallbackHandler manages host callback execution.
// It dispatches incoming host calls to the appropriate Host methods.
type CallbackHandler struct {
	host Host
}

// NewCallbackHandler creates a new callback handler with the given host.
// A nil host is replaced by a NullHost.
func NewCallbackHandler(h Host) *CallbackHandler {
	if h == nil {
		h = NewNullHost()
	}
	return &CallbackHandler{
		host: h,
	}
}

// HandleCall processes a RemoteHostCall and returns a RemoteHostResponse.
func (h *CallbackHandler) HandleCall(call *RemoteHostCall) *RemoteHostResponse {
	response := &RemoteHostResponse{
		CallID: call.CallID,
	}

	rv, err := h.dispatch(call)
	if err != nil {
		response.ExceptionRaised = true
		response.ReturnValue = err.Error()
		return response
	}
	response.ReturnValue = rv
	return response
}

func (h *CallbackHandler) dispatch(call *RemoteHostCall) (interface{}, error) {
	switch call.MethodID {
	case MethodIDGetName:
		return h.host.GetName(), nil
	case MethodIDGetVersion:
		return h.host.GetVersion(), nil
	case MethodIDGetInstanceID:
		return h.host.GetInstanceID(), nil
	case MethodIDGetCurrentCulture:
		return h.host.GetCurrentCulture(), nil
	case MethodIDGetCurrentUICulture:
		return h.host.GetCurrentUICulture(), nil
	case MethodIDSetShouldExit:
		code, err := intParam(call, 0)
		if err != nil {
			return nil, err
		}
		h.host.SetShouldExit(code)
		return nil, nil
	case MethodIDEnterNestedPrompt:
		return nil, h.host.EnterNestedPrompt()
	case MethodIDExitNestedPrompt:
		h.host.ExitNestedPrompt()
		return nil, nil
	case MethodIDNotifyBeginApplication:
		h.host.NotifyBeginApplication()
		return nil, nil
	case MethodIDNotifyEndApplication:
		h.host.NotifyEndApplication()
		return nil, nil

	case MethodIDReadLine:
		return h.ui().ReadLine()
	case MethodIDReadLineAsSecureString:
		return h.ui().ReadLineAsSecureString()
	case MethodIDWrite1, MethodIDWriteLine2, MethodIDWriteErrorLine,
		MethodIDWriteDebugLine, MethodIDWriteVerboseLine, MethodIDWriteWarningLine:
		return nil, h.handleWriteString(call, 0)
	case MethodIDWrite2, MethodIDWriteLine3:
		// Colors are accepted and ignored; the terminal owns styling.
		return nil, h.handleWriteString(call, 2)
	case MethodIDWriteLine1:
		h.ui().WriteLine("")
		return nil, nil
	case MethodIDWriteProgress:
		return nil, h.handleWriteProgress(call)
	case MethodIDPrompt:
		return h.handlePrompt(call)
	case MethodIDPromptForCredential1, MethodIDPromptForCredential2:
		return h.handlePromptForCredential(call)
	case MethodIDPromptForChoice:
		return h.handlePromptForChoice(call)

	case MethodIDPushRunspace, MethodIDPopRunspace, MethodIDGetIsRunspacePushed, MethodIDGetRunspace:
		return h.handleSession(call)
	default:
		return nil, fmt.Errorf("unsupported host method ID: %d", call.MethodID)
	}
}

func (h *CallbackHandler) ui() HostUI {
	if ui := h.host.UI(); ui != nil {
		return ui
	}
	return &NullHostUI{}
}

// handleWriteString processes the string-valued write methods.
// The text is the parameter at index idx.
func (h *CallbackHandler) handleWriteString(call *RemoteHostCall, idx int) error {
	text, err := stringParam(call, idx)
	if err != nil {
		return err
	}

	ui := h.ui()
	switch call.MethodID {
	case MethodIDWrite1, MethodIDWrite2:
		ui.Write(text)
	case MethodIDWriteLine2, MethodIDWriteLine3:
		ui.WriteLine(text)
	case MethodIDWriteErrorLine:
		ui.WriteErrorLine(text)
	case MethodIDWriteDebugLine:
		ui.WriteDebugLine(text)
	case MethodIDWriteVerboseLine:
		ui.WriteVerboseLine(text)
	case MethodIDWriteWarningLine:
		ui.WriteWarningLine(text)
	}
	return nil
}

// handleWriteProgress processes WriteProgress method calls.
// Parameters: [0] int64 (sourceId), [1] ProgressRecord
// Returns: none
func (h *CallbackHandler) handleWriteProgress(call *RemoteHostCall) error {
	if err := requireParams(call, 2); err != nil {
		return err
	}
	sourceID, err := intParam(call, 0)
	if err != nil {
		return err
	}
	record, err := convertToProgressRecord(call.MethodParameters[1])
	if err != nil {
		return fmt.Errorf("%s: %w", call.MethodID, err)
	}
	h.ui().WriteProgress(int64(sourceID), record)
	return nil
}

// handlePrompt processes Prompt method calls.
// Parameters: [0] string (caption), [1] string (message), [2] []FieldDescription
// Returns: map[string]interface{} (field name -> value)
func (h *CallbackHandler) handlePrompt(call *RemoteHostCall) (interface{}, error) {
	if err := requireParams(call, 3); err != nil {
		return nil, err
	}
	caption, err := stringParam(call, 0)
	if err != nil {
		return nil, err
	}
	message, err := stringParam(call, 1)
	if err != nil {
		return nil, err
	}
	descriptions, err := convertToFieldDescriptions(call.MethodParameters[2])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", call.MethodID, err)
	}
	return h.ui().Prompt(caption, message, descriptions)
}

// handlePromptForCredential processes both PromptForCredential overloads.
// Parameters: [0] caption, [1] message, [2] userName, [3] targetName,
// and for overload 2: [4] allowedCredentialTypes, [5] options
// Returns: *objects.PSCredential
func (h *CallbackHandler) handlePromptForCredential(call *RemoteHostCall) (interface{}, error) {
	strs := make([]string, 4)
	for i := range strs {
		s, err := stringParam(call, i)
		if err != nil {
			return nil, err
		}
		strs[i] = s
	}

	types, options := CredentialTypeDefault, CredentialUIOptionNone
	if call.MethodID == MethodIDPromptForCredential2 {
		t, err := intParam(call, 4)
		if err != nil {
			return nil, err
		}
		o, err := intParam(call, 5)
		if err != nil {
			return nil, err
		}
		types, options = CredentialTypes(t), CredentialUIOptions(o)
	}
	return h.ui().PromptForCredential(strs[0], strs[1], strs[2], strs[3], types, options)
}

// handlePromptForChoice processes PromptForChoice method calls.
// Parameters: [0] string (caption), [1] string (message), [2] []ChoiceDescription, [3] int (defaultChoice)
// Returns: int (selected choice index)
func (h *CallbackHandler) handlePromptForChoice(call *RemoteHostCall) (interface{}, error) {
	if err := requireParams(call, 4); err != nil {
		return nil, err
	}
	caption, err := stringParam(call, 0)
	if err != nil {
		return nil, err
	}
	message, err := stringParam(call, 1)
	if err != nil {
		return nil, err
	}
	choices, err := convertToChoiceDescriptions(call.MethodParameters[2])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", call.MethodID, err)
	}
	defaultChoice, err := intParam(call, 3)
	if err != nil {
		return nil, err
	}
	return h.ui().PromptForChoice(caption, message, choices, defaultChoice)
}

// handleSession processes the IHostSupportsInteractiveSession methods.
func (h *CallbackHandler) handleSession(call *RemoteHostCall) (interface{}, error) {
	s, ok := h.host.(InteractiveSession)
	if !ok {
		return nil, Unsupported(call.MethodID.String())
	}

	switch call.MethodID {
	case MethodIDPushRunspace:
		if err := requireParams(call, 1); err != nil {
			return nil, err
		}
		rs, ok := call.MethodParameters[0].(Runspace)
		if !ok {
			return nil, fmt.Errorf("%s parameter 0 must be a runspace, got %T", call.MethodID, call.MethodParameters[0])
		}
		return nil, s.PushRunspace(rs)
	case MethodIDPopRunspace:
		return nil, s.PopRunspace()
	case MethodIDGetIsRunspacePushed:
		return s.IsRunspacePushed(), nil
	default:
		return s.Runspace(), nil
	}
}

func requireParams(call *RemoteHostCall, n int) error {
	if len(call.MethodParameters) < n {
		return fmt.Errorf("%s requires %d parameters, got %d", call.MethodID, n, len(call.MethodParameters))
	}
	return nil
}

func stringParam(call *RemoteHostCall, idx int) (string, error) {
	if err := requireParams(call, idx+1); err != nil {
		return "", err
	}
	s, ok := call.MethodParameters[idx].(string)
	if !ok {
		return "", fmt.Errorf("%s parameter %d must be string, got %T", call.MethodID, idx, call.MethodParameters[idx])
	}
	return s, nil
}

func intParam(call *RemoteHostCall, idx int) (int, error) {
	if err := requireParams(call, idx+1); err != nil {
		return 0, err
	}
	switch v := call.MethodParameters[idx].(type) {
	case int:
		return v, nil
	case int32:
		return int(v), nil
	case int64:
		return int(v), nil
	default:
		return 0, fmt.Errorf("%s parameter %d must be int, got %T", call.MethodID, idx, call.MethodParameters[idx])
	}
}
