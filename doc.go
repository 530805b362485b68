// Package pshost adapts an embedded PowerShell engine to a terminal widget
// hosted inside a larger application.
//
// The engine sees a host.Host: a stable identity, a culture snapshot, and a
// HostUI surface. The application keeps control of the session lifecycle: it
// owns the exit request the engine writes to, and it observes runspaces being
// pushed onto and popped off the engine's execution context.
//
// # Basic Usage
//
//	exit := &pshost.ExitRequest{}
//	ui := terminal.New(terminal.NewStdio(os.Stdin, os.Stdout))
//
//	h, err := pshost.New(exit, ui, session.NewRunspace("localhost"))
//	if err != nil {
//	    return err
//	}
//
//	// Engine-originated host calls
//	handler := host.NewCallbackHandler(h)
//	resp := handler.HandleCall(call)
//
//	// Enter-PSSession
//	if err := h.PushRunspace(remote); err != nil {
//	    return err
//	}
//
// # Interactive Sessions
//
// Host implements host.InteractiveSession. Pushes nest: each PopRunspace
// restores the runspace that was active before the matching push.
//
// # Thread Safety
//
// All Host methods are safe for concurrent use. Exit and ExitNestedPrompt
// may be called from any goroutine to unblock a pending ReadLine.
package pshost
