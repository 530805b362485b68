package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/smnsjas/go-pshost"
	"github.com/smnsjas/go-pshost/host"
	"github.com/smnsjas/go-pshost/objects"
	"github.com/smnsjas/go-pshost/session"
)

var builtinCommands = []string{
	"exit",
	"Enter-PSSession",
	"Exit-PSSession",
	"Get-Host",
	"Get-History",
	"Read-Host",
	"Write-Debug",
	"Write-Error",
	"Write-Host",
	"Write-Progress",
	"Write-Verbose",
	"Write-Warning",
}

// builtins is the command set the CLI runs in place of an engine. Every
// command goes through the host, the way engine-originated calls would.
type builtins struct {
	host *pshost.Host
}

func newBuiltins(h *pshost.Host) *builtins {
	return &builtins{host: h}
}

// Execute runs command in rs.
func (b *builtins) Execute(ctx context.Context, rs host.Runspace, command string) error {
	name, arg, _ := strings.Cut(command, " ")
	arg = strings.TrimSpace(arg)
	ui := b.host.UI()

	switch strings.ToLower(name) {
	case "exit":
		code := 0
		if arg != "" {
			n, err := strconv.Atoi(arg)
			if err != nil {
				return fmt.Errorf("exit code %q is not an integer", arg)
			}
			code = n
		}
		b.host.SetShouldExit(code)
	case "enter-pssession":
		if arg == "" {
			return errors.New("Enter-PSSession: a computer name is required")
		}
		return b.host.PushRunspace(session.NewRunspace(arg))
	case "exit-pssession":
		return b.host.PopRunspace()
	case "get-host":
		ui.WriteLine("Name             : " + b.host.GetName())
		ui.WriteLine("Version          : " + b.host.GetVersion().String())
		ui.WriteLine("InstanceId       : " + b.host.GetInstanceID().String())
		ui.WriteLine("CurrentCulture   : " + b.host.GetCurrentCulture())
		ui.WriteLine("CurrentUICulture : " + b.host.GetCurrentUICulture())
		ui.WriteLine("Runspace         : " + rs.Name())
	case "get-history":
		for i, entry := range b.host.Terminal().History().Entries() {
			ui.WriteLine(fmt.Sprintf("%4d %s", i+1, entry))
		}
	case "write-progress":
		ui.WriteProgress(0, &objects.ProgressRecord{
			Activity:         arg,
			PercentComplete:  -1,
			SecondsRemaining: -1,
			RecordType:       objects.ProgressRecordTypeCompleted,
		})
	case "read-host":
		if arg != "" {
			ui.Write(arg + ": ")
		}
		line, err := b.host.Terminal().ReadLineContext(ctx)
		if err != nil {
			return err
		}
		ui.WriteLine(line)
	case "write-host":
		ui.WriteLine(arg)
	case "write-warning":
		ui.WriteWarningLine(arg)
	case "write-verbose":
		ui.WriteVerboseLine(arg)
	case "write-debug":
		ui.WriteDebugLine(arg)
	case "write-error":
		ui.WriteErrorLine(arg)
	case "$host.enternestedprompt()":
		return b.host.EnterNestedPrompt()
	default:
		return fmt.Errorf("the term '%s' is not recognized as a built-in command", name)
	}
	return nil
}
