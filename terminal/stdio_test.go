package terminal

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStdio_Lines(t *testing.T) {
	t.Parallel()

	in := strings.NewReader("Get-Date\r\nexit 3\npartial")
	s := NewStdio(in, &bytes.Buffer{})

	var got []string
	for line := range s.Input() {
		got = append(got, line)
	}
	assert.Equal(t, []string{"Get-Date", "exit 3", "partial"}, got)
	assert.NoError(t, s.Err())
}

func TestStdio_WriteAndEcho(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	s := NewStdio(strings.NewReader(""), &out)
	s.Write("PS> ")

	assert.Equal(t, "PS> ", out.String())
	assert.False(t, s.IsTerminal())
	// Echo control is a no-op away from a terminal.
	require.NoError(t, s.SetEcho(false))
	require.NoError(t, s.SetEcho(true))
}

func TestStdio_DrivesUI(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	ui := New(NewStdio(strings.NewReader("alice\nsecret\n"), &out))

	cred, err := ui.PromptForCredential("", "", "", "", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, "alice", cred.UserName)
	assert.Contains(t, out.String(), "Password for user alice: ")
}
