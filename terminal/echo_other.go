//go:build !(linux || darwin || freebsd || netbsd || openbsd || dragonfly)

package terminal

// setEcho is a no-op where termios is unavailable; input stays visible.
func setEcho(int, bool) error { return nil }
