package logger

import "github.com/mattn/go-isatty"

// isTerminal reports whether fd is attached to a terminal (or a Cygwin/MSYS pty)
func isTerminal(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
