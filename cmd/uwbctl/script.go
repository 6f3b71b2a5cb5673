package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// commandSeparator splits several commands on one command line.
const commandSeparator = "--"

// splitCommands splits args into commands at each "--". Empty commands are
// dropped.
func splitCommands(args []string) [][]string {
	var cmds [][]string
	start := 0
	for i, arg := range args {
		if arg != commandSeparator {
			continue
		}
		if i > start {
			cmds = append(cmds, args[start:i])
		}
		start = i + 1
	}
	if start < len(args) {
		cmds = append(cmds, args[start:])
	}
	return cmds
}

// readScript reads one command per line. Blank lines and lines starting
// with # are skipped.
func readScript(r io.Reader) ([][]string, error) {
	var cmds [][]string
	s := bufio.NewScanner(r)
	for s.Scan() {
		line := strings.TrimSpace(s.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		cmds = append(cmds, strings.Fields(line))
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return cmds, nil
}

// runAll runs cmds in order against c and stops at the first error.
func runAll(ctx context.Context, c client, cmds [][]string, w io.Writer) error {
	if len(cmds) == 0 {
		return fmt.Errorf("%w: missing command", errUsage)
	}
	for _, args := range cmds {
		if err := run(ctx, c, args, w); err != nil {
			return fmt.Errorf("%s: %w", strings.Join(args, " "), err)
		}
	}
	return nil
}
