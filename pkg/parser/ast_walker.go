package parser

import (
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

// astWalker walks the AST and extracts commands and file mutations.
type astWalker struct {
	commands []Command
	touches  []FileTouch
}

// visit is called for each node in the AST. Subshells and command
// substitutions are reached by syntax.Walk itself.
func (w *astWalker) visit(node syntax.Node) bool {
	switch n := node.(type) {
	case *syntax.CallExpr:
		w.extractCommand(n)
	case *syntax.Stmt:
		w.extractRedirects(n)
	}

	return true
}

// extractCommand extracts a command from a CallExpr node.
func (w *astWalker) extractCommand(call *syntax.CallExpr) {
	if len(call.Args) == 0 {
		return
	}

	name := wordToString(call.Args[0])
	if name == "" {
		return
	}

	cmd := Command{
		Name: name,
		Args: wordsToStrings(call.Args[1:]),
		Location: Location{
			Line:   call.Pos().Line(),
			Column: call.Pos().Col(),
		},
	}

	w.commands = append(w.commands, cmd)

	// sudo, env and friends: re-examine the wrapped command
	if inner, ok := unwrap(cmd); ok {
		w.extractTouches(inner)

		return
	}

	w.extractTouches(cmd)
}

// extractRedirects records output redirection targets.
func (w *astWalker) extractRedirects(stmt *syntax.Stmt) {
	for _, redir := range stmt.Redirs {
		var op TouchOp

		switch redir.Op {
		case syntax.RdrOut, syntax.RdrClob, syntax.RdrAll:
			op = TouchOpRedirect
		case syntax.AppOut, syntax.AppAll:
			op = TouchOpAppend
		default:
			continue
		}

		path := wordToString(redir.Word)
		if path == "" || path == "/dev/null" || strings.HasPrefix(path, "&") {
			continue
		}

		w.touches = append(w.touches, FileTouch{
			Path:      path,
			Operation: op,
			Location: Location{
				Line:   redir.Pos().Line(),
				Column: redir.Pos().Col(),
			},
		})
	}
}

func (w *astWalker) extractTouches(cmd Command) {
	op, targets := touchTargets(cmd)
	if op == TouchOpNone {
		return
	}

	for _, target := range targets {
		w.touches = append(w.touches, FileTouch{
			Path:      target,
			Operation: op,
			Source:    cmd.Name,
			Location:  cmd.Location,
		})
	}
}

// touchTargets determines which operands of a command are mutated.
func touchTargets(cmd Command) (TouchOp, []string) {
	operands := cmd.Operands()

	switch cmd.Name {
	case "rm", "rmdir", "unlink", "shred":
		return TouchOpRemove, operands
	case "tee", "touch", "truncate":
		return TouchOpWrite, operands
	case "mkdir":
		return TouchOpMkdir, operands
	case "mv":
		// both source and destination change
		return TouchOpMove, operands
	case "cp", "install", "rsync":
		if len(operands) >= 2 { //nolint:mnd // source + dest
			return TouchOpCopy, operands[len(operands)-1:]
		}
	case "ln":
		if len(operands) >= 1 {
			return TouchOpLink, operands[len(operands)-1:]
		}
	case "chmod", "chown", "chgrp":
		// first operand is the mode or owner
		if len(operands) >= 2 { //nolint:mnd // mode + path
			return TouchOpChmod, operands[1:]
		}
	case "dd":
		for _, arg := range cmd.Args {
			if target, ok := strings.CutPrefix(arg, "of="); ok && target != "" {
				return TouchOpWrite, []string{target}
			}
		}
	case "sed":
		if hasInPlaceFlag(cmd.Args) && len(operands) >= 2 { //nolint:mnd // script + file
			return TouchOpWrite, operands[1:]
		}
	}

	return TouchOpNone, nil
}

func hasInPlaceFlag(args []string) bool {
	for _, arg := range args {
		if arg == "-i" || strings.HasPrefix(arg, "-i") || arg == "--in-place" {
			return true
		}
	}

	return false
}

// unwrap returns the command run by a wrapper such as sudo or env.
func unwrap(cmd Command) (Command, bool) {
	switch cmd.Name {
	case "sudo", "doas", "env", "command", "nice", "nohup", "time":
	default:
		return Command{}, false
	}

	for i, arg := range cmd.Args {
		if strings.HasPrefix(arg, "-") || strings.Contains(arg, "=") {
			continue
		}

		return Command{Name: arg, Args: cmd.Args[i+1:], Location: cmd.Location}, true
	}

	return Command{}, false
}
