package router

import (
	"strings"
)

// Command prefixes understood by the chat surfaces (CLI and WebSocket).
const (
	CommandLevels   = "/levels"
	CommandClear    = "/clear"
	CommandCompress = "/compress"
	CommandState    = "/state"
	CommandQuit     = "/quit"
)

var commands = []string{CommandLevels, CommandClear, CommandCompress, CommandState, CommandQuit}

// ParsedInput separates a slash command from a plain chat message.
type ParsedInput struct {
	Original string
	Command  string   // empty for plain messages
	Args     []string // whitespace separated arguments after the command
	Text     string   // trimmed message when Command is empty
}

func (p *ParsedInput) IsCommand() bool {
	return p.Command != ""
}

// Parse extracts routing information from raw input.
// Supports:
//   - /levels lise ortaokul → replace the active levels
//   - /clear [keep]         → clear history, "keep" preserves the levels
//   - /compress on|off      → toggle context compression
//   - /state, /quit
//   - <message>             → plain chat
func Parse(input string) *ParsedInput {
	trimmed := strings.TrimSpace(input)
	fields := strings.Fields(trimmed)
	if len(fields) > 0 {
		head := strings.ToLower(fields[0])
		for _, c := range commands {
			if head == c {
				args := fields[1:]
				for i := range args {
					args[i] = strings.Trim(args[i], ",")
				}
				return &ParsedInput{Original: input, Command: c, Args: args}
			}
		}
	}
	return &ParsedInput{Original: input, Text: trimmed}
}
