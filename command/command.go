// Package command models protocol commands as ordered token sequences.
// Commands built here are not sent anywhere; connections queue them and
// flush the queue when the transport comes up.
package command

import "strconv"

// Command is one protocol command: an ordered sequence of string tokens,
// the first being the command name.
type Command []string

// New builds a command from its tokens.
func New(tokens ...string) Command {
	return Command(tokens)
}

// Auth builds an authentication command. With a username it takes the
// two-argument ACL form, otherwise the single password argument.
func Auth(username, password string) Command {
	if username != "" {
		return Command{"AUTH", username, password}
	}
	return Command{"AUTH", password}
}

// Select builds a database-selection command for the given index.
func Select(index int) Command {
	return Command{"SELECT", strconv.Itoa(index)}
}

// Name returns the command name, or "" for an empty command.
func (c Command) Name() string {
	if len(c) == 0 {
		return ""
	}
	return c[0]
}

// Args returns the tokens after the command name.
func (c Command) Args() []string {
	if len(c) == 0 {
		return nil
	}
	return c[1:]
}
