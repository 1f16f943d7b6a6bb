package process

import (
	"fmt"
	"strings"
)

// Command describes the generator to be launched. It is an immutable
// value object: the With* methods return modified copies.
type Command struct {
	executable string
	args       []string
	configFile string
}

// NewCommand creates a Command for the given generator executable.
func NewCommand(executable string, args []string) (Command, error) {
	if executable == "" {
		return Command{}, fmt.Errorf("executable cannot be empty")
	}

	return Command{
		executable: executable,
		args:       append([]string(nil), args...),
	}, nil
}

// Executable returns the generator executable.
func (c Command) Executable() string {
	return c.executable
}

// Args returns a copy of the launch arguments, including the
// configuration-file argument when one was set.
func (c Command) Args() []string {
	args := append([]string(nil), c.args...)
	if c.configFile != "" {
		args = append(args, "-c", c.configFile)
	}
	return args
}

// ConfigFile returns the generator configuration-file path, or the
// empty string when none was set.
func (c Command) ConfigFile() string {
	return c.configFile
}

// WithConfigFile returns a copy of the command that forwards the given
// configuration-file path to the generator. The path is passed through
// as a launch argument; its contents are never read here.
func (c Command) WithConfigFile(path string) Command {
	return Command{
		executable: c.executable,
		args:       append([]string(nil), c.args...),
		configFile: path,
	}
}

// String returns the full command line for diagnostics.
func (c Command) String() string {
	args := c.Args()
	if len(args) == 0 {
		return c.executable
	}
	return fmt.Sprintf("%s %s", c.executable, strings.Join(args, " "))
}
