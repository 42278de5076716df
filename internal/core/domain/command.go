package domain

// Command is an external program invocation.
type Command struct {
	Program string
	Args    []string
	// Env holds overrides merged on top of the process environment.
	Env map[string]string
	Dir string
}

// NewCommand builds a Command from an argv slice.
func NewCommand(argv []string) Command {
	if len(argv) == 0 {
		return Command{}
	}
	return Command{Program: argv[0], Args: append([]string(nil), argv[1:]...)}
}

// Argv returns the program followed by its arguments.
func (c Command) Argv() []string {
	return append([]string{c.Program}, c.Args...)
}

// ProcessOutput is the captured result of a command run to completion.
type ProcessOutput struct {
	Status ExitStatus
	Stdout []byte
	Stderr []byte
}

// Success reports whether the process exited with code zero.
func (o *ProcessOutput) Success() bool {
	return o.Status.Exited && o.Status.Code == 0
}
