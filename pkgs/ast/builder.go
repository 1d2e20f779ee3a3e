package ast

// NewLine creates a line from chains
func NewLine(chains ...*Chain) *Line {
	return &Line{Chains: chains}
}

// WithComment sets the trailing comment and returns the line
func (l *Line) WithComment(comment string) *Line {
	l.Comment = comment
	return l
}

// Link pairs a join operator with the command it leads to
type Link struct {
	Op      JoinOp
	Command *Command
}

// Then creates a link for NewChain
func Then(op JoinOp, cmd *Command) Link {
	return Link{Op: op, Command: cmd}
}

// NewChain creates a chain terminated by ';'
func NewChain(first *Command, rest ...Link) *Chain {
	chain := &Chain{Commands: []*Command{first}}
	for _, link := range rest {
		chain.Joins = append(chain.Joins, link.Op)
		chain.Commands = append(chain.Commands, link.Command)
	}
	return chain
}

// Background marks the chain as terminated by '&'
func (c *Chain) Background() *Chain {
	c.Separator = SeqBackground
	return c
}

// Cmd creates a simple command
func Cmd(args ...*Argument) *Command {
	return &Command{Type: CommandSimple, Args: args}
}

// Words creates a simple command from literal words
func Words(words ...string) *Command {
	args := make([]*Argument, len(words))
	for i, word := range words {
		args[i] = Lit(word)
	}
	return Cmd(args...)
}

// WithEnv adds environment assignments and returns the command
func (c *Command) WithEnv(envs ...*EnvAssign) *Command {
	c.Envs = append(c.Envs, envs...)
	return c
}

// Env creates a NAME=value assignment with a literal value
func Env(name, value string) *EnvAssign {
	return &EnvAssign{Name: name, Value: Lit(value)}
}

// Word creates an argument from segments
func Word(segments ...*Segment) *Argument {
	return &Argument{Type: ArgumentWord, Segments: segments}
}

// Lit creates an argument holding one literal segment
func Lit(text string) *Argument {
	return Word(Text(text))
}

// Text creates an unquoted text segment
func Text(text string) *Segment {
	return &Segment{Type: SegmentText, Text: text}
}

// Quoted creates a text segment inside double quotes
func Quoted(text string) *Segment {
	return &Segment{Type: SegmentText, Text: text, Quoted: true}
}

// Subst creates a $(...) substitution segment
func Subst(source string, line *Line) *Segment {
	return &Segment{Type: SegmentShell, Text: source, Shell: line}
}

// Reopened marks the segment as starting a new double-quoted part and returns it
func (s *Segment) Reopened() *Segment {
	s.Quoted = true
	s.Reopen = true
	return s
}

// InQuotes marks the segment as inside double quotes and returns it
func (s *Segment) InQuotes() *Segment {
	s.Quoted = true
	return s
}
