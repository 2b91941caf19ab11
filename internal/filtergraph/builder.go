package filtergraph

import (
	"fmt"
	"strconv"
	"strings"
)

// Filter accumulates options for a single named filter stage.
type Filter struct {
	name string
	opts []string
}

// New starts a filter expression for the named stage.
func New(name string) *Filter {
	return &Filter{name: name}
}

// Opt appends a raw key=value option. The value must already be safe for the
// filter language; use Text for anything user-authored.
func (f *Filter) Opt(key, value string) *Filter {
	f.opts = append(f.opts, key+"="+value)
	return f
}

// Text appends a key='value' option with the value escaped and quoted.
func (f *Filter) Text(key, value string) *Filter {
	return f.Opt(key, "'"+Escape(value)+"'")
}

// Path appends a key='value' option holding a filesystem path.
func (f *Filter) Path(key, value string) *Filter {
	return f.Opt(key, "'"+EscapePath(value)+"'")
}

// Expr appends a key='value' option holding a frame-time expression. The
// expression is quoted but not escaped: expressions legitimately contain
// the characters Escape would rewrite.
func (f *Filter) Expr(key, value string) *Filter {
	return f.Opt(key, "'"+value+"'")
}

// Int appends an integer option.
func (f *Filter) Int(key string, value int) *Filter {
	return f.Opt(key, strconv.Itoa(value))
}

// Float appends a float option with short fixed formatting.
func (f *Filter) Float(key string, value float64) *Filter {
	return f.Opt(key, formatFloat(value))
}

// String assembles the stage as name=opt:opt:...
func (f *Filter) String() string {
	if len(f.opts) == 0 {
		return f.name
	}
	return f.name + "=" + strings.Join(f.opts, ":")
}

// Chain joins filter stages into one -vf / -af argument.
type Chain struct {
	stages []string
}

// Add appends a completed stage to the chain. Empty stages are skipped so
// callers can build conditionally.
func (c *Chain) Add(stage fmt.Stringer) *Chain {
	if stage == nil {
		return c
	}
	text := stage.String()
	if text != "" {
		c.stages = append(c.stages, text)
	}
	return c
}

// AddRaw appends a pre-rendered stage.
func (c *Chain) AddRaw(stage string) *Chain {
	if stage != "" {
		c.stages = append(c.stages, stage)
	}
	return c
}

// Empty reports whether no stages were added.
func (c *Chain) Empty() bool {
	return len(c.stages) == 0
}

// String renders the comma-joined chain.
func (c *Chain) String() string {
	return strings.Join(c.stages, ",")
}

func formatFloat(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
