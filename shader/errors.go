package shader

import (
	"fmt"
	"strings"

	"github.com/richinsley/goglharness/graphics"
)

// CompileError reports a stage that failed to compile.
type CompileError struct {
	Stage graphics.ShaderStage
	Log   string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("shader compile error (%s stage): %s", e.Stage, cleanLog(e.Log))
}

// LinkError reports a program that failed to link.
type LinkError struct {
	Label string
	Log   string
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("shader link error (%s): %s", e.Label, cleanLog(e.Log))
}

func cleanLog(s string) string {
	s = strings.TrimSpace(strings.TrimRight(s, "\x00"))
	if s == "" {
		return "no log available"
	}
	return s
}
