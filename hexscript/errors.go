package hexscript

import (
	"fmt"
	"strconv"
	"strings"
)

// ErrorKind enumerates the classified failure kinds of §7.
type ErrorKind string

const (
	ErrParseError       ErrorKind = "ParseError"
	ErrFeatureDisabled  ErrorKind = "FeatureDisabled"
	ErrTypeError        ErrorKind = "TypeError"
	ErrNameError        ErrorKind = "NameError"
	ErrNoSuchMethod     ErrorKind = "NoSuchMethod"
	ErrFunctionNotFound ErrorKind = "FunctionNotFound"
	ErrRemoteError      ErrorKind = "RemoteError"
	ErrTimeout          ErrorKind = "Timeout"
	ErrRecursionTooDeep ErrorKind = "RecursionTooDeep"
	ErrInternalError    ErrorKind = "InternalError"
)

const (
	runtimeErrorFrameHead = 8
	runtimeErrorFrameTail = 8
)

// StackFrame identifies one activation on the interpreter's call stack
// at the point a RuntimeError was raised.
type StackFrame struct {
	Function string
	Pos      Position
}

// RuntimeError is the error type the interpreter raises for script
// failures (a cancelled context is returned as ctx.Err() instead); its
// Kind matches one of the §7 error kinds and becomes the response's
// "error" field as "<Kind>: <Message>".
type RuntimeError struct {
	Kind      ErrorKind
	Message   string
	CodeFrame string
	Frames    []StackFrame
}

func (re *RuntimeError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", re.Kind, re.Message)
	if re.CodeFrame != "" {
		b.WriteString("\n")
		b.WriteString(re.CodeFrame)
	}

	renderFrame := func(frame StackFrame) {
		if frame.Pos.Line > 0 && frame.Pos.Column > 0 {
			fmt.Fprintf(&b, "\n  at %s (%d:%d)", frame.Function, frame.Pos.Line, frame.Pos.Column)
		} else {
			fmt.Fprintf(&b, "\n  at %s", frame.Function)
		}
	}

	if len(re.Frames) <= runtimeErrorFrameHead+runtimeErrorFrameTail {
		for _, frame := range re.Frames {
			renderFrame(frame)
		}
		return b.String()
	}
	for _, frame := range re.Frames[:runtimeErrorFrameHead] {
		renderFrame(frame)
	}
	omitted := len(re.Frames) - (runtimeErrorFrameHead + runtimeErrorFrameTail)
	fmt.Fprintf(&b, "\n  ... %d frames omitted ...", omitted)
	for _, frame := range re.Frames[len(re.Frames)-runtimeErrorFrameTail:] {
		renderFrame(frame)
	}
	return b.String()
}

// Short renders "<Kind>: <Message>" without stack frames or code frame,
// the form used for the response "error" field (§6, §8 scenario 3).
func (re *RuntimeError) Short() string {
	return fmt.Sprintf("%s: %s", re.Kind, re.Message)
}

// ParseError is returned unchanged by the external parser boundary (§4.5).
type ParseError struct {
	Message string
	Pos     Position
	Source  string
}

func (e *ParseError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", ErrParseError, e.Message)
	if frame := formatCodeFrame(e.Source, e.Pos); frame != "" {
		b.WriteString("\n")
		b.WriteString(frame)
	}
	return b.String()
}

func formatCodeFrame(source string, pos Position) string {
	if source == "" || pos.Line <= 0 {
		return ""
	}
	lines := strings.Split(source, "\n")
	if pos.Line > len(lines) {
		return ""
	}
	lineText := lines[pos.Line-1]
	lineRunes := []rune(lineText)

	column := pos.Column
	if column <= 0 {
		column = 1
	}
	if column > len(lineRunes)+1 {
		column = len(lineRunes) + 1
	}

	lineLabel := strconv.Itoa(pos.Line)
	gutterPad := strings.Repeat(" ", len(lineLabel))
	caretPad := strings.Repeat(" ", column-1)

	return fmt.Sprintf(
		"  --> line %d, column %d\n %s | %s\n %s | %s^",
		pos.Line, column, lineLabel, lineText, gutterPad, caretPad,
	)
}
