package script

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// arity bounds per operation. -1 means unbounded.
type arity struct {
	min int
	max int
}

var opArity = map[string]arity{
	OpPrefix:          {1, 1},
	OpHost:            {1, 1},
	OpHeader:          {1, -1}, // "Key: Value", possibly with spaces
	OpOrigin:          {1, 1},
	OpProxy:           {1, 2}, // proxy URL, optional no-proxy list
	OpCredentials:     {1, 2}, // username, optional password
	OpCSRFToken:       {1, 1},
	OpFollowRedirects: {1, 1},
	OpDebug:           {1, 1},
	OpUnset:           {1, 2},
	OpVar:             {2, 2},
	OpGet:             {1, 1},
	OpGetOK:           {1, 1},
	OpGetCORS:         {1, 1},
	OpPost:            {2, 2}, // url, form file
	OpOptions:         {1, 1},
	OpTCPConnect:      {2, 2}, // host, port
	OpWaitFor:         {2, 3}, // url, status, optional timeout
	OpAssert:          {1, 3},
	OpCSRFFrom:        {2, 2}, // body|header, regex
	OpHook:            {1, -1},
	OpSleep:           {1, 1},
	OpReport:          {0, 0},
}

var assertArity = map[string]arity{
	AssertCode:       {1, 1},
	AssertOK:         {0, 0},
	AssertNoResponse: {0, 0},
	AssertBody:       {1, 1},
	AssertHeader:     {1, 1},
	AssertJSON:       {2, 2},
	AssertSchema:     {1, 1},
}

// ParseFile reads and parses a script file.
func ParseFile(path string) (*Script, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f, path)
}

// Parse reads a script from r. path is used in error messages only.
func Parse(r io.Reader, path string) (*Script, error) {
	s := &Script{Path: path}

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		fields, err := splitFields(text)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %v", path, line, err)
		}
		if len(fields) == 0 {
			continue
		}

		cmd := Command{
			Op:   strings.ToLower(fields[0]),
			Args: fields[1:],
			Line: line,
		}
		if err := validate(cmd); err != nil {
			return nil, fmt.Errorf("%s:%d: %v", path, line, err)
		}
		s.Commands = append(s.Commands, cmd)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	return s, nil
}

func validate(cmd Command) error {
	bounds, ok := opArity[cmd.Op]
	if !ok {
		return fmt.Errorf("unknown command %q", cmd.Op)
	}
	if err := checkArity(cmd.Op, cmd.Args, bounds); err != nil {
		return err
	}

	switch cmd.Op {
	case OpAssert:
		sub := strings.ToLower(cmd.Args[0])
		subBounds, ok := assertArity[sub]
		if !ok {
			return fmt.Errorf("unknown assertion %q", sub)
		}
		if err := checkArity("assert "+sub, cmd.Args[1:], subBounds); err != nil {
			return err
		}
		if sub == AssertCode {
			if _, err := strconv.Atoi(cmd.Args[1]); err != nil {
				return fmt.Errorf("assert code: %q is not a number", cmd.Args[1])
			}
		}
	case OpHeader:
		if !strings.Contains(strings.Join(cmd.Args, " "), ":") {
			return fmt.Errorf("header must be \"Key: Value\"")
		}
	case OpTCPConnect:
		if _, err := strconv.Atoi(cmd.Args[1]); err != nil {
			return fmt.Errorf("tcp-connect: %q is not a port", cmd.Args[1])
		}
	case OpWaitFor:
		if _, err := strconv.Atoi(cmd.Args[1]); err != nil {
			return fmt.Errorf("wait-for: %q is not a status code", cmd.Args[1])
		}
	case OpCSRFFrom:
		src := strings.ToLower(cmd.Args[0])
		if src != "body" && src != "header" {
			return fmt.Errorf("csrf-from source must be body or header, got %q", cmd.Args[0])
		}
	case OpFollowRedirects, OpDebug:
		v := strings.ToLower(cmd.Args[0])
		if v != "on" && v != "off" {
			return fmt.Errorf("%s takes on or off, got %q", cmd.Op, cmd.Args[0])
		}
	}
	return nil
}

func checkArity(op string, args []string, bounds arity) error {
	if len(args) < bounds.min {
		return fmt.Errorf("%s: expected at least %d argument(s), got %d", op, bounds.min, len(args))
	}
	if bounds.max >= 0 && len(args) > bounds.max {
		return fmt.Errorf("%s: expected at most %d argument(s), got %d", op, bounds.max, len(args))
	}
	return nil
}

// splitFields splits a line into fields, honoring single and double quotes.
// Inside a quoted field a backslash escapes the quote character and the
// backslash itself; any other backslash is kept literally so regex classes
// like \s pass through unchanged.
func splitFields(line string) ([]string, error) {
	var fields []string
	var current strings.Builder
	inQuote := false
	quoteChar := byte(0)
	hasField := false

	for i := 0; i < len(line); i++ {
		ch := line[i]
		switch {
		case inQuote && ch == '\\' && i+1 < len(line) && (line[i+1] == quoteChar || line[i+1] == '\\'):
			current.WriteByte(line[i+1])
			i++
		case inQuote && ch == quoteChar:
			inQuote = false
		case !inQuote && (ch == '"' || ch == '\''):
			inQuote = true
			quoteChar = ch
			hasField = true
		case !inQuote && (ch == ' ' || ch == '\t'):
			if hasField {
				fields = append(fields, current.String())
				current.Reset()
				hasField = false
			}
		default:
			current.WriteByte(ch)
			hasField = true
		}
	}
	if inQuote {
		return nil, fmt.Errorf("unterminated quote")
	}
	if hasField {
		fields = append(fields, current.String())
	}
	return fields, nil
}
