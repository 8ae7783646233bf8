package builtin

import (
	"encoding/base64"
	"math/rand"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Func func(args []string) any

type Registry struct {
	funcs map[string]Func
}

func NewRegistry() *Registry {
	r := &Registry{
		funcs: make(map[string]Func),
	}
	r.registerDefaults()
	return r
}

func (r *Registry) registerDefaults() {
	r.funcs["now"] = funcNow
	r.funcs["timestamp"] = funcTimestamp
	r.funcs["uuid"] = funcUUID
	r.funcs["randomString"] = funcRandomString
	r.funcs["base64"] = funcBase64
	r.funcs["urlEncode"] = funcURLEncode
}

func (r *Registry) Register(name string, fn Func) {
	r.funcs[name] = fn
}

var funcCallPattern = regexp.MustCompile(`^(\w+)\((.*)\)$`)

// Call evaluates expr as a function call. The second return is false when
// expr is not a call or names an unknown function.
func (r *Registry) Call(expr string) (any, bool) {
	matches := funcCallPattern.FindStringSubmatch(expr)
	if matches == nil {
		return nil, false
	}

	fn, ok := r.funcs[matches[1]]
	if !ok {
		return nil, false
	}

	var args []string
	if matches[2] != "" {
		args = parseArgs(matches[2])
	}

	return fn(args), true
}

func parseArgs(s string) []string {
	var args []string
	var current strings.Builder
	inQuote := false
	quoteChar := byte(0)

	for i := 0; i < len(s); i++ {
		ch := s[i]
		if !inQuote && (ch == '"' || ch == '\'') {
			inQuote = true
			quoteChar = ch
		} else if inQuote && ch == quoteChar {
			inQuote = false
			quoteChar = 0
		} else if !inQuote && ch == ',' {
			args = append(args, strings.TrimSpace(current.String()))
			current.Reset()
		} else {
			current.WriteByte(ch)
		}
	}

	if current.Len() > 0 {
		args = append(args, strings.TrimSpace(current.String()))
	}

	return args
}

func funcNow(_ []string) any {
	return time.Now().UTC().Format(time.RFC3339)
}

func funcTimestamp(_ []string) any {
	return time.Now().Unix()
}

func funcUUID(_ []string) any {
	return uuid.New().String()
}

const randomAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func funcRandomString(args []string) any {
	length := 16
	if len(args) >= 1 {
		if v, err := strconv.Atoi(args[0]); err == nil && v > 0 {
			length = v
		}
	}
	b := make([]byte, length)
	for i := range b {
		b[i] = randomAlphabet[rand.Intn(len(randomAlphabet))]
	}
	return string(b)
}

func funcBase64(args []string) any {
	if len(args) < 1 {
		return ""
	}
	return base64.StdEncoding.EncodeToString([]byte(args[0]))
}

func funcURLEncode(args []string) any {
	if len(args) < 1 {
		return ""
	}
	return url.QueryEscape(args[0])
}
