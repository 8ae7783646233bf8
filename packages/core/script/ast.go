package script

// Command operations.
const (
	OpPrefix          = "prefix"
	OpHost            = "host"
	OpHeader          = "header"
	OpOrigin          = "origin"
	OpProxy           = "proxy"
	OpCredentials     = "credentials"
	OpCSRFToken       = "csrf-token"
	OpFollowRedirects = "follow-redirects"
	OpDebug           = "debug"
	OpUnset           = "unset"
	OpVar             = "var"

	OpGet        = "get"
	OpGetOK      = "get-ok"
	OpGetCORS    = "get-cors"
	OpPost       = "post"
	OpOptions    = "options"
	OpTCPConnect = "tcp-connect"
	OpWaitFor    = "wait-for"

	OpAssert   = "assert"
	OpCSRFFrom = "csrf-from"
	OpHook     = "hook"
	OpSleep    = "sleep"
	OpReport   = "report"
)

// Assert subcommands.
const (
	AssertCode       = "code"
	AssertOK         = "ok"
	AssertNoResponse = "no-response"
	AssertBody       = "body"
	AssertHeader     = "header"
	AssertJSON       = "json"
	AssertSchema     = "schema"
)

// Command is one parsed script line.
type Command struct {
	Op   string
	Args []string
	Line int
}

// Script is a parsed script file.
type Script struct {
	Path     string
	Commands []Command
}
