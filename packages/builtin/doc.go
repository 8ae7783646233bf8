// Package builtin provides the functions callable from {{...}} expressions
// in smokecheck scripts, such as {{uuid()}} and {{timestamp()}}.
package builtin
