// Package script parses smokecheck script files.
//
// A script is a sequence of commands, one per line. Blank lines and lines
// starting with # are ignored. Arguments may be double- or single-quoted to
// include spaces; inside quotes a backslash escapes the quote character and
// itself. Example:
//
//	prefix https://api.example.org
//	header X-Api-Key: {{$API_KEY}}
//	get /health
//	assert code 200
//	assert body "\"status\":\\s*\"ok\""
//	report
package script
