// Package logging writes structured JSON logs to a size-rotated file under
// ~/.anagrams/logs/ and reads them back for the logs command.
//
// Commands log to the file only when --debug is set. The MCP server always
// logs to the file and never to stdout or stderr.
package logging
