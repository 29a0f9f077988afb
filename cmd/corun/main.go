// Command corun drives a cooperative coroutine scenario from the command
// line: start threads from a YAML file, tick them to completion, and
// optionally capture and inspect a snapshot of their live state.
package main

import "github.com/dispatchloop/corostate/cmd/corun/cli"

func main() {
	cli.Execute()
}
