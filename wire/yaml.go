package wire

import (
	"time"

	coroutine "github.com/dispatchloop/corostate"
	"gopkg.in/yaml.v3"
)

// yamlFrame and yamlExecutor mirror FrameSnapshot/ExecutorSnapshot with
// yaml tags, for the "inspect" subcommand's human-readable dump.
type yamlFrame struct {
	Method   string         `yaml:"method"`
	Scope    string         `yaml:"scope,omitempty"`
	State    int            `yaml:"state"`
	Current  any            `yaml:"current,omitempty"`
	Receiver any            `yaml:"receiver,omitempty"`
	Args     map[string]any `yaml:"args,omitempty"`
	Locals   map[string]any `yaml:"locals,omitempty"`
}

type yamlExecutor struct {
	Time    time.Duration   `yaml:"time"`
	Threads [][]yamlFrame   `yaml:"threads"`
}

// DumpExecutorYAML renders an ExecutorSnapshot as YAML text, for operators
// inspecting a captured scenario without writing Go code.
func DumpExecutorYAML(snap coroutine.ExecutorSnapshot) ([]byte, error) {
	out := yamlExecutor{Time: snap.Time}
	for _, frames := range snap.Threads {
		var yframes []yamlFrame
		for _, f := range frames {
			yframes = append(yframes, yamlFrame{
				Method:   f.MethodID.Method,
				Scope:    f.MethodID.Scope,
				State:    f.State,
				Current:  f.Current,
				Receiver: f.Receiver,
				Args:     f.Args,
				Locals:   f.Locals,
			})
		}
		out.Threads = append(out.Threads, yframes)
	}
	return yaml.Marshal(out)
}
