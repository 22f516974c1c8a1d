// pkg/postman/script.go
package postman

// ScriptType is the interpreter tag Postman expects on event scripts.
const ScriptType = "text/javascript"

// Event attaches a script to a request lifecycle phase ("test" or
// "prerequest").
type Event struct {
	Listen string  `json:"listen"`
	Script *Script `json:"script,omitempty"`
}

type Script struct {
	ID   string   `json:"id,omitempty"`
	Type string   `json:"type,omitempty"`
	Exec []string `json:"exec"`
}

// TestScript returns the item's test script, creating the event when absent.
func (i *Item) TestScript() *Script {
	return i.eventScript("test")
}

// PreRequestScript returns the item's prerequest script, creating the event
// when absent.
func (i *Item) PreRequestScript() *Script {
	return i.eventScript("prerequest")
}

func (i *Item) eventScript(listen string) *Script {
	for _, ev := range i.Event {
		if ev.Listen == listen {
			if ev.Script == nil {
				ev.Script = &Script{Type: ScriptType}
			}
			return ev.Script
		}
	}
	s := &Script{Type: ScriptType}
	i.Event = append(i.Event, &Event{Listen: listen, Script: s})
	return s
}

// AppendTest appends assertion lines to the item's test script.
func (i *Item) AppendTest(lines []string) {
	i.TestScript().AppendLines(lines)
}

// AppendLines appends a block of script lines, separated from any existing
// content by a blank line. Appending an empty block is a no-op.
func (s *Script) AppendLines(lines []string) {
	if len(lines) == 0 {
		return
	}
	if len(s.Exec) > 0 {
		s.Exec = append(s.Exec, "")
	}
	s.Exec = append(s.Exec, lines...)
}

// ContainsLine reports whether any script line equals line exactly.
func (s *Script) ContainsLine(line string) bool {
	for _, l := range s.Exec {
		if l == line {
			return true
		}
	}
	return false
}
