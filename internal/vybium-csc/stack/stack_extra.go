package stack

// PullAll transitions every currently Present id to Pulled, used by the
// planner's garbage-drop step once all outputs have been routed away.
func (m *Model) PullAll() {
	for id, st := range m.states {
		if st == present {
			m.states[id] = pulled
			m.tree.add(int(id), -m.footprint[id])
		}
	}
}
