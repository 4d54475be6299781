package mock

// Call is one recorded API call.
type Call struct {
	Method string
	Path   string
	Data   map[string]any
}

// Recorder keeps the ordered sequence of calls dispatched through the
// mock. The log is append-only; a fresh Builder starts a fresh log.
type Recorder struct {
	calls []Call
}

func (r *Recorder) record(call Call) {
	r.calls = append(r.calls, call)
}

// Calls returns the recorded call sequence.
func (r *Recorder) Calls() []Call {
	return r.calls
}

// Len returns the number of recorded calls.
func (r *Recorder) Len() int {
	return len(r.calls)
}

// Last returns the most recent call, if any.
func (r *Recorder) Last() (Call, bool) {
	if len(r.calls) == 0 {
		return Call{}, false
	}
	return r.calls[len(r.calls)-1], true
}
