package todo

// Status is the completion state of a todo. It only moves from Incomplete
// to Completed; no operation reopens a todo.
type Status int

const (
	Incomplete Status = iota
	Completed
)

func StatusOf(completed bool) Status {
	if completed {
		return Completed
	}

	return Incomplete
}

func (s Status) String() string {

	var str string
	switch s {
	case Incomplete:
		str = "Incomplete"
	case Completed:
		str = "Completed"
	}

	return str
}
