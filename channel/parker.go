package channel

// Parker is a pause/resume control signal.
type Parker int

const (
	// Park requests that emission be suspended.
	Park Parker = iota
	// Unpark requests that emission resume.
	Unpark
)

func (p Parker) String() string {
	switch p {
	case Park:
		return "park"
	case Unpark:
		return "unpark"
	default:
		return "unknown"
	}
}

// Controller sends Park and Unpark signals to a parked stream.
type Controller struct {
	tx *Sender[Parker]
}

// NewParker creates a control channel and returns its controller together
// with the receiver to hand to a Park combinator.
func NewParker() (*Controller, *Receiver[Parker]) {
	tx, rx := New[Parker]()
	return &Controller{tx: tx}, rx
}

// Park suspends emission.
func (c *Controller) Park() error { return c.tx.Send(Park) }

// Unpark resumes emission.
func (c *Controller) Unpark() error { return c.tx.Send(Unpark) }

// Close drops the control channel. A parked stream then passes every item of
// its inner stream through.
func (c *Controller) Close() { c.tx.Close() }
