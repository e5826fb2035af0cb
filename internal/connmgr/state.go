package connmgr

import "github.com/orsinium-labs/enum"

// State is the lifecycle state of a Manager or Handle.
type State enum.Member[string]

var (
	StateUnopened  = State{Value: "unopened"}
	StateConnected = State{Value: "connected"}
	StateClosed    = State{Value: "closed"}

	States = enum.New(StateUnopened, StateConnected, StateClosed)
)

// String returns the state name.
func (s State) String() string {
	return s.Value
}
