package domain

// ConnState is the connection manager's lifecycle position.
type ConnState int32

const (
	Disconnected ConnState = iota
	Connecting
	Authenticating
	Joined
	ShuttingDown
)

func (s ConnState) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Connecting:
		return "connecting"
	case Authenticating:
		return "authenticating"
	case Joined:
		return "joined"
	case ShuttingDown:
		return "shutting down"
	default:
		return "unknown"
	}
}

// Session is the per-connection state owned exclusively by the connection
// worker. It is rebuilt from config on every reconnect; nothing in it is
// persisted.
type Session struct {
	Nick     string
	Channels []string
}
