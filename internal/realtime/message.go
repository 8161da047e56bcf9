package realtime

type SSEEvent string

const (
	SSEEventInsert SSEEvent = SSEEvent(ChangeInsert)
	SSEEventUpdate SSEEvent = SSEEvent(ChangeUpdate)
	SSEEventDelete SSEEvent = SSEEvent(ChangeDelete)
)

type SSEMessage struct {
	Channel string   `json:"channel"`
	Event   SSEEvent `json:"event"`
	Data    Change   `json:"data"`
}
