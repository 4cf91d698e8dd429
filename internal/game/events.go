package game

type EventKind string

const (
	EventSelected      EventKind = "selected"
	EventModeChanged   EventKind = "mode_changed"
	EventMoved         EventKind = "moved"
	EventAttacked      EventKind = "attacked"
	EventPieceKilled   EventKind = "piece_killed"
	EventCoinsGranted  EventKind = "coins_granted"
	EventPurchased     EventKind = "purchased"
	EventVolley        EventKind = "arrow_volley"
	EventCardUsed      EventKind = "card_used"
	EventConsumed      EventKind = "consumable_applied"
	EventDeployed      EventKind = "deployed"
	EventShopGenerated EventKind = "shop_generated"
	EventPhaseChanged  EventKind = "phase_changed"
	EventGameOver      EventKind = "game_over"
	EventReset         EventKind = "reset"
)

// Event is one resolved fact. Optional fields are nil when they do not apply.
type Event struct {
	Seq       uint64     `json:"seq"`
	Kind      EventKind  `json:"kind"`
	Round     int        `json:"round"`
	Player    *Color     `json:"player,omitempty"`
	From      *Square    `json:"from,omitempty"`
	To        *Square    `json:"to,omitempty"`
	PieceID   int        `json:"pieceId,omitempty"`
	Archetype *PieceType `json:"archetype,omitempty"`
	Amount    int        `json:"amount,omitempty"`
	Balance   *int       `json:"balance,omitempty"`
	HP        *int       `json:"hp,omitempty"`
	Note      string     `json:"note,omitempty"`
}

const defaultEventRetention = 4096

// EventLog is an append-only record with monotonically increasing sequence
// numbers. Only the newest retention events are kept.
type EventLog struct {
	events    []Event
	lastSeq   uint64
	retention int
}

func newEventLog(retention int) *EventLog {
	if retention <= 0 {
		retention = defaultEventRetention
	}
	return &EventLog{retention: retention}
}

func (l *EventLog) append(ev Event) Event {
	l.lastSeq++
	ev.Seq = l.lastSeq
	l.events = append(l.events, ev)
	if over := len(l.events) - l.retention; over > 0 {
		l.events = append(l.events[:0], l.events[over:]...)
	}
	return ev
}

// Since returns the retained events with Seq greater than seq.
func (l *EventLog) Since(seq uint64) []Event {
	idx := len(l.events)
	for idx > 0 && l.events[idx-1].Seq > seq {
		idx--
	}
	out := make([]Event, len(l.events)-idx)
	copy(out, l.events[idx:])
	return out
}

func (l *EventLog) LastSeq() uint64 { return l.lastSeq }

func ptr[T any](v T) *T { return &v }
