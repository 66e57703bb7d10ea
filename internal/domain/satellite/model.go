package satellite

import "time"

// Kind names one per-team satellite blob.
type Kind string

const (
	KindSquads    Kind = "squads"
	KindInjuries  Kind = "injuries"
	KindTransfers Kind = "transfers"
)

func Kinds() []Kind {
	return []Kind{KindSquads, KindInjuries, KindTransfers}
}

func ParseKind(raw string) (Kind, bool) {
	for _, k := range Kinds() {
		if string(k) == raw {
			return k, true
		}
	}
	return "", false
}

// Entry is an opaque provider payload cached for one team.
type Entry struct {
	Kind      Kind
	TeamID    int64
	Payload   []byte
	FetchedAt time.Time
	ExpiresAt time.Time
}

func (e Entry) Expired(now time.Time) bool {
	return !e.ExpiresAt.IsZero() && !e.ExpiresAt.After(now)
}
