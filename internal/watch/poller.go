package watch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	libmonado "github.com/technobaboo/libmonado-go"
)

// EventKind says what changed between two polls.
type EventKind string

const (
	ClientConnected    EventKind = "client-connected"
	ClientDisconnected EventKind = "client-disconnected"
	ClientStateChanged EventKind = "client-state"
	DeviceAdded        EventKind = "device-added"
	DeviceRemoved      EventKind = "device-removed"
	PollFailed         EventKind = "poll-failed"
)

// Event is one change. Client is set for client events, Device for device
// events and Err for PollFailed.
type Event struct {
	Kind     EventKind              `json:"kind" yaml:"kind"`
	Time     time.Time              `json:"time" yaml:"time"`
	Client   *libmonado.ClientInfo  `json:"client,omitempty" yaml:"client,omitempty"`
	Previous *libmonado.ClientState `json:"previous,omitempty" yaml:"previous,omitempty"`
	Device   *libmonado.DeviceInfo  `json:"device,omitempty" yaml:"device,omitempty"`
	Err      string                 `json:"error,omitempty" yaml:"error,omitempty"`
}

func (e Event) String() string {
	switch {
	case e.Client != nil && e.Previous != nil:
		return fmt.Sprintf("%s %d %q %s -> %s", e.Kind, e.Client.ID, e.Client.Name, *e.Previous, e.Client.State)
	case e.Client != nil:
		return fmt.Sprintf("%s %d %q %s", e.Kind, e.Client.ID, e.Client.Name, e.Client.State)
	case e.Device != nil:
		return fmt.Sprintf("%s %d %q", e.Kind, e.Device.Index, e.Device.Name)
	default:
		return fmt.Sprintf("%s %s", e.Kind, e.Err)
	}
}

// Source returns the current state, typically (*libmonado.Monado).Snapshot.
type Source func() (*libmonado.Snapshot, error)

// Poller turns periodic snapshots into change events.
type Poller struct {
	source   Source
	interval time.Duration
	logger   *slog.Logger
	now      func() time.Time
}

// NewPoller returns a poller reading source every interval.
func NewPoller(source Source, interval time.Duration, logger *slog.Logger) *Poller {
	if interval <= 0 {
		interval = time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Poller{source: source, interval: interval, logger: logger, now: time.Now}
}

// Run polls until ctx is done. The first poll reports everything present as
// connected or added. Failed polls are reported as PollFailed and keep the
// previous state.
func (p *Poller) Run(ctx context.Context, handle func(Event)) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	var prev *libmonado.Snapshot
	for {
		next, err := p.source()
		if err != nil {
			p.logger.Warn("poll failed", "error", err)
			handle(Event{Kind: PollFailed, Time: p.now(), Err: err.Error()})
		} else {
			for _, e := range Diff(prev, next) {
				e.Time = p.now()
				handle(e)
			}
			prev = next
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// Diff lists the changes from prev to next. A nil prev is treated as empty.
// Devices are matched by index and name, so a different device appearing
// at an index is reported as a removal and an addition.
func Diff(prev, next *libmonado.Snapshot) []Event {
	if prev == nil {
		prev = &libmonado.Snapshot{}
	}
	var events []Event

	before := make(map[uint32]libmonado.ClientInfo, len(prev.Clients))
	for _, c := range prev.Clients {
		before[c.ID] = c
	}
	after := make(map[uint32]bool, len(next.Clients))
	for _, c := range next.Clients {
		c := c
		after[c.ID] = true
		old, ok := before[c.ID]
		switch {
		case !ok:
			events = append(events, Event{Kind: ClientConnected, Client: &c})
		case old.State != c.State:
			state := old.State
			events = append(events, Event{Kind: ClientStateChanged, Client: &c, Previous: &state})
		}
	}
	for _, c := range prev.Clients {
		c := c
		if !after[c.ID] {
			events = append(events, Event{Kind: ClientDisconnected, Client: &c})
		}
	}

	type deviceKey struct {
		index uint32
		name  string
	}
	had := make(map[deviceKey]bool, len(prev.Devices))
	for _, d := range prev.Devices {
		had[deviceKey{d.Index, d.Name}] = true
	}
	has := make(map[deviceKey]bool, len(next.Devices))
	for _, d := range next.Devices {
		d := d
		k := deviceKey{d.Index, d.Name}
		has[k] = true
		if !had[k] {
			events = append(events, Event{Kind: DeviceAdded, Device: &d})
		}
	}
	for _, d := range prev.Devices {
		d := d
		if !has[deviceKey{d.Index, d.Name}] {
			events = append(events, Event{Kind: DeviceRemoved, Device: &d})
		}
	}
	return events
}
