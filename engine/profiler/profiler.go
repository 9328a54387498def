//go:build profile

package profiler

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hubastard/clickrace/engine/logx"
)

// -------- public API --------

// Init must be called once at startup with a capacity (#events).
// Example: profiler.Init(1 << 20)
func Init(capacity int) {
	if capacity <= 0 {
		capacity = 1 << 20
	}
	evrb.init(capacity)
}

// Start begins a scope and returns an end func to be deferred.
func Start(name string) func() {
	if !evrb.ready.Load() {
		return func() {}
	}
	fid := intern(name)
	now := time.Now().UnixNano()
	evrb.push(evEntry{AtNS: now, FrameID: fid, Open: true})
	return func() {
		end := time.Now().UnixNano()
		if end < now {
			end = now
		}
		evrb.push(evEntry{AtNS: end, FrameID: fid, Open: false})
	}
}

// ScopeStat is the aggregate of every closed span of one scope name.
type ScopeStat struct {
	Name  string
	Count int
	Total time.Duration
	Max   time.Duration
}

func (s ScopeStat) Mean() time.Duration {
	if s.Count == 0 {
		return 0
	}
	return s.Total / time.Duration(s.Count)
}

// Stats aggregates the recorded spans, sorted by total time.
func Stats() []ScopeStat {
	return aggregate(evrb.snapshot(), frameNames())
}

// Report logs the scope stats and writes a speedscope capture to the temp dir.
func Report() {
	evs := evrb.snapshot()
	if len(evs) == 0 {
		return
	}
	log := logx.Logger()
	for _, s := range aggregate(evs, frameNames()) {
		log.Info("profile scope", "name", s.Name, "count", s.Count, "mean", s.Mean(), "max", s.Max, "total", s.Total)
	}
	path := filepath.Join(os.TempDir(), "clickrace.speedscope.json")
	if err := dumpSpeedscopeEvents(evs, path); err != nil {
		log.Warn("profile dump failed", "err", err)
		return
	}
	log.Info("profile written", "path", path)
}

// ---------- event ring ----------

type evEntry struct {
	AtNS    int64
	FrameID int
	Open    bool
}

type evRing struct {
	ready atomic.Bool
	cap   uint64
	write atomic.Uint64
	evs   []evEntry
}

func (r *evRing) init(capacity int) {
	r.cap = uint64(capacity)
	r.evs = make([]evEntry, r.cap)
	r.write.Store(0)
	r.ready.Store(true)
}

func (r *evRing) push(e evEntry) {
	i := r.write.Add(1) - 1
	r.evs[i%r.cap] = e
}

// snapshot preserves write order.
func (r *evRing) snapshot() []evEntry {
	n := r.write.Load()
	if n == 0 {
		return nil
	}
	start := uint64(0)
	if n > r.cap {
		start = n - r.cap
	}
	out := make([]evEntry, 0, n-start)
	for k := start; k < n; k++ {
		out = append(out, r.evs[k%r.cap])
	}
	return out
}

var evrb evRing

// ---------- string interner ----------

var (
	muFrames sync.Mutex
	frames   []string
	index    = map[string]int{}
)

func intern(name string) int {
	muFrames.Lock()
	defer muFrames.Unlock()
	if id, ok := index[name]; ok {
		return id
	}
	id := len(frames)
	index[name] = id
	frames = append(frames, name)
	return id
}

func frameNames() []string {
	muFrames.Lock()
	defer muFrames.Unlock()
	out := make([]string, len(frames))
	copy(out, frames)
	return out
}

// aggregate pairs opens with closes per scope. Closes without a matching
// open (the ring wrapped) are skipped.
func aggregate(evs []evEntry, names []string) []ScopeStat {
	byID := map[int]*ScopeStat{}
	var stack []evEntry
	for _, e := range evs {
		if e.Open {
			stack = append(stack, e)
			continue
		}
		if len(stack) == 0 || stack[len(stack)-1].FrameID != e.FrameID {
			continue
		}
		open := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		s, ok := byID[e.FrameID]
		if !ok {
			name := fmt.Sprintf("scope#%d", e.FrameID)
			if e.FrameID < len(names) {
				name = names[e.FrameID]
			}
			s = &ScopeStat{Name: name}
			byID[e.FrameID] = s
		}
		d := time.Duration(e.AtNS - open.AtNS)
		s.Count++
		s.Total += d
		if d > s.Max {
			s.Max = d
		}
	}
	out := make([]ScopeStat, 0, len(byID))
	for _, s := range byID {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// ---------- speedscope dump from events ----------

type ssFile struct {
	Schema   string      `json:"$schema"`
	Shared   ssShared    `json:"shared"`
	Profiles []ssProfile `json:"profiles"`
	Exporter string      `json:"exporter,omitempty"`
	Name     string      `json:"name,omitempty"`
}
type ssShared struct {
	Frames []ssFrame `json:"frames"`
}
type ssFrame struct {
	Name string `json:"name"`
}

type ssProfile struct {
	Type       string    `json:"type"` // "evented"
	Name       string    `json:"name"`
	Unit       string    `json:"unit"` // "microseconds"
	StartValue int64     `json:"startValue"`
	EndValue   int64     `json:"endValue"`
	Events     []ssEvent `json:"events"`
}

type ssEvent struct {
	Type  string `json:"type"`  // "O" or "C"
	At    int64  `json:"at"`    // µs since first event
	Frame int    `json:"frame"` // frame index
}

func dumpSpeedscopeEvents(evs []evEntry, path string) error {
	names := frameNames()
	fs := make([]ssFrame, len(names))
	for i, name := range names {
		fs[i] = ssFrame{Name: name}
	}

	base := evs[0].AtNS
	endUS := int64(0)
	out := make([]ssEvent, 0, len(evs)+16)
	stack := make([]int, 0, 64)
	lastUS := int64(-1)

	for _, e := range evs {
		atUS := (e.AtNS - base) / 1000
		if atUS < lastUS {
			atUS = lastUS
		}
		if e.Open {
			out = append(out, ssEvent{Type: "O", At: atUS, Frame: e.FrameID})
			stack = append(stack, e.FrameID)
		} else {
			if len(stack) == 0 || stack[len(stack)-1] != e.FrameID {
				continue
			}
			stack = stack[:len(stack)-1]
			out = append(out, ssEvent{Type: "C", At: atUS, Frame: e.FrameID})
		}
		lastUS = atUS
		if atUS > endUS {
			endUS = atUS
		}
	}
	// speedscope expects balanced events
	for i := len(stack) - 1; i >= 0; i-- {
		out = append(out, ssEvent{Type: "C", At: lastUS, Frame: stack[i]})
	}
	if len(out) == 0 {
		return fmt.Errorf("profiler: no usable events")
	}

	doc := ssFile{
		Schema: "https://www.speedscope.app/file-format-schema.json",
		Shared: ssShared{Frames: fs},
		Profiles: []ssProfile{{
			Type:     "evented",
			Name:     "clickrace",
			Unit:     "microseconds",
			EndValue: endUS,
			Events:   out,
		}},
		Exporter: "clickrace-profiler",
		Name:     "clickrace capture",
	}

	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(&doc); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
