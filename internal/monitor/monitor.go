// Package monitor implements the discovery stage: diffing the channel's
// recent uploads against the persisted seen set.
package monitor

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"courtcast/internal/config"
	"courtcast/internal/docket"
	"courtcast/internal/store"
	"courtcast/internal/youtube"
)

// Mode selects the discovery behavior. Modes are mutually exclusive.
type Mode int

const (
	// ModeCheck reports only uploads not yet in the seen set.
	ModeCheck Mode = iota
	// ModeInit marks all currently visible uploads as seen without
	// reporting them.
	ModeInit
	// ModeList prints the N most recent uploads and leaves state untouched.
	ModeList
	// ModeAll reports all visible uploads regardless of seen state
	// (backfill); state is still updated afterward as in check mode.
	ModeAll
)

// Options configures a discovery run.
type Options struct {
	Mode Mode

	// ListCount is the number of uploads to show in ModeList.
	ListCount int64

	// JSON switches to machine output: only the JSON document is printed,
	// and state is deliberately left untouched so a downstream processing
	// failure causes the same uploads to be reported again next run.
	JSON bool
}

// Exit codes for scheduler branching: a cron job chains the processing stage
// only when discovery exits 0.
const (
	ExitNewVideos = 0
	ExitNoNew     = 1
)

// Partition returns the uploads whose IDs are not in the seen set,
// preserving source order.
func Partition(state *store.MonitorState, videos []youtube.VideoInfo) []youtube.VideoInfo {
	var fresh []youtube.VideoInfo
	for _, v := range videos {
		if !state.Seen(v.ID) {
			fresh = append(fresh, v)
		}
	}
	return fresh
}

// Monitor runs the discovery stage.
type Monitor struct {
	cfg    *config.Config
	lister youtube.UploadLister
	out    io.Writer

	// now is stubbed in tests.
	now func() time.Time
}

// New creates a Monitor writing human or machine output to out.
func New(cfg *config.Config, lister youtube.UploadLister, out io.Writer) *Monitor {
	return &Monitor{cfg: cfg, lister: lister, out: out, now: time.Now}
}

// Run executes one discovery pass and returns the process exit code.
func (m *Monitor) Run(ctx context.Context, opts Options) (int, error) {
	switch opts.Mode {
	case ModeList:
		return m.runList(ctx, opts)
	case ModeInit:
		return m.runInit(ctx)
	default:
		return m.runCheck(ctx, opts)
	}
}

// runList shows recent uploads without touching state.
func (m *Monitor) runList(ctx context.Context, opts Options) (int, error) {
	count := opts.ListCount
	if count <= 0 {
		count = m.cfg.MaxResults
	}

	videos, err := m.lister.ListUploads(ctx, count)
	if err != nil {
		return ExitNoNew, err
	}

	if opts.JSON {
		if err := m.printJSON(videos); err != nil {
			return ExitNoNew, err
		}
		return ExitNewVideos, nil
	}

	fmt.Fprintf(m.out, "Recent %d uploads:\n\n", len(videos))
	for _, v := range videos {
		info := docket.ParseCaseInfo(v.Title)
		suffix := ""
		if info.Docket != "" {
			suffix = fmt.Sprintf(" [%s]", info.Docket)
		}
		fmt.Fprintf(m.out, "  %s - %s%s\n", v.ID, truncate(v.Title, 60), suffix)
		fmt.Fprintf(m.out, "             Published: %s\n", v.PublishedAt.Format("2006-01-02"))
	}
	return ExitNewVideos, nil
}

// runInit seeds the seen set with everything currently visible so future
// check runs only report genuinely new uploads.
func (m *Monitor) runInit(ctx context.Context) (int, error) {
	videos, err := m.lister.ListUploads(ctx, m.cfg.MaxResults)
	if err != nil {
		return ExitNoNew, err
	}

	st, err := store.OpenStateStore(m.cfg.StateFile)
	if err != nil {
		return ExitNoNew, err
	}
	defer st.Close()

	state := &store.MonitorState{LastCheck: m.now().UTC()}
	ids := make([]string, 0, len(videos))
	for _, v := range videos {
		ids = append(ids, v.ID)
	}
	state.MarkSeen(ids...)

	if err := st.Save(state); err != nil {
		return ExitNoNew, err
	}

	fmt.Fprintf(m.out, "Initialized state with %d existing videos\n", len(videos))
	fmt.Fprintln(m.out, "Future runs will only report new uploads")
	return ExitNewVideos, nil
}

// runCheck handles the default check mode and the all (backfill) mode.
func (m *Monitor) runCheck(ctx context.Context, opts Options) (int, error) {
	st, err := store.OpenStateStore(m.cfg.StateFile)
	if err != nil {
		return ExitNoNew, err
	}
	defer st.Close()

	state, err := st.Load()
	if err != nil {
		return ExitNoNew, err
	}

	videos, err := m.lister.ListUploads(ctx, m.cfg.MaxResults)
	if err != nil {
		return ExitNoNew, err
	}

	fresh := videos
	if opts.Mode != ModeAll {
		fresh = Partition(state, videos)
	}

	if opts.JSON {
		// Machine mode: state commits are withheld so that a failed
		// processing run leaves these uploads reported as new again on
		// the next check.
		if err := m.printJSON(fresh); err != nil {
			return ExitNoNew, err
		}
		if len(fresh) > 0 {
			return ExitNewVideos, nil
		}
		return ExitNoNew, nil
	}

	if len(fresh) > 0 {
		fmt.Fprintf(m.out, "Found %d new video(s):\n\n", len(fresh))
		for _, v := range fresh {
			info := docket.ParseCaseInfo(v.Title)
			d := info.Docket
			if d == "" {
				d = "N/A"
			}
			fmt.Fprintf(m.out, "  NEW: %s\n", v.Title)
			fmt.Fprintf(m.out, "       ID: %s\n", v.ID)
			fmt.Fprintf(m.out, "       Docket: %s\n", d)
			fmt.Fprintf(m.out, "       URL: %s\n\n", v.VideoURL())
		}
	} else {
		fmt.Fprintln(m.out, "No new videos found")
	}

	ids := make([]string, 0, len(fresh))
	for _, v := range fresh {
		ids = append(ids, v.ID)
	}
	state.MarkSeen(ids...)
	state.LastCheck = m.now().UTC()
	if err := st.Save(state); err != nil {
		return ExitNoNew, err
	}

	if len(fresh) > 0 {
		return ExitNewVideos, nil
	}
	return ExitNoNew, nil
}

func (m *Monitor) printJSON(videos []youtube.VideoInfo) error {
	if videos == nil {
		videos = []youtube.VideoInfo{}
	}
	enc := json.NewEncoder(m.out)
	enc.SetIndent("", "  ")
	return enc.Encode(videos)
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
