// Command poa-log views and analyzes driver traffic logs.
//
// Log files are created by opening a camera with a camlog.FileLogger
// attached, or by passing -log to poa-capture, poa-stream or
// poa-shell.
//
// Usage:
//
//	poa-log <command> [flags] <file.cborlog>
//
// Commands:
//
//	view     Print events in human-readable form
//	export   Export events as JSON lines
//	filter   Filter a log file into a new log file
//	stats    Summarize a log file
//
// Examples:
//
//	# View all events
//	poa-log view session.cborlog
//
//	# View only failed calls
//	poa-log view -failed session.cborlog
//
//	# View one session's config writes
//	poa-log view -session 5f0c... -op SET_CONFIG session.cborlog
//
//	# Keep only frame retrievals, write a smaller log
//	poa-log filter -op GET_IMAGE -o frames.cborlog session.cborlog
//
//	# Per-operation call counts, error counts and latencies
//	poa-log stats session.cborlog
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/openastro/poago/pkg/camlog"
)

const usage = `poa-log - driver traffic log analyzer

Usage:
  poa-log <command> [flags] <file.cborlog>

Commands:
  view     Print events in human-readable form
  export   Export events as JSON lines
  filter   Filter a log file into a new log file
  stats    Summarize a log file

Use "poa-log <command> -help" for more information about a command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "view":
		runView(args)
	case "export":
		runExport(args)
	case "filter":
		runFilter(args)
	case "stats":
		runStats(args)
	case "-h", "-help", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}

// filterFlags registers the shared filter flags on a flag set.
func filterFlags(fs *flag.FlagSet) (session *string, op *string, cameraID *int, failed *bool) {
	session = fs.String("session", "", "Filter by session ID")
	op = fs.String("op", "", "Filter by operation name (e.g. SET_CONFIG)")
	cameraID = fs.Int("camera", -1, "Filter by camera ID")
	failed = fs.Bool("failed", false, "Keep only failed calls")
	return
}

func buildFilter(session, opName string, cameraID int, failed bool) (camlog.Filter, error) {
	filter := camlog.Filter{
		SessionID:  session,
		FailedOnly: failed,
	}
	if opName != "" {
		op, ok := opByName(opName)
		if !ok {
			return filter, fmt.Errorf("unknown operation %q", opName)
		}
		filter.Op = &op
	}
	if cameraID >= 0 {
		id := int32(cameraID)
		filter.CameraID = &id
	}
	return filter, nil
}

func opByName(name string) (camlog.Op, bool) {
	for op := camlog.OpOpen; op <= camlog.OpSetFormat; op++ {
		if op.String() == name {
			return op, true
		}
	}
	return 0, false
}

func openReader(fs *flag.FlagSet, filter camlog.Filter) *camlog.Reader {
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: log file path required")
		fs.Usage()
		os.Exit(1)
	}
	r, err := camlog.NewFilteredReader(fs.Arg(0), filter)
	if err != nil {
		fatal(err)
	}
	return r
}

// forEach streams the reader's events through fn.
func forEach(r *camlog.Reader, fn func(camlog.Event)) {
	defer r.Close()
	for {
		event, err := r.Next()
		if err == io.EOF {
			return
		}
		if err != nil {
			fatal(err)
		}
		fn(event)
	}
}

func runView(args []string) {
	fs := flag.NewFlagSet("view", flag.ExitOnError)
	session, op, cameraID, failed := filterFlags(fs)
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	filter, err := buildFilter(*session, *op, *cameraID, *failed)
	if err != nil {
		fatal(err)
	}

	forEach(openReader(fs, filter), func(e camlog.Event) {
		fmt.Print(formatEvent(e))
	})
}

func formatEvent(e camlog.Event) string {
	line := fmt.Sprintf("%s cam%d %-17s %-19s %8v",
		e.Timestamp.Format("15:04:05.000"), e.CameraID, e.Op, e.Status,
		e.Duration.Round(time.Microsecond))

	switch {
	case e.Config != nil:
		line += fmt.Sprintf("  slot=%s raw=%#x auto=%v", e.Config.Slot, e.Config.Raw, e.Config.Auto)
	case e.Frame != nil:
		line += fmt.Sprintf("  buf=%d timeout=%dms", e.Frame.Size, e.Frame.TimeoutMS)
	case e.Geometry != nil:
		g := e.Geometry
		line += fmt.Sprintf("  x=%d y=%d w=%d h=%d", g.X, g.Y, g.Width, g.Height)
		if g.Bin != 0 {
			line += fmt.Sprintf(" bin=%d", g.Bin)
		}
		if g.Format != 0 {
			line += fmt.Sprintf(" format=%d", g.Format)
		}
	}
	return line + "\n"
}

// jsonEvent is the export projection with readable names instead of
// raw enum values.
type jsonEvent struct {
	Timestamp time.Time             `json:"ts"`
	SessionID string                `json:"session_id"`
	CameraID  int32                 `json:"camera_id"`
	Op        string                `json:"op"`
	Status    string                `json:"status"`
	Duration  float64               `json:"duration_ms"`
	Config    *camlog.ConfigEvent   `json:"config,omitempty"`
	Frame     *camlog.FrameEvent    `json:"frame,omitempty"`
	Geometry  *camlog.GeometryEvent `json:"geometry,omitempty"`
}

func runExport(args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	session, op, cameraID, failed := filterFlags(fs)
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	filter, err := buildFilter(*session, *op, *cameraID, *failed)
	if err != nil {
		fatal(err)
	}

	enc := json.NewEncoder(os.Stdout)
	forEach(openReader(fs, filter), func(e camlog.Event) {
		if err := enc.Encode(jsonEvent{
			Timestamp: e.Timestamp,
			SessionID: e.SessionID,
			CameraID:  e.CameraID,
			Op:        e.Op.String(),
			Status:    e.Status.String(),
			Duration:  float64(e.Duration) / float64(time.Millisecond),
			Config:    e.Config,
			Frame:     e.Frame,
			Geometry:  e.Geometry,
		}); err != nil {
			fatal(err)
		}
	})
}

func runFilter(args []string) {
	fs := flag.NewFlagSet("filter", flag.ExitOnError)
	session, op, cameraID, failed := filterFlags(fs)
	out := fs.String("o", "filtered.cborlog", "Output log file")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	filter, err := buildFilter(*session, *op, *cameraID, *failed)
	if err != nil {
		fatal(err)
	}

	sink, err := camlog.NewFileLogger(*out)
	if err != nil {
		fatal(err)
	}
	defer sink.Close()

	kept := 0
	forEach(openReader(fs, filter), func(e camlog.Event) {
		sink.Log(e)
		kept++
	})
	fmt.Printf("Wrote %d events to %s\n", kept, *out)
}

// opStats accumulates per-operation statistics.
type opStats struct {
	count  int
	failed int
	total  time.Duration
	max    time.Duration
}

func runStats(args []string) {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	perOp := make(map[camlog.Op]*opStats)
	sessions := make(map[string]struct{})
	var first, last time.Time
	total := 0

	forEach(openReader(fs, camlog.Filter{}), func(e camlog.Event) {
		total++
		sessions[e.SessionID] = struct{}{}
		if first.IsZero() || e.Timestamp.Before(first) {
			first = e.Timestamp
		}
		if e.Timestamp.After(last) {
			last = e.Timestamp
		}

		s := perOp[e.Op]
		if s == nil {
			s = &opStats{}
			perOp[e.Op] = s
		}
		s.count++
		s.total += e.Duration
		if e.Duration > s.max {
			s.max = e.Duration
		}
		if !e.Status.IsOK() {
			s.failed++
		}
	})

	if total == 0 {
		fmt.Println("No events")
		return
	}

	fmt.Printf("Events:   %d\n", total)
	fmt.Printf("Sessions: %d\n", len(sessions))
	fmt.Printf("Span:     %v (%s .. %s)\n",
		last.Sub(first).Round(time.Millisecond),
		first.Format(time.RFC3339), last.Format(time.RFC3339))
	fmt.Println()

	ops := make([]camlog.Op, 0, len(perOp))
	for op := range perOp {
		ops = append(ops, op)
	}
	sort.Slice(ops, func(i, j int) bool { return perOp[ops[i]].count > perOp[ops[j]].count })

	fmt.Printf("%-19s %8s %7s %12s %12s\n", "OP", "CALLS", "FAILED", "AVG", "MAX")
	for _, op := range ops {
		s := perOp[op]
		avg := s.total / time.Duration(s.count)
		fmt.Printf("%-19s %8d %7d %12v %12v\n",
			op, s.count, s.failed,
			avg.Round(time.Microsecond), s.max.Round(time.Microsecond))
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "Error:", err)
	os.Exit(1)
}
