// Package monitoring exposes the daemon's management API: an HTTP server
// that reports realm status, shard clocks, and process resources, and can
// request a shutdown.
package monitoring

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"runtime/pprof"
	"strconv"
	"time"

	// Enable profiling
	_ "net/http/pprof"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/pkg/browser"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"
	"go.uber.org/zap"

	"github.com/ebonhold/worldcore/store"
	"github.com/ebonhold/worldcore/world"
)

// Monitor serves the management API for one running world.
type Monitor struct {
	world    *world.World
	store    *store.Store
	shutdown func()
	log      *zap.Logger

	portNumber  int
	openBrowser bool
	listener    net.Listener
}

// NewMonitor creates a Monitor for a world and its store. shutdown is
// invoked when the API receives a shutdown request.
func NewMonitor(
	w *world.World,
	s *store.Store,
	shutdown func(),
	log *zap.Logger,
) *Monitor {
	return &Monitor{
		world:    w,
		store:    s,
		shutdown: shutdown,
		log:      log,
	}
}

// WithPortNumber sets the port number of the monitor. Ports below 1000 are
// rejected and replaced with a random port.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is assigned to the monitoring server, "+
				"which is not allowed. Using a random port instead.\n",
			portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// WithBrowserOnStart makes StartServer open the status page in the local
// browser.
func (m *Monitor) WithBrowserOnStart() *Monitor {
	m.openBrowser = true
	return m
}

// Addr returns the listen address once the server has started.
func (m *Monitor) Addr() net.Addr {
	if m.listener == nil {
		return nil
	}
	return m.listener.Addr()
}

// StartServer starts the management API in a background goroutine.
func (m *Monitor) StartServer() error {
	r := m.routes()

	actualPort := ":0"
	if m.portNumber > 1000 {
		actualPort = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	if err != nil {
		return err
	}
	m.listener = listener

	url := fmt.Sprintf("http://localhost:%d/api/status",
		listener.Addr().(*net.TCPAddr).Port)
	m.log.Info("management API listening", zap.String("url", url))

	if m.openBrowser {
		if err := browser.OpenURL(url); err != nil {
			m.log.Warn("cannot open browser", zap.Error(err))
		}
	}

	go func() {
		err := http.Serve(listener, r)
		if err != nil && !isClosedErr(err) {
			m.log.Error("management API server failed", zap.Error(err))
		}
	}()

	return nil
}

// Close stops accepting management API connections.
func (m *Monitor) Close() error {
	if m.listener == nil {
		return nil
	}
	return m.listener.Close()
}

func isClosedErr(err error) bool {
	opErr, ok := err.(*net.OpError)
	return ok && opErr.Err.Error() == "use of closed network connection"
}

func (m *Monitor) routes() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/api/status", m.status)
	r.HandleFunc("/api/shards", m.listShards)
	r.HandleFunc("/api/shard/{name}", m.shardDetails)
	r.HandleFunc("/api/characters", m.characterCount)
	r.HandleFunc("/api/resource", m.listResources)
	r.HandleFunc("/api/profile", m.collectProfile)
	r.HandleFunc("/api/shutdown", m.requestShutdown)

	return r
}

type shardStatus struct {
	Name    string `json:"name"`
	Clock   uint64 `json:"clock"`
	Pending int    `json:"pending"`
}

type statusRsp struct {
	RealmID       int           `json:"realm_id"`
	RunID         string        `json:"run_id"`
	UptimeSeconds float64       `json:"uptime_seconds"`
	Sessions      int           `json:"sessions"`
	Shards        []shardStatus `json:"shards"`
}

func (m *Monitor) shardStatuses() []shardStatus {
	shards := make([]shardStatus, 0, len(m.world.Shards()))
	for _, s := range m.world.Shards() {
		shards = append(shards, shardStatus{
			Name:    s.Name(),
			Clock:   uint64(s.Clock()),
			Pending: s.PendingUnits(),
		})
	}
	return shards
}

func (m *Monitor) status(w http.ResponseWriter, _ *http.Request) {
	rsp := statusRsp{
		RealmID:       m.world.RealmID(),
		RunID:         m.world.RunID(),
		UptimeSeconds: m.world.Uptime().Seconds(),
		Sessions:      m.world.SessionCount(),
		Shards:        m.shardStatuses(),
	}

	bytes, err := json.Marshal(rsp)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func (m *Monitor) listShards(w http.ResponseWriter, _ *http.Request) {
	fmt.Fprint(w, "[")
	for i, s := range m.world.Shards() {
		if i > 0 {
			fmt.Fprint(w, ",")
		}

		fmt.Fprintf(w, "%q", s.Name())
	}
	fmt.Fprint(w, "]")
}

func (m *Monitor) shardDetails(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	shard := m.findShardOr404(w, name)
	if shard == nil {
		return
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(shard)
	serializer.SetMaxDepth(1)
	err := serializer.Serialize(w)

	dieOnErr(err)
}

func (m *Monitor) findShardOr404(
	w http.ResponseWriter,
	name string,
) *world.Shard {
	for _, s := range m.world.Shards() {
		if s.Name() == name {
			return s
		}
	}

	w.WriteHeader(http.StatusNotFound)
	_, err := w.Write([]byte("Shard not found"))
	dieOnErr(err)

	return nil
}

func (m *Monitor) characterCount(w http.ResponseWriter, _ *http.Request) {
	n, err := m.store.CharacterCount()
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprintf(w, "Error: %s", err)
		return
	}

	fmt.Fprintf(w, "{\"characters\":%d}", n)
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	pid := os.Getpid()
	process, err := process.NewProcess(int32(pid))
	dieOnErr(err)

	cpuPercent, err := process.CPUPercent()
	dieOnErr(err)

	memorySize, err := process.MemoryInfo()
	dieOnErr(err)

	rsp := resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memorySize.RSS,
	}

	bytes, err := json.Marshal(rsp)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func (m *Monitor) collectProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	err := pprof.StartCPUProfile(buf)
	dieOnErr(err)

	time.Sleep(time.Second)

	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	dieOnErr(err)

	bytes, err := json.Marshal(prof)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func (m *Monitor) requestShutdown(w http.ResponseWriter, _ *http.Request) {
	m.log.Info("shutdown requested over management API")

	go m.shutdown()

	w.WriteHeader(http.StatusAccepted)
}

func dieOnErr(err error) {
	if err != nil {
		panic(err)
	}
}
