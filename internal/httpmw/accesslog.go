package httpmw

import (
	"bufio"
	"encoding/json"
	"errors"
	"log"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
)

// entry is one JSON log line.
type entry struct {
	TS        string `json:"ts"`
	Level     string `json:"level"`
	Msg       string `json:"msg"`
	RequestID string `json:"request_id,omitempty"`
	Method    string `json:"method"`
	Path      string `json:"path"`
	Route     string `json:"route,omitempty"`
	PlayerID  string `json:"player_id,omitempty"`
	RemoteIP  string `json:"remote_ip,omitempty"`

	Status     int   `json:"status,omitempty"`
	Bytes      int   `json:"bytes,omitempty"`
	DurationMS int64 `json:"duration_ms"`

	Panic string `json:"panic,omitempty"`
	Stack string `json:"stack,omitempty"`
}

func newEntry(r *http.Request, level, msg string) *entry {
	return &entry{
		TS:        time.Now().UTC().Format(time.RFC3339Nano),
		Level:     level,
		Msg:       msg,
		RequestID: RequestIDFromContext(r.Context()),
		Method:    r.Method,
		Path:      r.URL.Path,
		PlayerID:  strings.TrimSpace(r.Header.Get("X-Player-Id")),
		RemoteIP:  clientIP(r),
	}
}

func (e *entry) write(logger *log.Logger) {
	if logger == nil {
		return
	}
	b, err := json.Marshal(e)
	if err != nil {
		logger.Printf(`{"level":"error","msg":"log_marshal_failed","error":%q}`, err.Error())
		return
	}
	logger.Print(string(b))
}

// WithAccessLog writes one JSON line per request. Registered with
// mux.Router.Use it also logs the matched route template.
func WithAccessLog(logger *log.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = log.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &recorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			level := "info"
			switch {
			case rec.status >= http.StatusInternalServerError:
				level = "error"
			case rec.status >= http.StatusBadRequest:
				level = "warn"
			}
			e := newEntry(r, level, "http_request")
			e.Route = routeTemplate(r)
			e.Status = rec.status
			e.Bytes = rec.bytes
			e.DurationMS = time.Since(start).Milliseconds()
			e.write(logger)
		})
	}
}

// recorder captures the status and size of a response.
type recorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *recorder) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *recorder) Write(p []byte) (int, error) {
	n, err := w.ResponseWriter.Write(p)
	w.bytes += n
	return n, err
}

// Hijack lets websocket upgrades pass through the access log.
func (w *recorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("hijack not supported")
	}
	w.status = http.StatusSwitchingProtocols
	return hj.Hijack()
}

func routeTemplate(r *http.Request) string {
	route := mux.CurrentRoute(r)
	if route == nil {
		return ""
	}
	tpl, err := route.GetPathTemplate()
	if err != nil {
		return ""
	}
	return tpl
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-Ip")); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err != nil || host == "" {
		return r.RemoteAddr
	}
	return host
}
