// Mockhub is a stand-in AntiHub deployment for trying `antihook health` and
// the shell bridge by hand.
//
// Usage:
//
//	go run ./scripts/mockhub -port 8045
//	go run ./scripts/mockhub -port 8045 -prefix /backend
//	go run ./scripts/mockhub -port 8045 -status 503 -delay 2s
//
// With -prefix /backend only /backend/api/health answers, like a deployment
// behind the AntiHub Web proxy; /api/health then returns 404. Every response
// carries the instance id so repeated probes can be told apart.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// HealthResponse mirrors the body AntiHub returns from /api/health.
type HealthResponse struct {
	Status     string `json:"status"`
	InstanceID string `json:"instance_id"`
	Time       string `json:"time"`
}

func main() {
	port := flag.Int("port", 8045, "port to listen on")
	prefix := flag.String("prefix", "", "path prefix the API is served under (e.g. /backend)")
	status := flag.Int("status", http.StatusOK, "status code returned by the health endpoint")
	text := flag.Bool("text", false, "answer with a plain-text body instead of JSON")
	delay := flag.Duration("delay", 0, "delay before answering")
	flag.Parse()

	instanceID := uuid.NewString()

	mux := http.NewServeMux()
	mux.HandleFunc("GET "+*prefix+"/api/health", func(w http.ResponseWriter, r *http.Request) {
		log.Printf("request: path=%s from=%s request_id=%s", r.URL.Path, r.RemoteAddr, r.Header.Get("X-Request-ID"))
		time.Sleep(*delay)

		if *text {
			w.WriteHeader(*status)
			w.Write([]byte("ok"))
			return
		}

		state := "ok"
		if *status < 200 || *status > 299 {
			state = "unhealthy"
		}
		b, _ := json.Marshal(HealthResponse{
			Status:     state,
			InstanceID: instanceID,
			Time:       time.Now().UTC().Format(time.RFC3339),
		})
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(*status)
		w.Write(b)
	})

	addr := fmt.Sprintf(":%d", *port)
	log.Printf("starting mock AntiHub %s on %s (health at %s/api/health)", instanceID, addr, *prefix)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
