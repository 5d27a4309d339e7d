// Command portal is a stand-in for the chapter portal API, serving the fixed
// mock news and events for running the service with remote.mode=http.
package main

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"portal-sync-service/internal/domain"
	"portal-sync-service/internal/infra/provider/mock"
	"portal-sync-service/internal/infra/provider/portal"
)

func main() {
	mux := http.NewServeMux()

	mux.HandleFunc("GET "+portal.NewsEndpoint, func(w http.ResponseWriter, r *http.Request) {
		writeList(w, r, mock.News())
	})

	mux.HandleFunc("GET "+portal.NewsSearchEndpoint, func(w http.ResponseWriter, r *http.Request) {
		writeList(w, r, domain.FilterNews(mock.News(), r.URL.Query().Get("q")))
	})

	mux.HandleFunc("GET "+portal.EventsEndpoint, func(w http.ResponseWriter, r *http.Request) {
		writeList(w, r, mock.Events())
	})

	mux.HandleFunc("GET "+portal.HealthEndpoint, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if _, err := w.Write([]byte(`{"status":"healthy"}`)); err != nil {
			log.Printf("[Portal] Health write error: %v", err)
		}
	})

	log.Println("Mock portal API running on :8081")
	server := &http.Server{
		Addr:         ":8081",
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	log.Fatal(server.ListenAndServe())
}

func writeList[T any](w http.ResponseWriter, r *http.Request, items []T) {
	// Simulate network latency (50-200ms)
	time.Sleep(time.Duration(50+time.Now().UnixNano()%150) * time.Millisecond)

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Provider", "mock-portal")
	if err := json.NewEncoder(w).Encode(portal.ListResponse[T]{Items: items, Count: len(items)}); err != nil {
		log.Printf("[Portal] Write error: %v", err)

		return
	}

	log.Printf("[Portal] %s %s - 200 OK (%d items)", r.Method, r.URL.RequestURI(), len(items))
}
