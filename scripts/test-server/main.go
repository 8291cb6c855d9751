// Local test page for manual hintprobe runs.
//
//	go run ./scripts/test-server -addr :8080 -delay 150ms
//	hintprobe http://localhost:8080/
package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"
)

const page = `<!DOCTYPE html>
<html>
<head>
  <title>hintprobe test page</title>
  <link rel="preconnect" href="http://127.0.0.1%[1]s">
  <link rel="dns-prefetch" href="http://127.0.0.1%[1]s">
  <link rel="preload" href="/static/app.js" as="script">
  <link rel="prefetch" href="/static/next.html">
</head>
<body>
  <h1>hintprobe</h1>
  <script src="/static/app.js"></script>
</body>
</html>
`

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	delay := flag.Duration("delay", 100*time.Millisecond, "delay before static responses")
	flag.Parse()

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprintf(w, page, *addr)
	})
	mux.HandleFunc("/static/", func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(*delay)
		w.Header().Set("Cache-Control", "no-store")
		switch r.URL.Path {
		case "/static/app.js":
			w.Header().Set("Content-Type", "application/javascript")
			fmt.Fprint(w, "document.body.dataset.loaded = 'yes';")
		case "/static/next.html":
			w.Header().Set("Content-Type", "text/html")
			fmt.Fprint(w, "<p>next</p>")
		default:
			http.NotFound(w, r)
		}
	})

	server := &http.Server{
		Addr:              *addr,
		Handler:           mux,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      5 * time.Second + *delay,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
	}

	log.Printf("Serving hinted test page on %s (static delay %s)", *addr, *delay)
	if err := server.ListenAndServe(); err != nil {
		log.Fatal(err)
	}
}
