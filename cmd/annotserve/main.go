// Command annotserve is a development annotation service: it serves
// feature annotations from a TSV file over the HTTP API the viewer's
// annotation client speaks.
//
// The TSV has one feature per line:
//
//	<feature id>\t<annotation;annotation;...>[\t<permalink>]
package main

import (
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type entry struct {
	Annotations []string `json:"annotations"`
	Permalink   string   `json:"permalink"`
}

type server struct {
	entries map[string]entry
}

func main() {
	dataPath := flag.String("data", "", "Path to annotations TSV")
	addr := flag.String("addr", ":7322", "Listen address")
	flag.Parse()

	if *dataPath == "" {
		fmt.Println("Usage: annotserve -data <annotations.tsv> [-addr :7322]")
		os.Exit(1)
	}

	entries, err := loadEntries(*dataPath)
	if err != nil {
		log.Fatalf("Load %s: %v", *dataPath, err)
	}
	log.Printf("Loaded %d annotated features from %s", len(entries), *dataPath)

	srv := &server{entries: entries}

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
	}))

	r.Get("/health", srv.handleHealth)
	r.Get("/annotations", srv.handleAnnotations)

	log.Printf("Listening on %s", *addr)
	if err := http.ListenAndServe(*addr, r); err != nil {
		log.Fatal(err)
	}
}

func loadEntries(path string) (map[string]entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = '\t'
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	entries := make(map[string]entry)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	for _, rec := range records {
		if len(rec) < 2 || strings.HasPrefix(rec[0], "#") {
			continue
		}
		e := entry{}
		for _, a := range strings.Split(rec[1], ";") {
			if a = strings.TrimSpace(a); a != "" {
				e.Annotations = append(e.Annotations, a)
			}
		}
		if len(rec) > 2 {
			e.Permalink = rec[2]
		}
		entries[rec[0]] = e
	}
	return entries, nil
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *server) handleAnnotations(w http.ResponseWriter, r *http.Request) {
	feature := r.URL.Query().Get("feature")
	if feature == "" {
		http.Error(w, "missing feature parameter", http.StatusBadRequest)
		return
	}
	e, ok := s.entries[feature]
	if !ok {
		http.Error(w, "feature not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"feature":     feature,
		"annotations": e.Annotations,
		"permalink":   e.Permalink,
	})
}
