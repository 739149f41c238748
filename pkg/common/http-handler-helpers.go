package common

import (
	"log"
	"net/http"

	"github.com/cardbinder/cardbinder/pkg/common/jsoncompat"
)

// JsonHandler wraps a handler that produces a JSON response, taking care
// of CORS preflight and error logging.
func JsonHandler(fn func(w http.ResponseWriter, r *http.Request) (any, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			RespondToOptions(w, r)
			return
		}
		payload, err := fn(w, r)
		if err != nil {
			log.Printf("Error handling request %s: %v", r.URL.Path, err)
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if payload == nil {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		WriteJson(w, http.StatusOK, payload)
	}
}

// WriteJson marshals payload through the jsoncompat shim and writes it
// with the given status code.
func WriteJson(w http.ResponseWriter, status int, payload any) {
	data, err := jsoncompat.Marshal(payload)
	if err != nil {
		log.Printf("Error marshaling response: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		log.Printf("Error writing response: %v", err)
	}
}

func RespondToOptions(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "public, max-age=3600")
	origin := r.Header.Get("Origin")
	if origin != "" {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Max-Age", "86400")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "*")
		w.Header().Set("Access-Control-Allow-Credentials", "true")
	}
	w.Header().Set("Age", "0")
	w.WriteHeader(http.StatusAccepted)
}
