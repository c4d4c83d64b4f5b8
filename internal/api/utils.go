package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"multiroom-chat/internal/api/middleware"
	"multiroom-chat/internal/queue"
)

type apiFunc func(http.ResponseWriter, *http.Request) error

func WriteJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// MakeHTTPHandleFunc runs f on the request worker pool and renders any
// returned error as JSON.
func (s *APIServer) MakeHTTPHandleFunc(f apiFunc) http.HandlerFunc {
	baseHandler := func(w http.ResponseWriter, r *http.Request) {
		errc := make(chan error, 1)

		s.requestQueueManager.EnqueueJob(queue.Job{
			Fn: func() error {
				return f(w, r)
			},
			Errc: errc,
		})

		s.writeError(w, r, <-errc)
	}

	return middleware.Chain(baseHandler, s.middlewares()...)
}

// MakeStreamHandleFunc wraps long-lived handlers such as the websocket
// upgrade. They run on the connection goroutine and never occupy a worker.
func (s *APIServer) MakeStreamHandleFunc(f http.HandlerFunc) http.HandlerFunc {
	return middleware.Chain(f, s.middlewares()...)
}

func (s *APIServer) middlewares() []middleware.Middleware {
	return []middleware.Middleware{
		middleware.CORS(s.cors),
		middleware.Logging(s.log),
	}
}

func (s *APIServer) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		if httpErr.ErrorLog != nil {
			s.log.Warn("request failed", "uri", r.URL.RequestURI(), "status", httpErr.StatusCode, "err", httpErr.ErrorLog)
		}
		WriteJSON(w, httpErr.StatusCode, ApiError{Error: httpErr.Message})
		return
	}

	s.log.Error("request failed", "uri", r.URL.RequestURI(), "err", err)
	WriteJSON(w, http.StatusInternalServerError, ApiError{Error: "Internal server error"})
}
