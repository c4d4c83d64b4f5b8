package router

import (
	"net/http"

	"multiroom-chat/internal/api"

	"github.com/gorilla/mux"
)

func WebsocketRoutes(path string) api.RouteRegistrar {
	return func(r *mux.Router, s *api.APIServer) {
		r.HandleFunc(path, s.MakeStreamHandleFunc(s.Handler().ServeWS)).Methods(http.MethodGet)
	}
}
