package router

import (
	"multiroom-chat/internal/api"
	"multiroom-chat/internal/api/endpoints"

	"github.com/gorilla/mux"
)

func UtilsRoutes(prefix string) api.RouteRegistrar {
	return func(r *mux.Router, s *api.APIServer) {
		utilsEndpoints := endpoints.NewUtilsEndpoints()
		r.HandleFunc(prefix+"/health", s.MakeHTTPHandleFunc(utilsEndpoints.Health))
	}
}
