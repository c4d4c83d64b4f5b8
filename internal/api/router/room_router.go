package router

import (
	"strings"

	"multiroom-chat/internal/api"
	"multiroom-chat/internal/api/endpoints"

	"github.com/gorilla/mux"
)

func RoomRoutes(prefix string) api.RouteRegistrar {
	return func(r *mux.Router, s *api.APIServer) {
		base := strings.TrimRight(prefix, "/") + "/rooms"
		roomEndpoints := endpoints.NewRoomEndpoints(s.Chat().Registry(), s.Audit())

		r.HandleFunc(base, s.MakeHTTPHandleFunc(roomEndpoints.Rooms))
		r.HandleFunc(base+"/{"+endpoints.RoomNameVar+"}", s.MakeHTTPHandleFunc(roomEndpoints.Room))

		if s.Audit().Enabled() {
			r.HandleFunc(base+"/{"+endpoints.RoomNameVar+"}/events", s.MakeHTTPHandleFunc(roomEndpoints.RoomEvents))
		} else {
			s.Logger().Info("audit store disabled, room events route not registered")
		}
	}
}
