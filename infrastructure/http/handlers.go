package http

import (
	"log/slog"
	"net/http"
	"synaptik/auth"
	"synaptik/domain"
	"synaptik/services"

	"github.com/gorilla/mux"
)

// Handlers adapts the services to JSON over HTTP.
type Handlers struct {
	log           *slog.Logger
	auth          services.IAuthService
	users         services.IUserService
	rooms         services.IRoomService
	dms           services.IDMService
	conversations services.IConversationService
	uploads       services.IUploadService
	maxUploadSize int64
	health        HealthSources
}

func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var request auth.RegisterRequest
	if err := decodeJSON(w, r, &request); err != nil {
		writeError(h.log, w, err)
		return
	}
	result, err := h.auth.Register(r.Context(), request)
	if err != nil {
		writeError(h.log, w, err)
		return
	}
	writeJSON(h.log, w, http.StatusOK, result)
}

func (h *Handlers) Verify(w http.ResponseWriter, r *http.Request) {
	var request auth.VerifyRequest
	if err := decodeJSON(w, r, &request); err != nil {
		writeError(h.log, w, err)
		return
	}
	result, err := h.auth.Verify(r.Context(), request)
	if err != nil {
		writeError(h.log, w, err)
		return
	}
	writeJSON(h.log, w, http.StatusOK, result)
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var request auth.LoginRequest
	if err := decodeJSON(w, r, &request); err != nil {
		writeError(h.log, w, err)
		return
	}
	result, err := h.auth.Login(r.Context(), request)
	if err != nil {
		writeError(h.log, w, err)
		return
	}
	writeJSON(h.log, w, http.StatusOK, result)
}

func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.auth.Me(r.Context(), currentUser(r))
	if err != nil {
		writeError(h.log, w, err)
		return
	}
	writeJSON(h.log, w, http.StatusOK, map[string]any{"user": user})
}

func (h *Handlers) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var request services.UpdateProfileRequest
	if err := decodeJSON(w, r, &request); err != nil {
		writeError(h.log, w, err)
		return
	}
	user, err := h.users.UpdateProfile(r.Context(), currentUser(r), request)
	if err != nil {
		writeError(h.log, w, err)
		return
	}
	writeJSON(h.log, w, http.StatusOK, map[string]any{"user": user})
}

func (h *Handlers) SearchUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.Search(r.Context(), currentUser(r), r.URL.Query().Get("q"))
	if err != nil {
		writeError(h.log, w, err)
		return
	}
	writeJSON(h.log, w, http.StatusOK, users)
}

func (h *Handlers) ListRooms(w http.ResponseWriter, r *http.Request) {
	list, err := h.rooms.List(r.Context(), currentUser(r))
	if err != nil {
		writeError(h.log, w, err)
		return
	}
	writeJSON(h.log, w, http.StatusOK, list)
}

func (h *Handlers) CreateRoom(w http.ResponseWriter, r *http.Request) {
	var request services.CreateRoomRequest
	if err := decodeJSON(w, r, &request); err != nil {
		writeError(h.log, w, err)
		return
	}
	room, err := h.rooms.Create(r.Context(), currentUser(r), request)
	if err != nil {
		writeError(h.log, w, err)
		return
	}
	writeJSON(h.log, w, http.StatusOK, room)
}

func (h *Handlers) GetRoom(w http.ResponseWriter, r *http.Request) {
	room, err := h.rooms.Get(r.Context(), currentUser(r), mux.Vars(r)["id"])
	if err != nil {
		writeError(h.log, w, err)
		return
	}
	writeJSON(h.log, w, http.StatusOK, room)
}

func (h *Handlers) JoinRoom(w http.ResponseWriter, r *http.Request) {
	room, err := h.rooms.Join(r.Context(), currentUser(r), mux.Vars(r)["id"])
	if err != nil {
		writeError(h.log, w, err)
		return
	}
	writeJSON(h.log, w, http.StatusOK, map[string]any{"message": "Joined room", "room": room})
}

func (h *Handlers) LeaveRoom(w http.ResponseWriter, r *http.Request) {
	if _, err := h.rooms.Leave(r.Context(), currentUser(r), mux.Vars(r)["id"]); err != nil {
		writeError(h.log, w, err)
		return
	}
	writeJSON(h.log, w, http.StatusOK, map[string]any{"message": "Left room"})
}

func (h *Handlers) ListDMs(w http.ResponseWriter, r *http.Request) {
	dms, err := h.dms.List(r.Context(), currentUser(r))
	if err != nil {
		writeError(h.log, w, err)
		return
	}
	writeJSON(h.log, w, http.StatusOK, dms)
}

func (h *Handlers) StartDM(w http.ResponseWriter, r *http.Request) {
	dm, err := h.dms.Start(r.Context(), currentUser(r), mux.Vars(r)["userId"])
	if err != nil {
		writeError(h.log, w, err)
		return
	}
	writeJSON(h.log, w, http.StatusOK, dm)
}

// History serves both rooms and DMs, parent picks which.
func (h *Handlers) History(parent func(id string) domain.Parent) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		before, limit, err := pageParams(r)
		if err != nil {
			writeError(h.log, w, err)
			return
		}
		page, err := h.conversations.History(r.Context(), currentUser(r), parent(mux.Vars(r)["id"]), before, limit)
		if err != nil {
			writeError(h.log, w, err)
			return
		}
		writeJSON(h.log, w, http.StatusOK, page)
	}
}

func (h *Handlers) SearchMessages(parent func(id string) domain.Parent) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, limit, err := pageParams(r)
		if err != nil {
			writeError(h.log, w, err)
			return
		}
		found, err := h.conversations.Search(r.Context(), currentUser(r), parent(mux.Vars(r)["id"]), r.URL.Query().Get("q"), limit)
		if err != nil {
			writeError(h.log, w, err)
			return
		}
		writeJSON(h.log, w, http.StatusOK, found)
	}
}

func (h *Handlers) ClearMessages(parent func(id string) domain.Parent) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.conversations.Clear(r.Context(), currentUser(r), parent(mux.Vars(r)["id"])); err != nil {
			writeError(h.log, w, err)
			return
		}
		writeJSON(h.log, w, http.StatusOK, map[string]any{"success": true, "message": "Chat cleared"})
	}
}

func roomParent(id string) domain.Parent {
	return domain.RoomParent(domain.RoomID(id))
}

func dmParent(id string) domain.Parent {
	return domain.DMParent(domain.DMID(id))
}

func (h *Handlers) Profile(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.Profile(r.Context(), currentUser(r))
	if err != nil {
		writeError(h.log, w, err)
		return
	}
	writeJSON(h.log, w, http.StatusOK, map[string]any{"user": user})
}
