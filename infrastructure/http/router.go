package http

import (
	"log/slog"
	"net/http"
	"os"
	"synaptik/auth"
	"synaptik/services"

	"github.com/gorilla/mux"
)

type Dependencies struct {
	Auth           services.IAuthService
	Users          services.IUserService
	Rooms          services.IRoomService
	DMs            services.IDMService
	Conversations  services.IConversationService
	Uploads        services.IUploadService
	Tokens         *auth.TokenManager
	WebSocket      http.Handler
	Health         HealthSources
	UploadDir      string
	MaxUploadSize  int64
	AllowedOrigins []string
}

// NewRouter mounts the REST API under /api, the uploaded files under /uploads/ and the WebSocket at /ws.
func NewRouter(log *slog.Logger, deps Dependencies) http.Handler {
	h := &Handlers{
		log:           log,
		auth:          deps.Auth,
		users:         deps.Users,
		rooms:         deps.Rooms,
		dms:           deps.DMs,
		conversations: deps.Conversations,
		uploads:       deps.Uploads,
		maxUploadSize: deps.MaxUploadSize,
		health:        deps.Health,
	}
	onAuthError := func(w http.ResponseWriter, err error) { writeError(log, w, err) }

	router := mux.NewRouter()
	api := router.PathPrefix("/api").Subrouter()
	api.Use(RequestLogger(log), CORS(deps.AllowedOrigins))
	api.Methods(http.MethodOptions).HandlerFunc(func(http.ResponseWriter, *http.Request) {})

	api.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	api.HandleFunc("/auth/register", h.Register).Methods(http.MethodPost)
	api.HandleFunc("/auth/verify", h.Verify).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", h.Login).Methods(http.MethodPost)

	protected := api.NewRoute().Subrouter()
	protected.Use(auth.Middleware(deps.Tokens, onAuthError))

	protected.HandleFunc("/auth/me", h.Me).Methods(http.MethodGet)

	protected.HandleFunc("/users/me", h.Profile).Methods(http.MethodGet)
	protected.HandleFunc("/users/me", h.UpdateProfile).Methods(http.MethodPatch)
	protected.HandleFunc("/users/search", h.SearchUsers).Methods(http.MethodGet)

	protected.HandleFunc("/rooms", h.ListRooms).Methods(http.MethodGet)
	protected.HandleFunc("/rooms", h.CreateRoom).Methods(http.MethodPost)
	protected.HandleFunc("/rooms/{id}", h.GetRoom).Methods(http.MethodGet)
	protected.HandleFunc("/rooms/{id}/join", h.JoinRoom).Methods(http.MethodPost)
	protected.HandleFunc("/rooms/{id}/leave", h.LeaveRoom).Methods(http.MethodPost)
	protected.HandleFunc("/rooms/{id}/messages", h.History(roomParent)).Methods(http.MethodGet)
	protected.HandleFunc("/rooms/{id}/messages", h.ClearMessages(roomParent)).Methods(http.MethodDelete)
	protected.HandleFunc("/rooms/{id}/messages/search", h.SearchMessages(roomParent)).Methods(http.MethodGet)

	protected.HandleFunc("/dms", h.ListDMs).Methods(http.MethodGet)
	protected.HandleFunc("/dms/start/{userId}", h.StartDM).Methods(http.MethodPost)
	protected.HandleFunc("/dms/{id}/messages", h.History(dmParent)).Methods(http.MethodGet)
	protected.HandleFunc("/dms/{id}/messages", h.ClearMessages(dmParent)).Methods(http.MethodDelete)
	protected.HandleFunc("/dms/{id}/messages/search", h.SearchMessages(dmParent)).Methods(http.MethodGet)

	protected.HandleFunc("/upload", h.Upload).Methods(http.MethodPost)

	if deps.WebSocket != nil {
		router.Handle("/ws", deps.WebSocket)
	}
	if deps.UploadDir != "" {
		files := http.FileServer(noListing{http.Dir(deps.UploadDir)})
		router.PathPrefix(services.UploadPrefix).Handler(http.StripPrefix(services.UploadPrefix, files)).Methods(http.MethodGet, http.MethodHead)
	}
	return router
}

// noListing hides directory indexes from the file server.
type noListing struct {
	fs http.FileSystem
}

func (n noListing) Open(name string) (http.File, error) {
	f, err := n.fs.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	if info.IsDir() {
		_ = f.Close()
		return nil, os.ErrNotExist
	}
	return f, nil
}
