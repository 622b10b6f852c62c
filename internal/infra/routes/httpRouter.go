package routes

import (
	"encoding/json"
	"net/http"

	"assistant-connector/internal/infra/handlers"

	"github.com/gorilla/mux"
)

type Routes struct {
	Mux        *mux.Router
	OpsHandler *handlers.OpsHandlers
}

func NewRoutes(mux *mux.Router, opsHandler *handlers.OpsHandlers) *Routes {
	return &Routes{mux, opsHandler}
}

func (r *Routes) Init() {
	r.Mux.HandleFunc("/status", r.OpsHandler.Status).Methods(http.MethodGet)

	r.Mux.HandleFunc("/healthCheck", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		response := map[string]string{"status": "healthy"}
		json.NewEncoder(w).Encode(response)
	}).Methods(http.MethodGet)
}
