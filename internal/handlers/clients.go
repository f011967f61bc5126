package handlers

import (
	"net/http"

	"github.com/diewo77/go-demenagement/httpx"
	"github.com/diewo77/go-demenagement/internal/models"
	"github.com/diewo77/go-demenagement/internal/services"
	"github.com/diewo77/go-demenagement/internal/store"
)

type ClientHandler struct {
	svc *services.ClientService
}

func NewClientHandler(svc *services.ClientService) *ClientHandler {
	return &ClientHandler{svc: svc}
}

func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	writeList(w, h.svc.List(r.Context(), store.ClientFilter{Search: r.URL.Query().Get("q")}))
}

func (h *ClientHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	c, err := h.svc.Get(r.Context(), id)
	if err != nil {
		httpx.Error(w, err, "get_client")
		return
	}
	httpx.JSON(w, http.StatusOK, c)
}

func (h *ClientHandler) Create(w http.ResponseWriter, r *http.Request) {
	var c models.Client
	if !decode(w, r, &c) {
		return
	}
	if err := h.svc.Create(r.Context(), &c); err != nil {
		httpx.Error(w, err, "create_client")
		return
	}
	httpx.JSON(w, http.StatusCreated, c)
}

func (h *ClientHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var c models.Client
	if !decode(w, r, &c) {
		return
	}
	if err := h.svc.Update(r.Context(), id, &c); err != nil {
		httpx.Error(w, err, "update_client")
		return
	}
	httpx.JSON(w, http.StatusOK, c)
}

// Delete answers 409 while invoices or services still reference the client.
func (h *ClientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		httpx.Error(w, err, "delete_client")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
