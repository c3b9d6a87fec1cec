package frontend

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/shopmirror/shopstore/models"
)

func (s *Service) handleOrders(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var o models.Order
	if err := json.NewDecoder(r.Body).Decode(&o); err != nil {
		writeError(w, http.StatusBadRequest, "invalid order payload")
		return
	}
	writeJSON(w, http.StatusCreated, s.store.CreateOrder(o))
}

func (s *Service) handleOrdersByUser(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	userID, err := strconv.Atoi(strings.TrimPrefix(r.URL.Path, "/orders/"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	views := s.store.OrdersByUser(userID)
	if views == nil {
		views = []models.OrderView{}
	}
	writeJSON(w, http.StatusOK, views)
}
