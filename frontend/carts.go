package frontend

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
)

// handleCart dispatches /cart/{userId} and /cart/{userId}/item/{productId}.
func (s *Service) handleCart(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(strings.TrimPrefix(r.URL.Path, "/cart/"), "/"), "/")

	userID, err := strconv.Atoi(parts[0])
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	switch {
	case len(parts) == 1:
		switch r.Method {
		case http.MethodPost:
			s.addCartItem(w, r, userID)
		case http.MethodGet:
			s.getCart(w, userID)
		default:
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
	case len(parts) == 3 && parts[1] == "item":
		if r.Method != http.MethodDelete {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		productID, err := strconv.Atoi(parts[2])
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid product id")
			return
		}
		s.removeCartItem(w, userID, productID)
	default:
		writeError(w, http.StatusNotFound, "not found")
	}
}

func (s *Service) addCartItem(w http.ResponseWriter, r *http.Request, userID int) {
	var body struct {
		ProductID int `json:"productId"`
		Quantity  int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid cart payload")
		return
	}
	writeJSON(w, http.StatusOK, s.store.AddCartItem(userID, body.ProductID, body.Quantity))
}

func (s *Service) getCart(w http.ResponseWriter, userID int) {
	view, ok := s.store.CartDetail(userID)
	if !ok {
		writeMessage(w, "Cart is empty")
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Service) removeCartItem(w http.ResponseWriter, userID, productID int) {
	cart, err := s.store.RemoveCartItem(userID, productID)
	if err != nil {
		writeError(w, http.StatusNotFound, "Item not found in cart")
		return
	}
	writeJSON(w, http.StatusOK, cart)
}
