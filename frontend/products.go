package frontend

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/shopmirror/shopstore/models"
	"github.com/shopmirror/shopstore/store"
)

func (s *Service) handleProducts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listProducts(w, r)
	case http.MethodPost:
		s.createProduct(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Service) listProducts(w http.ResponseWriter, r *http.Request) {
	var filter store.ProductFilter
	q := r.URL.Query()
	if category := q.Get("category"); category != "" {
		filter.Category = &category
	}
	if raw := q.Get("inStock"); raw != "" {
		inStock := raw == "true"
		filter.InStock = &inStock
	}
	writeJSON(w, http.StatusOK, s.store.ListProducts(filter))
}

func (s *Service) createProduct(w http.ResponseWriter, r *http.Request) {
	var p models.Product
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid product payload")
		return
	}
	writeJSON(w, http.StatusCreated, s.store.CreateProduct(p))
}

func (s *Service) handleProductByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(strings.TrimPrefix(r.URL.Path, "/products/"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	switch r.Method {
	case http.MethodGet:
		p, err := s.store.GetProduct(id)
		if err != nil {
			writeError(w, http.StatusNotFound, "Product not found")
			return
		}
		writeJSON(w, http.StatusOK, p)
	case http.MethodPut:
		var patch models.ProductPatch
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			writeError(w, http.StatusBadRequest, "invalid product payload")
			return
		}
		p, err := s.store.UpdateProduct(id, patch)
		if err != nil {
			writeError(w, http.StatusNotFound, "Product not found")
			return
		}
		writeJSON(w, http.StatusOK, p)
	case http.MethodDelete:
		if err := s.store.DeleteProduct(id); err != nil {
			writeError(w, http.StatusNotFound, "Product not found")
			return
		}
		writeMessage(w, "Product deleted successfully")
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}
