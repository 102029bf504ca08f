package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/storefront-core/internal/audit"
	"github.com/nerrad567/storefront-core/internal/auth"
	"github.com/nerrad567/storefront-core/internal/product"
)

// WebSocket event channels for catalogue changes.
const (
	eventProductCreated = "product.created"
	eventProductUpdated = "product.updated"
	eventProductDeleted = "product.deleted"
)

// createProductRequest is the request body for POST /products.
// Ownership is taken from the authenticated identity, never the body.
type createProductRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
}

// handleListProducts returns one page of the catalogue.
// Query parameters: page, limit, search.
func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	filter := product.ListFilter{
		Search: r.URL.Query().Get("search"),
		Page:   queryInt(r, "page"),
		Limit:  queryInt(r, "limit"),
	}

	page, err := s.products.List(r.Context(), filter)
	if err != nil {
		s.logger.Error("listing products failed", "error", err)
		writeInternalError(w)
		return
	}

	writeSuccess(w, http.StatusOK, page)
}

// handleGetProduct returns a single product by ID.
func (s *Server) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	p, err := s.products.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, product.ErrProductNotFound) {
			writeNotFound(w, "product not found")
			return
		}
		s.logger.Error("fetching product failed", "id", id, "error", err)
		writeInternalError(w)
		return
	}

	writeSuccess(w, http.StatusOK, p)
}

// handleListMyProducts returns every product owned by the caller, newest
// first, without pagination.
func (s *Server) handleListMyProducts(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w)
		return
	}

	products, err := s.products.ListByOwner(r.Context(), identity.ID)
	if err != nil {
		s.logger.Error("listing own products failed", "error", err)
		writeInternalError(w)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"products": products})
}

// handleCreateProduct inserts a new product owned by the caller.
func (s *Server) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w)
		return
	}

	var req createProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	p := &product.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		OwnerID:     identity.ID,
	}

	if err := s.products.Create(r.Context(), p); err != nil {
		if isProductValidationError(err) {
			writeBadRequest(w, err.Error())
			return
		}
		s.logger.Error("creating product failed", "error", err)
		writeInternalError(w)
		return
	}

	s.recordAudit(r.Context(), audit.ActionCreate, audit.EntityProduct, p.ID, identity.ID,
		map[string]any{"name": p.Name})
	s.broadcast(eventProductCreated, p)

	writeSuccess(w, http.StatusCreated, p)
}

// handleUpdateProduct applies a partial patch to a product the caller may
// mutate. Existence is checked before ownership, so a missing product
// answers 404 even to callers who would have been forbidden.
func (s *Server) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w)
		return
	}
	id := chi.URLParam(r, "id")

	existing, err := s.products.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, product.ErrProductNotFound) {
			writeNotFound(w, "product not found")
			return
		}
		s.logger.Error("fetching product failed", "id", id, "error", err)
		writeInternalError(w)
		return
	}

	if !auth.CanMutate(identity, existing.OwnerID) {
		writeForbidden(w)
		return
	}

	var patch product.Update
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	updated, err := s.products.Update(r.Context(), id, patch)
	if err != nil {
		switch {
		case isProductValidationError(err):
			writeBadRequest(w, err.Error())
		case errors.Is(err, product.ErrProductNotFound):
			writeNotFound(w, "product not found")
		default:
			s.logger.Error("updating product failed", "id", id, "error", err)
			writeInternalError(w)
		}
		return
	}

	s.recordAudit(r.Context(), audit.ActionUpdate, audit.EntityProduct, id, identity.ID, nil)
	s.broadcast(eventProductUpdated, updated)

	writeSuccess(w, http.StatusOK, updated)
}

// handleDeleteProduct removes a product the caller may mutate.
func (s *Server) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w)
		return
	}
	id := chi.URLParam(r, "id")

	existing, err := s.products.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, product.ErrProductNotFound) {
			writeNotFound(w, "product not found")
			return
		}
		s.logger.Error("fetching product failed", "id", id, "error", err)
		writeInternalError(w)
		return
	}

	if !auth.CanMutate(identity, existing.OwnerID) {
		writeForbidden(w)
		return
	}

	if err := s.products.Delete(r.Context(), id); err != nil {
		if errors.Is(err, product.ErrProductNotFound) {
			writeNotFound(w, "product not found")
			return
		}
		s.logger.Error("deleting product failed", "id", id, "error", err)
		writeInternalError(w)
		return
	}

	s.recordAudit(r.Context(), audit.ActionDelete, audit.EntityProduct, id, identity.ID,
		map[string]any{"name": existing.Name})
	s.broadcast(eventProductDeleted, map[string]any{"id": id})

	writeSuccess(w, http.StatusOK, map[string]any{"id": id})
}

// broadcast relays a catalogue event to WebSocket subscribers.
func (s *Server) broadcast(channel string, payload any) {
	if s.hub == nil {
		return
	}
	s.hub.Broadcast(channel, payload)
}

// isProductValidationError groups the product errors that map to 400.
func isProductValidationError(err error) bool {
	return errors.Is(err, product.ErrInvalidName) ||
		errors.Is(err, product.ErrInvalidDescription) ||
		errors.Is(err, product.ErrInvalidPrice) ||
		errors.Is(err, product.ErrInvalidStock) ||
		errors.Is(err, product.ErrMissingOwner) ||
		errors.Is(err, product.ErrEmptyUpdate)
}

// queryInt parses an integer query parameter, returning 0 when absent or
// malformed (repositories apply their own defaults).
func queryInt(r *http.Request, key string) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}
