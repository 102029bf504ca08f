package api

import (
	"net/http"

	"github.com/nerrad567/storefront-core/internal/audit"
	"github.com/nerrad567/storefront-core/internal/auth"
)

// handleListAuditLogs returns the audit trail. Admin only.
//
// Query parameters: action, entity_type, entity_id, user_id, limit, offset.
func (s *Server) handleListAuditLogs(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w)
		return
	}
	if !auth.HasRole(identity, auth.RoleAdmin) {
		writeForbidden(w)
		return
	}

	if s.audit == nil {
		writeNotFound(w, "audit trail not enabled")
		return
	}

	q := r.URL.Query()
	filter := audit.Filter{
		Action:     q.Get("action"),
		EntityType: q.Get("entity_type"),
		EntityID:   q.Get("entity_id"),
		UserID:     q.Get("user_id"),
		Limit:      queryInt(r, "limit"),
		Offset:     queryInt(r, "offset"),
	}

	result, err := s.audit.List(r.Context(), filter)
	if err != nil {
		s.logger.Error("listing audit logs failed", "error", err)
		writeInternalError(w)
		return
	}

	writeSuccess(w, http.StatusOK, result)
}
