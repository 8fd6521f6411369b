package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/kiranalabs/bazaari-backend/api/responses"
	"github.com/kiranalabs/bazaari-backend/api/validators"
	"github.com/kiranalabs/bazaari-backend/internal/accounts"
	"github.com/kiranalabs/bazaari-backend/pkg/enums"
	pkgerrors "github.com/kiranalabs/bazaari-backend/pkg/errors"
	"github.com/kiranalabs/bazaari-backend/pkg/logger"
)

// AdminApprovalsList returns tier-upgrade requests for review.
func AdminApprovalsList(svc accounts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var filters accounts.ApprovalFilters
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status := enums.ApprovalStatus(raw)
			if !status.IsValid() {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid status filter"))
				return
			}
			filters.Status = &status
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("requested_role")); raw != "" {
			role := enums.Role(raw)
			if !role.IsValid() {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid requested_role filter"))
				return
			}
			filters.RequestedRole = &role
		}

		page, err := svc.ListApprovals(r.Context(), params, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

// AdminApprovalDecide records an admin verdict on an upgrade request.
func AdminApprovalDecide(svc accounts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		adminID, err := requestUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		requestID, err := uuid.Parse(chi.URLParam(r, "requestId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid request id"))
			return
		}

		var payload accounts.ApprovalDecision
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		decided, err := svc.DecideApproval(r.Context(), adminID, requestID, payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, decided)
	}
}
