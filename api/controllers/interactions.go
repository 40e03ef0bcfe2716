package controllers

import (
	"net/http"

	"github.com/leanchem/leanchem-backend/api/responses"
	"github.com/leanchem/leanchem-backend/api/validators"
	"github.com/leanchem/leanchem-backend/internal/crm"
	"github.com/leanchem/leanchem-backend/pkg/logger"
	"github.com/leanchem/leanchem-backend/pkg/pagination"
)

func CreateInteraction(svc *crm.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customerID, err := validators.UUIDParam(r, "customerID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var input crm.CreateInteractionInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if input.UserID == nil {
			input.UserID = actorID(r)
		}

		interaction, err := svc.CreateInteraction(r.Context(), customerID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, interaction)
	}
}

func ListInteractions(svc *crm.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customerID, err := validators.UUIDParam(r, "customerID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filter, err := interactionFilterFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		page := pagination.FromRequest(r)

		interactions, total, err := svc.ListInteractions(r.Context(), customerID, filter, page)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, paged(interactions, total, page))
	}
}

func GetInteraction(svc *crm.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.UUIDParam(r, "interactionID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		interaction, err := svc.GetInteraction(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, interaction)
	}
}

func UpdateInteraction(svc *crm.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.UUIDParam(r, "interactionID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var input crm.UpdateInteractionInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		interaction, err := svc.UpdateInteraction(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, interaction)
	}
}

func DeleteInteraction(svc *crm.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.UUIDParam(r, "interactionID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteInteraction(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
