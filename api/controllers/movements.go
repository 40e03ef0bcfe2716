package controllers

import (
	"net/http"
	"strings"

	"github.com/leanchem/leanchem-backend/api/responses"
	"github.com/leanchem/leanchem-backend/api/validators"
	"github.com/leanchem/leanchem-backend/internal/stock"
	"github.com/leanchem/leanchem-backend/pkg/enums"
	pkgerrors "github.com/leanchem/leanchem-backend/pkg/errors"
	"github.com/leanchem/leanchem-backend/pkg/logger"
	"github.com/leanchem/leanchem-backend/pkg/pagination"
)

func CreateMovement(svc *stock.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input stock.CreateMovementInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		movement, err := svc.CreateMovement(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, movement)
	}
}

func GetMovement(svc *stock.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.UUIDParam(r, "movementID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		movement, err := svc.GetMovement(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, movement)
	}
}

func ListMovements(svc *stock.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := movementFilterFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		page := pagination.FromRequest(r)

		movements, total, err := svc.ListMovements(r.Context(), filter, page)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, paged(movements, total, page))
	}
}

func UpdateMovement(svc *stock.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.UUIDParam(r, "movementID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var input stock.UpdateMovementInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		movement, err := svc.UpdateMovement(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, movement)
	}
}

func DeleteMovement(svc *stock.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.UUIDParam(r, "movementID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteMovement(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

func movementFilterFromQuery(r *http.Request) (stock.MovementFilter, error) {
	var filter stock.MovementFilter
	q := r.URL.Query()

	productID, err := validators.ParseQueryUUID(r, "product_id")
	if err != nil {
		return filter, err
	}
	filter.ProductID = productID

	if raw := strings.TrimSpace(q.Get("location")); raw != "" {
		location, err := enums.ParseLocation(raw)
		if err != nil {
			return filter, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid location")
		}
		filter.Location = location
	}

	if raw := strings.TrimSpace(q.Get("transaction_type")); raw != "" {
		txType, err := enums.ParseTransactionType(raw)
		if err != nil {
			return filter, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid transaction type")
		}
		filter.TransactionType = txType
	}

	if raw := strings.TrimSpace(q.Get("business_model")); raw != "" {
		model, err := enums.ParseBusinessModel(raw)
		if err != nil {
			return filter, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid business model")
		}
		filter.BusinessModel = model
	}

	start, err := validators.ParseQueryTime(r, "start_date")
	if err != nil {
		return filter, err
	}
	filter.StartDate = start

	end, err := validators.ParseQueryTime(r, "end_date")
	if err != nil {
		return filter, err
	}
	filter.EndDate = end

	return filter, nil
}
