package controllers

import (
	"net/http"
	"strings"

	"github.com/leanchem/leanchem-backend/api/responses"
	"github.com/leanchem/leanchem-backend/api/validators"
	"github.com/leanchem/leanchem-backend/internal/profiles"
	"github.com/leanchem/leanchem-backend/pkg/db"
	"github.com/leanchem/leanchem-backend/pkg/enums"
	pkgerrors "github.com/leanchem/leanchem-backend/pkg/errors"
	"github.com/leanchem/leanchem-backend/pkg/logger"
	"github.com/leanchem/leanchem-backend/pkg/pagination"
)

// EnqueueProfileUpdate queues a background rebuild of the customer's
// AI profile. Duplicate requests return the already-queued job.
func EnqueueProfileUpdate(repo profiles.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customerID, err := validators.UUIDParam(r, "customerID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		job, err := repo.Enqueue(r.Context(), customerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to queue profile update"))
			return
		}
		responses.WriteSuccessStatus(w, http.StatusAccepted, job)
	}
}

func GetProfileJob(repo profiles.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.UUIDParam(r, "jobID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		job, err := repo.Get(r.Context(), id)
		if err != nil {
			if db.IsNotFound(err) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "Job not found"))
				return
			}
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load job"))
			return
		}
		responses.WriteSuccess(w, job)
	}
}

func ListProfileJobs(repo profiles.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var status *enums.JobStatus
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			parsed, err := enums.ParseJobStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
				return
			}
			status = &parsed
		}
		page := pagination.FromRequest(r)

		jobs, total, err := repo.List(r.Context(), status, page)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to list jobs"))
			return
		}
		responses.WriteSuccess(w, paged(jobs, total, page))
	}
}
