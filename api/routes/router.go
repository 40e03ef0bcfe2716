package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/leanchem/leanchem-backend/api/controllers"
	"github.com/leanchem/leanchem-backend/api/middleware"
	"github.com/leanchem/leanchem-backend/internal/crm"
	"github.com/leanchem/leanchem-backend/internal/pipeline"
	"github.com/leanchem/leanchem-backend/internal/pms"
	"github.com/leanchem/leanchem-backend/internal/profiles"
	"github.com/leanchem/leanchem-backend/internal/quotes"
	"github.com/leanchem/leanchem-backend/internal/stock"
	"github.com/leanchem/leanchem-backend/pkg/config"
	"github.com/leanchem/leanchem-backend/pkg/logger"
	"github.com/leanchem/leanchem-backend/pkg/metrics"
)

// Deps bundles everything the HTTP surface needs.
type Deps struct {
	Config      *config.Config
	Logger      *logger.Logger
	DBPinger    controllers.Pinger
	RedisPinger controllers.Pinger
	HTTPMetrics *metrics.HTTPMetrics

	Stock        *stock.Service
	PMS          *pms.Service
	CRM          *crm.Service
	Pipeline     *pipeline.Service
	Quotes       *quotes.Service
	ProfileQueue profiles.Repository
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.HTTPMetrics),
		middleware.CORS(cfg.App.Origins()),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DBPinger, deps.RedisPinger))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Route("/products", func(r chi.Router) {
			r.Post("/", controllers.CreateProduct(deps.Stock, logg))
			r.Get("/", controllers.ListProducts(deps.Stock, logg))
			r.Get("/availability", controllers.StockAvailability(deps.Stock, logg))
			r.Get("/{productID}", controllers.GetProduct(deps.Stock, logg))
			r.Get("/{productID}/stock", controllers.GetProductStock(deps.Stock, logg))
			r.Put("/{productID}", controllers.UpdateProduct(deps.Stock, logg))
			r.Delete("/{productID}", controllers.DeleteProduct(deps.Stock, logg))
		})

		r.Route("/movements", func(r chi.Router) {
			r.Post("/", controllers.CreateMovement(deps.Stock, logg))
			r.Get("/", controllers.ListMovements(deps.Stock, logg))
			r.Get("/{movementID}", controllers.GetMovement(deps.Stock, logg))
			r.Put("/{movementID}", controllers.UpdateMovement(deps.Stock, logg))
			r.Delete("/{movementID}", controllers.DeleteMovement(deps.Stock, logg))
		})

		r.Route("/customers", func(r chi.Router) {
			r.Post("/", controllers.CreateCustomer(deps.CRM, logg))
			r.Get("/", controllers.ListCustomers(deps.CRM, logg))
			r.Get("/dashboard", controllers.CRMDashboard(deps.CRM, logg))
			r.Post("/backfill-stages", controllers.BackfillSalesStages(deps.CRM, logg))
			r.Get("/{customerID}", controllers.GetCustomer(deps.CRM, logg))
			r.Put("/{customerID}", controllers.UpdateCustomer(deps.CRM, logg))
			r.Delete("/{customerID}", controllers.DeleteCustomer(deps.CRM, logg))
			r.Post("/{customerID}/chat", controllers.ChatWithCustomer(deps.CRM, logg))
			r.Post("/{customerID}/autofill-stage", controllers.AutoFillSalesStage(deps.CRM, logg))
			r.Post("/{customerID}/profile", controllers.EnqueueProfileUpdate(deps.ProfileQueue, logg))
			r.Post("/{customerID}/interactions", controllers.CreateInteraction(deps.CRM, logg))
			r.Get("/{customerID}/interactions", controllers.ListInteractions(deps.CRM, logg))
		})

		r.Route("/interactions", func(r chi.Router) {
			r.Get("/{interactionID}", controllers.GetInteraction(deps.CRM, logg))
			r.Put("/{interactionID}", controllers.UpdateInteraction(deps.CRM, logg))
			r.Delete("/{interactionID}", controllers.DeleteInteraction(deps.CRM, logg))
		})

		r.Route("/profile-jobs", func(r chi.Router) {
			r.Get("/", controllers.ListProfileJobs(deps.ProfileQueue, logg))
			r.Get("/{jobID}", controllers.GetProfileJob(deps.ProfileQueue, logg))
		})

		r.Route("/pipelines", func(r chi.Router) {
			r.Post("/", controllers.CreatePipeline(deps.Pipeline, logg))
			r.Get("/", controllers.ListPipelines(deps.Pipeline, logg))
			r.Get("/summary", controllers.PipelineStageSummaries(deps.Pipeline, logg))
			r.Get("/{pipelineID}", controllers.GetPipeline(deps.Pipeline, logg))
			r.Put("/{pipelineID}", controllers.UpdatePipeline(deps.Pipeline, logg))
			r.Delete("/{pipelineID}", controllers.DeletePipeline(deps.Pipeline, logg))
			r.Post("/{pipelineID}/advance", controllers.AdvancePipelineStage(deps.Pipeline, logg))
		})

		r.Route("/chemical-types", func(r chi.Router) {
			r.Post("/", controllers.CreateChemicalType(deps.PMS, logg))
			r.Get("/", controllers.ListChemicalTypes(deps.PMS, logg))
			r.Get("/categories", controllers.ListChemicalCategories(deps.PMS, logg))
			r.Get("/{chemicalTypeID}", controllers.GetChemicalType(deps.PMS, logg))
			r.Put("/{chemicalTypeID}", controllers.UpdateChemicalType(deps.PMS, logg))
			r.Delete("/{chemicalTypeID}", controllers.DeleteChemicalType(deps.PMS, logg))
		})

		r.Route("/tds", func(r chi.Router) {
			r.Post("/", controllers.CreateTds(deps.PMS, logg))
			r.Get("/", controllers.ListTds(deps.PMS, logg))
			r.Get("/{tdsID}", controllers.GetTds(deps.PMS, logg))
			r.Get("/{tdsID}/product", controllers.GetProductByTds(deps.Stock, logg))
			r.Put("/{tdsID}", controllers.UpdateTds(deps.PMS, logg))
			r.Delete("/{tdsID}", controllers.DeleteTds(deps.PMS, logg))
		})

		r.Route("/partners", func(r chi.Router) {
			r.Post("/", controllers.CreatePartner(deps.PMS, logg))
			r.Get("/", controllers.ListPartners(deps.PMS, logg))
			r.Get("/{partnerID}", controllers.GetPartner(deps.PMS, logg))
			r.Put("/{partnerID}", controllers.UpdatePartner(deps.PMS, logg))
			r.Delete("/{partnerID}", controllers.DeletePartner(deps.PMS, logg))
		})

		r.Route("/costing", func(r chi.Router) {
			r.Post("/", controllers.UpsertCosting(deps.PMS, logg))
			r.Get("/", controllers.ListCosting(deps.PMS, logg))
			r.Get("/{partnerID}/{tdsID}", controllers.GetCosting(deps.PMS, logg))
			r.Delete("/{partnerID}/{tdsID}", controllers.DeleteCosting(deps.PMS, logg))
		})

		r.Route("/quotes", func(r chi.Router) {
			r.Post("/", controllers.GenerateQuote(deps.Quotes, logg))
			r.Post("/preview", controllers.PreviewQuote(deps.Quotes, logg))
			r.Get("/payment-terms", controllers.ListPaymentTerms())
		})
	})

	return r
}
