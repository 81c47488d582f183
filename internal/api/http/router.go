package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"rentalops-backend/internal/security"
	"rentalops-backend/internal/service"
)

// Server wires the rental services to their HTTP routes.
type Server struct {
	orders     service.OrderService
	deliveries service.DeliveryService
	returns    service.ReturnService
	repacks    service.RepackService
	hired      service.HiredItemsService
	billing    service.BillingService
	stock      service.StockService
	settings   service.SettingsService
	reports    service.ReportService
}

func NewServer(
	orders service.OrderService,
	deliveries service.DeliveryService,
	returns service.ReturnService,
	repacks service.RepackService,
	hired service.HiredItemsService,
	billing service.BillingService,
	stock service.StockService,
	settings service.SettingsService,
	reports service.ReportService,
) *Server {
	return &Server{
		orders:     orders,
		deliveries: deliveries,
		returns:    returns,
		repacks:    repacks,
		hired:      hired,
		billing:    billing,
		stock:      stock,
		settings:   settings,
		reports:    reports,
	}
}

// Router builds the API route table. Every route under /api/v1 requires a
// valid access token.
func (s *Server) Router(tokens security.TokenManager) http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(authMiddleware(tokens), auditMiddleware)

	api.HandleFunc("/stock/balance", s.handleStockBalance).Methods(http.MethodGet)

	api.HandleFunc("/orders", s.handleCreateOrder).Methods(http.MethodPost)
	api.HandleFunc("/orders/{id}", s.handleGetOrder).Methods(http.MethodGet)
	api.HandleFunc("/orders/{id}/submit", s.handleSubmitOrder).Methods(http.MethodPost)
	api.HandleFunc("/orders/{id}/rental-delivery", s.handleCreateDeliveryFromOrder).Methods(http.MethodPost)

	api.HandleFunc("/rental-deliveries", s.handleCreateDelivery).Methods(http.MethodPost)
	api.HandleFunc("/rental-deliveries/{id}", s.handleGetDelivery).Methods(http.MethodGet)
	api.HandleFunc("/rental-deliveries/{id}/submit", s.handleSubmitDelivery).Methods(http.MethodPost)
	api.HandleFunc("/rental-deliveries/{id}/cancel", s.handleCancelDelivery).Methods(http.MethodPost)
	api.HandleFunc("/rental-deliveries/{id}/rental-return", s.handleCreateReturnFromDelivery).Methods(http.MethodPost)
	api.HandleFunc("/rental-deliveries/{id}/sales-invoice", s.handleCreateInvoiceFromDelivery).Methods(http.MethodPost)

	api.HandleFunc("/rental-returns", s.handleCreateReturn).Methods(http.MethodPost)
	api.HandleFunc("/rental-returns/{id}", s.handleGetReturn).Methods(http.MethodGet)
	api.HandleFunc("/rental-returns/{id}/submit", s.handleSubmitReturn).Methods(http.MethodPost)
	api.HandleFunc("/rental-returns/{id}/cancel", s.handleCancelReturn).Methods(http.MethodPost)

	api.HandleFunc("/change-inventories", s.handleCreateRepack).Methods(http.MethodPost)
	api.HandleFunc("/change-inventories/{id}", s.handleGetRepack).Methods(http.MethodGet)
	api.HandleFunc("/change-inventories/{id}/submit", s.handleSubmitRepack).Methods(http.MethodPost)
	api.HandleFunc("/change-inventories/{id}/cancel", s.handleCancelRepack).Methods(http.MethodPost)

	api.HandleFunc("/hired-items", s.handleCreateHiredItems).Methods(http.MethodPost)
	api.HandleFunc("/hired-items/{id}", s.handleGetHiredItems).Methods(http.MethodGet)
	api.HandleFunc("/hired-items/{id}/submit", s.handleSubmitHiredItems).Methods(http.MethodPost)
	api.HandleFunc("/hired-items/{id}/cancel", s.handleCancelHiredItems).Methods(http.MethodPost)
	api.HandleFunc("/hired-items/{id}/return", s.handleCreateSupplierReturn).Methods(http.MethodPost)

	api.HandleFunc("/sales-invoices", s.handleCreateInvoice).Methods(http.MethodPost)
	api.HandleFunc("/sales-invoices/{id}", s.handleGetInvoice).Methods(http.MethodGet)
	api.HandleFunc("/sales-invoices/{id}/submit", s.handleSubmitInvoice).Methods(http.MethodPost)
	api.HandleFunc("/sales-invoices/{id}/cancel", s.handleCancelInvoice).Methods(http.MethodPost)

	api.HandleFunc("/settings", s.handleGetSettings).Methods(http.MethodGet)
	api.HandleFunc("/settings/defaults", s.handleGetDefaults).Methods(http.MethodGet)
	api.HandleFunc("/settings/defaults", s.handleUpdateDefaults).Methods(http.MethodPut)
	api.HandleFunc("/settings/warehouses", s.handleCreateWarehouses).Methods(http.MethodPost)
	api.HandleFunc("/settings/warehouses/all", s.handleCreateWarehousesAll).Methods(http.MethodPost)

	api.HandleFunc("/reports/rental-reconciliation", s.handleRentalReconciliation).Methods(http.MethodGet)

	return loggingMiddleware(r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
