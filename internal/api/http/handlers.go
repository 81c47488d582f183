package http

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"rentalops-backend/internal/domain"
)

func pathID(r *http.Request) string {
	return mux.Vars(r)["id"]
}

// postingDateFrom reads an optional {"posting_date": "2006-01-02"} body;
// an empty body means now.
func postingDateFrom(r *http.Request) (time.Time, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return time.Time{}, err
	}
	if len(body) == 0 {
		return time.Now().UTC(), nil
	}
	var payload struct {
		PostingDate string `json:"posting_date"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return time.Time{}, domain.Validationf("invalid request body: %v", err)
	}
	if payload.PostingDate == "" {
		return time.Now().UTC(), nil
	}
	t, err := time.Parse("2006-01-02", payload.PostingDate)
	if err != nil {
		return time.Time{}, domain.Validationf("invalid posting date %q, expected YYYY-MM-DD", payload.PostingDate)
	}
	return t, nil
}

func (s *Server) handleStockBalance(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	asOf := time.Now().UTC()
	if v := q.Get("date"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			writeError(w, domain.Validationf("invalid date %q, expected YYYY-MM-DD", v))
			return
		}
		asOf = t
	}
	balance, err := s.stock.Balance(r.Context(), q.Get("item_code"), q.Get("warehouse"), asOf)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"item_code": q.Get("item_code"),
		"warehouse": q.Get("warehouse"),
		"balance":   balance,
	})
}

func (s *Server) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var order domain.RentalOrder
	if err := decodeBody(r, &order); err != nil {
		writeError(w, err)
		return
	}
	if err := s.orders.CreateOrder(r.Context(), &order); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

func (s *Server) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := s.orders.GetOrder(r.Context(), pathID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (s *Server) handleSubmitOrder(w http.ResponseWriter, r *http.Request) {
	if err := s.orders.SubmitOrder(r.Context(), pathID(r)); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"name": pathID(r), "status": "submitted"})
}

func (s *Server) handleCreateDeliveryFromOrder(w http.ResponseWriter, r *http.Request) {
	postingDate, err := postingDateFrom(r)
	if err != nil {
		writeError(w, err)
		return
	}
	d, err := s.deliveries.CreateDeliveryFromOrder(r.Context(), pathID(r), postingDate)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, d)
}

func (s *Server) handleCreateDelivery(w http.ResponseWriter, r *http.Request) {
	var d domain.RentalDelivery
	if err := decodeBody(r, &d); err != nil {
		writeError(w, err)
		return
	}
	if err := s.deliveries.CreateDelivery(r.Context(), &d); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, d)
}

func (s *Server) handleGetDelivery(w http.ResponseWriter, r *http.Request) {
	d, err := s.deliveries.GetDelivery(r.Context(), pathID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleSubmitDelivery(w http.ResponseWriter, r *http.Request) {
	if err := s.deliveries.SubmitDelivery(r.Context(), pathID(r)); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"name": pathID(r), "status": "submitted"})
}

func (s *Server) handleCancelDelivery(w http.ResponseWriter, r *http.Request) {
	if err := s.deliveries.CancelDelivery(r.Context(), pathID(r)); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"name": pathID(r), "status": "cancelled"})
}

func (s *Server) handleCreateReturnFromDelivery(w http.ResponseWriter, r *http.Request) {
	postingDate, err := postingDateFrom(r)
	if err != nil {
		writeError(w, err)
		return
	}
	ret, err := s.returns.CreateReturnFromDelivery(r.Context(), pathID(r), postingDate)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, ret)
}

func (s *Server) handleCreateInvoiceFromDelivery(w http.ResponseWriter, r *http.Request) {
	postingDate, err := postingDateFrom(r)
	if err != nil {
		writeError(w, err)
		return
	}
	inv, err := s.billing.CreateInvoiceFromDelivery(r.Context(), pathID(r), postingDate)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, inv)
}

func (s *Server) handleCreateReturn(w http.ResponseWriter, r *http.Request) {
	var ret domain.RentalReturn
	if err := decodeBody(r, &ret); err != nil {
		writeError(w, err)
		return
	}
	if err := s.returns.CreateReturn(r.Context(), &ret); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, ret)
}

func (s *Server) handleGetReturn(w http.ResponseWriter, r *http.Request) {
	ret, err := s.returns.GetReturn(r.Context(), pathID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ret)
}

func (s *Server) handleSubmitReturn(w http.ResponseWriter, r *http.Request) {
	if err := s.returns.SubmitReturn(r.Context(), pathID(r)); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"name": pathID(r), "status": "submitted"})
}

func (s *Server) handleCancelReturn(w http.ResponseWriter, r *http.Request) {
	if err := s.returns.CancelReturn(r.Context(), pathID(r)); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"name": pathID(r), "status": "cancelled"})
}

func (s *Server) handleCreateRepack(w http.ResponseWriter, r *http.Request) {
	var c domain.ChangeInventory
	if err := decodeBody(r, &c); err != nil {
		writeError(w, err)
		return
	}
	if err := s.repacks.CreateRepack(r.Context(), &c); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (s *Server) handleGetRepack(w http.ResponseWriter, r *http.Request) {
	c, err := s.repacks.GetRepack(r.Context(), pathID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleSubmitRepack(w http.ResponseWriter, r *http.Request) {
	if err := s.repacks.SubmitRepack(r.Context(), pathID(r)); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"name": pathID(r), "status": "submitted"})
}

func (s *Server) handleCancelRepack(w http.ResponseWriter, r *http.Request) {
	if err := s.repacks.CancelRepack(r.Context(), pathID(r)); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"name": pathID(r), "status": "cancelled"})
}

func (s *Server) handleCreateHiredItems(w http.ResponseWriter, r *http.Request) {
	var h domain.HiredItems
	if err := decodeBody(r, &h); err != nil {
		writeError(w, err)
		return
	}
	if err := s.hired.CreateHiredItems(r.Context(), &h); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, h)
}

func (s *Server) handleGetHiredItems(w http.ResponseWriter, r *http.Request) {
	h, err := s.hired.GetHiredItems(r.Context(), pathID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h)
}

func (s *Server) handleSubmitHiredItems(w http.ResponseWriter, r *http.Request) {
	if err := s.hired.SubmitHiredItems(r.Context(), pathID(r)); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"name": pathID(r), "status": "submitted"})
}

func (s *Server) handleCancelHiredItems(w http.ResponseWriter, r *http.Request) {
	if err := s.hired.CancelHiredItems(r.Context(), pathID(r)); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"name": pathID(r), "status": "cancelled"})
}

func (s *Server) handleCreateSupplierReturn(w http.ResponseWriter, r *http.Request) {
	postingDate, err := postingDateFrom(r)
	if err != nil {
		writeError(w, err)
		return
	}
	ret, err := s.hired.CreateSupplierReturn(r.Context(), pathID(r), postingDate)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, ret)
}

func (s *Server) handleCreateInvoice(w http.ResponseWriter, r *http.Request) {
	var inv domain.SalesInvoice
	if err := decodeBody(r, &inv); err != nil {
		writeError(w, err)
		return
	}
	if err := s.billing.CreateInvoice(r.Context(), &inv); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, inv)
}

func (s *Server) handleGetInvoice(w http.ResponseWriter, r *http.Request) {
	inv, err := s.billing.GetInvoice(r.Context(), pathID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, inv)
}

func (s *Server) handleSubmitInvoice(w http.ResponseWriter, r *http.Request) {
	if err := s.billing.SubmitInvoice(r.Context(), pathID(r)); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"name": pathID(r), "status": "submitted"})
}

func (s *Server) handleCancelInvoice(w http.ResponseWriter, r *http.Request) {
	if err := s.billing.CancelInvoice(r.Context(), pathID(r)); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"name": pathID(r), "status": "cancelled"})
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.settings.GetSettings(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (s *Server) handleGetDefaults(w http.ResponseWriter, r *http.Request) {
	row, err := s.settings.DefaultsFor(r.Context(), r.URL.Query().Get("company"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, row)
}

func (s *Server) handleUpdateDefaults(w http.ResponseWriter, r *http.Request) {
	var row domain.RentalDefaults
	if err := decodeBody(r, &row); err != nil {
		writeError(w, err)
		return
	}
	if err := s.settings.UpdateDefaults(r.Context(), &row); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, row)
}

func (s *Server) handleCreateWarehouses(w http.ResponseWriter, r *http.Request) {
	company := r.URL.Query().Get("company")
	if company == "" {
		writeError(w, domain.Validationf("company is required"))
		return
	}
	row, err := s.settings.CreateWarehousesForCompany(r.Context(), company)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, row)
}

func (s *Server) handleCreateWarehousesAll(w http.ResponseWriter, r *http.Request) {
	rows, err := s.settings.CreateWarehousesForAllCompanies(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleRentalReconciliation(w http.ResponseWriter, r *http.Request) {
	order := r.URL.Query().Get("order")
	if order == "" {
		writeError(w, domain.Validationf("order is required"))
		return
	}
	report, err := s.reports.RentalReconciliation(r.Context(), order)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
