package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Fawry-Intern/store-api/internal/store/application"
	"github.com/Fawry-Intern/store-api/internal/store/domain"
)

type Handler struct {
	log          *slog.Logger
	stores       *application.StoreService
	stock        *application.StockService
	consumptions *application.ConsumptionService
}

func NewHandler(
	log *slog.Logger,
	stores *application.StoreService,
	stock *application.StockService,
	consumptions *application.ConsumptionService,
) *Handler {
	return &Handler{log: log, stores: stores, stock: stock, consumptions: consumptions}
}

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Route("/api/stores", func(r chi.Router) {
		r.Post("/", h.createStore)
		r.Get("/", h.listStores)
		r.Get("/{storeId}", h.getStore)
		r.Put("/{storeId}", h.updateStore)
		r.Delete("/{storeId}", h.deleteStore)
		r.Get("/{storeId}/products", h.storeProducts)
		r.Get("/{storeId}/stocks", h.storeStocks)
		r.Get("/{storeId}/consumptions", h.storeConsumptions)
	})

	r.Route("/api/stocks", func(r chi.Router) {
		r.Post("/", h.addStock)
		r.Get("/", h.listStocks)
		r.Get("/{storeId}/{productId}", h.getStock)
		r.Put("/update-quantity", h.setStockQuantity)
		r.Delete("/{storeId}/{productId}", h.deleteStock)
	})

	r.Route("/api/consumptions", func(r chi.Router) {
		r.Post("/", h.recordConsumption)
		r.Get("/", h.listConsumptions)
		r.Get("/{consumptionId}", h.getConsumption)
		r.Delete("/{consumptionId}", h.deleteConsumption)
	})

	return r
}

func (h *Handler) createStore(w http.ResponseWriter, r *http.Request) {
	var store domain.Store
	if err := json.NewDecoder(r.Body).Decode(&store); err != nil {
		h.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	created, err := h.stores.Create(r.Context(), store)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) listStores(w http.ResponseWriter, r *http.Request) {
	stores, err := h.stores.List(r.Context())
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, stores)
}

func (h *Handler) getStore(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "storeId")
	if !ok {
		return
	}
	store, err := h.stores.Get(r.Context(), id)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, store)
}

func (h *Handler) updateStore(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "storeId")
	if !ok {
		return
	}
	var store domain.Store
	if err := json.NewDecoder(r.Body).Decode(&store); err != nil {
		h.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	store.ID = id
	updated, err := h.stores.Update(r.Context(), store)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, updated)
}

func (h *Handler) deleteStore(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "storeId")
	if !ok {
		return
	}
	if err := h.stores.Delete(r.Context(), id); err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) storeProducts(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "storeId")
	if !ok {
		return
	}
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	size, _ := strconv.Atoi(r.URL.Query().Get("size"))
	products, err := h.stores.Products(r.Context(), id, page, size)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, products)
}

func (h *Handler) storeStocks(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "storeId")
	if !ok {
		return
	}
	stocks, err := h.stock.ListByStore(r.Context(), id)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, stocks)
}

func (h *Handler) storeConsumptions(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "storeId")
	if !ok {
		return
	}
	consumptions, err := h.consumptions.ListByStore(r.Context(), id)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, consumptions)
}

func (h *Handler) addStock(w http.ResponseWriter, r *http.Request) {
	var stock domain.Stock
	if err := json.NewDecoder(r.Body).Decode(&stock); err != nil {
		h.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	saved, err := h.stock.Add(r.Context(), stock)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, saved)
}

func (h *Handler) listStocks(w http.ResponseWriter, r *http.Request) {
	stocks, err := h.stock.List(r.Context())
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, stocks)
}

func (h *Handler) getStock(w http.ResponseWriter, r *http.Request) {
	storeID, ok := h.pathID(w, r, "storeId")
	if !ok {
		return
	}
	productID, ok := h.pathID(w, r, "productId")
	if !ok {
		return
	}
	stock, err := h.stock.Get(r.Context(), storeID, productID)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, stock)
}

type updateQuantityRequest struct {
	StoreID   int64 `json:"storeId"`
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

func (h *Handler) setStockQuantity(w http.ResponseWriter, r *http.Request) {
	var req updateQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	updated, err := h.stock.SetQuantity(r.Context(), req.StoreID, req.ProductID, req.Quantity)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, updated)
}

func (h *Handler) deleteStock(w http.ResponseWriter, r *http.Request) {
	storeID, ok := h.pathID(w, r, "storeId")
	if !ok {
		return
	}
	productID, ok := h.pathID(w, r, "productId")
	if !ok {
		return
	}
	if err := h.stock.Delete(r.Context(), storeID, productID); err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) recordConsumption(w http.ResponseWriter, r *http.Request) {
	var c domain.ProductConsumption
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		h.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	recorded, err := h.consumptions.Record(r.Context(), c)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, recorded)
}

func (h *Handler) listConsumptions(w http.ResponseWriter, r *http.Request) {
	consumptions, err := h.consumptions.List(r.Context())
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, consumptions)
}

func (h *Handler) getConsumption(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "consumptionId")
	if !ok {
		return
	}
	c, err := h.consumptions.Get(r.Context(), id)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, c)
}

func (h *Handler) deleteConsumption(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "consumptionId")
	if !ok {
		return
	}
	if err := h.consumptions.Delete(r.Context(), id); err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		h.writeError(w, r, http.StatusBadRequest, errors.New("invalid "+name))
		return 0, false
	}
	return id, true
}

type errorResponse struct {
	Timestamp time.Time `json:"timestamp"`
	Status    int       `json:"status"`
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	Path      string    `json:"path"`
}

func (h *Handler) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrStoreNotFound),
		errors.Is(err, domain.ErrStockNotFound),
		errors.Is(err, domain.ErrConsumptionNotFound),
		errors.Is(err, domain.ErrProductNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrStoreExists):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrInsufficientStock),
		errors.Is(err, domain.ErrNegativeQuantity):
		status = http.StatusUnprocessableEntity
	}
	h.writeError(w, r, status, err)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	if status >= http.StatusInternalServerError {
		h.log.Error("request failed", "path", r.URL.Path, "err", err)
	}
	h.writeJSON(w, status, errorResponse{
		Timestamp: time.Now().UTC(),
		Status:    status,
		Error:     http.StatusText(status),
		Message:   err.Error(),
		Path:      r.URL.Path,
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Error("response encode failed", "err", err)
	}
}
