package main

import (
	"context"
	"database/sql"
	"encoding/gob"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/Dante110103/app-inventario/internal/cart"
	"github.com/Dante110103/app-inventario/internal/checkout"
	"github.com/Dante110103/app-inventario/internal/config"
	"github.com/Dante110103/app-inventario/internal/database"
	"github.com/Dante110103/app-inventario/internal/models"
	"github.com/Dante110103/app-inventario/internal/store"
	"github.com/gorilla/sessions"
	"github.com/shopspring/decimal"
)

const cartSessionKey = "ticket"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Load config: %v", err)
	}

	if _, err := os.Stat(cfg.Database.Path); os.IsNotExist(err) {
		log.Printf("Database not found, creating %s", cfg.Database.Path)
	}

	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		log.Fatalf("Connect to database: %v", err)
	}
	defer db.Close()

	if err := database.InitSchema(context.Background(), db); err != nil {
		log.Fatalf("Init schema: %v", err)
	}

	log.Printf("Database ready at %s", cfg.Database.Path)

	gob.Register([]cart.Line{})
	sessionStore := sessions.NewCookieStore([]byte(cfg.Session.Key))

	mux := http.NewServeMux()

	mux.HandleFunc("/products", handleProducts(db))
	mux.HandleFunc("/products/search", handleProductSearch(db))
	mux.HandleFunc("/products/reorder", handleReorder(db, cfg.Stock.LowThreshold))
	mux.HandleFunc("/products/", handleProductByID(db))
	mux.HandleFunc("/services", handleServices(db))
	mux.HandleFunc("/services/", handleServiceByID(db))
	mux.HandleFunc("/streaming", handleStreaming(db))
	mux.HandleFunc("/streaming/", handleStreamingByID(db))
	mux.HandleFunc("/cart", handleCart(sessionStore, cfg.Session.Name))
	mux.HandleFunc("/cart/items", handleCartItems(db, sessionStore, cfg.Session.Name))
	mux.HandleFunc("/cart/items/", handleCartItemByPos(sessionStore, cfg.Session.Name))
	mux.HandleFunc("/cart/checkout", handleCheckout(db, sessionStore, cfg.Session.Name))
	mux.HandleFunc("/reports/today", handleReportsToday(db))
	mux.HandleFunc("/reports/history", handleReportsHistory(db))

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      mux,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	log.Printf("Server starting on port %s", cfg.Server.Port)
	if err := server.ListenAndServe(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func handleProducts(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		switch r.Method {
		case http.MethodPost:
			var req struct {
				Name    string  `json:"name"`
				Barcode string  `json:"barcode"`
				Price   float64 `json:"price"`
				Stock   int     `json:"stock"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				respondError(w, http.StatusBadRequest, "Invalid request body")
				return
			}

			product, err := store.CreateProduct(ctx, db, req.Name, req.Barcode, decimal.NewFromFloat(req.Price), req.Stock)
			if err != nil {
				respondError(w, statusFor(err), err.Error())
				return
			}

			respondJSON(w, http.StatusCreated, product)

		case http.MethodGet:
			products, err := store.ListProducts(ctx, db)
			if err != nil {
				respondError(w, http.StatusInternalServerError, err.Error())
				return
			}

			respondJSON(w, http.StatusOK, products)

		default:
			respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	}
}

func handleProductByID(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := strconv.ParseInt(r.URL.Path[len("/products/"):], 10, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid product ID")
			return
		}

		switch r.Method {
		case http.MethodGet:
			product, err := store.GetProduct(ctx, db, id)
			if err != nil {
				respondError(w, statusFor(err), err.Error())
				return
			}

			respondJSON(w, http.StatusOK, product)

		case http.MethodPut:
			var req struct {
				Name    string  `json:"name"`
				Barcode string  `json:"barcode"`
				Price   float64 `json:"price"`
				Stock   int     `json:"stock"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				respondError(w, http.StatusBadRequest, "Invalid request body")
				return
			}

			if err := store.UpdateProduct(ctx, db, id, req.Name, req.Barcode, decimal.NewFromFloat(req.Price), req.Stock); err != nil {
				respondError(w, statusFor(err), err.Error())
				return
			}

			product, err := store.GetProduct(ctx, db, id)
			if err != nil {
				respondError(w, statusFor(err), err.Error())
				return
			}

			respondJSON(w, http.StatusOK, product)

		case http.MethodDelete:
			if err := store.DeleteProduct(ctx, db, id); err != nil {
				respondError(w, http.StatusInternalServerError, err.Error())
				return
			}

			respondJSON(w, http.StatusOK, map[string]string{"message": "Product deleted"})

		default:
			respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	}
}

func handleProductSearch(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}

		products, err := store.SearchProducts(r.Context(), db, r.URL.Query().Get("q"))
		if err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}

		respondJSON(w, http.StatusOK, products)
	}
}

func handleReorder(db *sql.DB, threshold int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}

		products, err := store.LowStockProducts(r.Context(), db, threshold)
		if err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}

		respondJSON(w, http.StatusOK, products)
	}
}

func handleServices(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		switch r.Method {
		case http.MethodPost:
			var req struct {
				Name string `json:"name"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				respondError(w, http.StatusBadRequest, "Invalid request body")
				return
			}

			service, err := store.CreateService(ctx, db, req.Name)
			if err != nil {
				respondError(w, statusFor(err), err.Error())
				return
			}

			respondJSON(w, http.StatusCreated, service)

		case http.MethodGet:
			services, err := store.ListServices(ctx, db)
			if err != nil {
				respondError(w, http.StatusInternalServerError, err.Error())
				return
			}

			respondJSON(w, http.StatusOK, services)

		default:
			respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	}
}

func handleServiceByID(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := strconv.ParseInt(r.URL.Path[len("/services/"):], 10, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid service ID")
			return
		}

		switch r.Method {
		case http.MethodGet:
			service, err := store.GetService(ctx, db, id)
			if err != nil {
				respondError(w, statusFor(err), err.Error())
				return
			}

			respondJSON(w, http.StatusOK, service)

		case http.MethodPut:
			var req struct {
				Name string `json:"name"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				respondError(w, http.StatusBadRequest, "Invalid request body")
				return
			}

			if err := store.UpdateService(ctx, db, id, req.Name); err != nil {
				respondError(w, statusFor(err), err.Error())
				return
			}

			service, err := store.GetService(ctx, db, id)
			if err != nil {
				respondError(w, statusFor(err), err.Error())
				return
			}

			respondJSON(w, http.StatusOK, service)

		case http.MethodDelete:
			if err := store.DeleteService(ctx, db, id); err != nil {
				respondError(w, http.StatusInternalServerError, err.Error())
				return
			}

			respondJSON(w, http.StatusOK, map[string]string{"message": "Service deleted"})

		default:
			respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	}
}

func handleStreaming(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		switch r.Method {
		case http.MethodPost:
			var req struct {
				Name         string  `json:"name"`
				MonthlyPrice float64 `json:"monthly_price"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				respondError(w, http.StatusBadRequest, "Invalid request body")
				return
			}

			account, err := store.CreateStreamingAccount(ctx, db, req.Name, decimal.NewFromFloat(req.MonthlyPrice))
			if err != nil {
				respondError(w, statusFor(err), err.Error())
				return
			}

			respondJSON(w, http.StatusCreated, account)

		case http.MethodGet:
			accounts, err := store.ListStreamingAccounts(ctx, db)
			if err != nil {
				respondError(w, http.StatusInternalServerError, err.Error())
				return
			}

			respondJSON(w, http.StatusOK, accounts)

		default:
			respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	}
}

func handleStreamingByID(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := strconv.ParseInt(r.URL.Path[len("/streaming/"):], 10, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid streaming account ID")
			return
		}

		switch r.Method {
		case http.MethodGet:
			account, err := store.GetStreamingAccount(ctx, db, id)
			if err != nil {
				respondError(w, statusFor(err), err.Error())
				return
			}

			respondJSON(w, http.StatusOK, account)

		case http.MethodPut:
			var req struct {
				Name         string  `json:"name"`
				MonthlyPrice float64 `json:"monthly_price"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				respondError(w, http.StatusBadRequest, "Invalid request body")
				return
			}

			if err := store.UpdateStreamingAccount(ctx, db, id, req.Name, decimal.NewFromFloat(req.MonthlyPrice)); err != nil {
				respondError(w, statusFor(err), err.Error())
				return
			}

			account, err := store.GetStreamingAccount(ctx, db, id)
			if err != nil {
				respondError(w, statusFor(err), err.Error())
				return
			}

			respondJSON(w, http.StatusOK, account)

		case http.MethodDelete:
			if err := store.DeleteStreamingAccount(ctx, db, id); err != nil {
				respondError(w, http.StatusInternalServerError, err.Error())
				return
			}

			respondJSON(w, http.StatusOK, map[string]string{"message": "Streaming account deleted"})

		default:
			respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	}
}

func handleCart(sessionStore sessions.Store, sessionName string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ticket := loadCart(r, sessionStore, sessionName)

		switch r.Method {
		case http.MethodGet:
			respondJSON(w, http.StatusOK, cartView(ticket))

		case http.MethodDelete:
			ticket.Clear()
			if err := saveCart(w, r, session, ticket); err != nil {
				respondError(w, http.StatusInternalServerError, err.Error())
				return
			}

			respondJSON(w, http.StatusOK, map[string]string{"message": "Ticket cleared"})

		default:
			respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	}
}

func handleCartItems(db *sql.DB, sessionStore sessions.Store, sessionName string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}

		var req struct {
			Kind     string  `json:"kind"`
			ID       int64   `json:"id"`
			Quantity int     `json:"quantity"`
			Value    float64 `json:"value"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		kind := models.Kind(req.Kind)
		catalog, ok := store.CatalogFor(kind)
		if !ok {
			respondError(w, http.StatusBadRequest, "Unknown item kind")
			return
		}

		session, ticket := loadCart(r, sessionStore, sessionName)

		entry, err := catalog.Lookup(r.Context(), db, req.ID)
		if err != nil {
			if errors.Is(err, database.ErrNotFound) {
				// The item vanished from the catalog since the page was
				// rendered; a correctable input, not a fault.
				respondJSON(w, http.StatusOK, map[string]string{"message": "Item no longer exists, nothing added"})
				return
			}
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}

		switch kind {
		case models.KindProduct:
			err = ticket.AddProduct(entry.ID, entry.Name, entry.UnitPrice, req.Quantity)
		case models.KindService:
			err = ticket.AddService(entry.ID, entry.Name, decimal.NewFromFloat(req.Value))
		case models.KindStreaming:
			ticket.AddStreaming(entry.ID, entry.Name, entry.UnitPrice)
		}
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}

		if err := saveCart(w, r, session, ticket); err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}

		respondJSON(w, http.StatusOK, cartView(ticket))
	}
}

func handleCartItemByPos(sessionStore sessions.Store, sessionName string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}

		position, err := strconv.Atoi(r.URL.Path[len("/cart/items/"):])
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid line position")
			return
		}

		session, ticket := loadCart(r, sessionStore, sessionName)

		removed, err := ticket.RemoveLine(position)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}

		if err := saveCart(w, r, session, ticket); err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}

		respondJSON(w, http.StatusOK, map[string]interface{}{
			"message": "Removed '" + removed.Name + "' from the ticket",
			"cart":    cartView(ticket),
		})
	}
}

func handleCheckout(db *sql.DB, sessionStore sessions.Store, sessionName string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}

		session, ticket := loadCart(r, sessionStore, sessionName)

		results := checkout.Commit(r.Context(), db, ticket)

		if err := saveCart(w, r, session, ticket); err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}

		respondJSON(w, http.StatusOK, map[string]interface{}{"results": results})
	}
}

func handleReportsToday(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}

		ctx := r.Context()
		report := make(map[string]interface{})
		grandTotal := decimal.Zero

		for _, kind := range []models.Kind{models.KindProduct, models.KindService, models.KindStreaming} {
			rows, err := store.SalesToday(ctx, db, kind)
			if err != nil {
				respondError(w, http.StatusInternalServerError, err.Error())
				return
			}

			total := store.SumAmounts(rows)
			grandTotal = grandTotal.Add(total)
			report[string(kind)] = map[string]interface{}{"sales": rows, "total": total}
		}

		report["grand_total"] = grandTotal
		respondJSON(w, http.StatusOK, report)
	}
}

func handleReportsHistory(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}

		totals, err := store.DailyHistoryTotals(r.Context(), db)
		if err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}

		respondJSON(w, http.StatusOK, totals)
	}
}

func loadCart(r *http.Request, sessionStore sessions.Store, sessionName string) (*sessions.Session, *cart.Cart) {
	// A tampered or stale cookie just yields a fresh session.
	session, _ := sessionStore.Get(r, sessionName)

	if lines, ok := session.Values[cartSessionKey].([]cart.Line); ok {
		return session, &cart.Cart{Lines: lines}
	}
	return session, cart.New()
}

func saveCart(w http.ResponseWriter, r *http.Request, session *sessions.Session, ticket *cart.Cart) error {
	session.Values[cartSessionKey] = ticket.Lines
	return session.Save(r, w)
}

func cartView(ticket *cart.Cart) map[string]interface{} {
	return map[string]interface{}{
		"lines": ticket.Lines,
		"total": ticket.Total(),
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, database.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, database.ErrDuplicateKey):
		return http.StatusConflict
	case errors.Is(err, database.ErrInsufficientStock):
		return http.StatusConflict
	case errors.Is(err, database.ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
