package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"github.com/tbros/daraja-gobackend/internal/config"
	"github.com/tbros/daraja-gobackend/internal/db"
	"github.com/tbros/daraja-gobackend/internal/handlers"
	"github.com/tbros/daraja-gobackend/internal/services"
)

func main() {
	// Load .env
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: Error loading .env: %s", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Connect to MongoDB
	client, err := db.Connect(context.Background(), cfg.MongoURI)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := client.Disconnect(ctx); err != nil {
			log.Printf("Error disconnecting from MongoDB: %v", err)
		}
	}()

	database := client.Database("darajadb")
	store := db.NewEntryStore(database)
	if err := store.EnsureIndexes(context.Background()); err != nil {
		log.Printf("Warning: %v", err)
	}

	darajaService := services.NewDarajaService(&cfg.Mpesa, store)
	mpesaHandler := handlers.NewMpesaHandler(darajaService)

	// Set up router
	router := mux.NewRouter()
	router.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods("GET", "HEAD")

	api := router.PathPrefix("/mobile-money").Subrouter()
	api.HandleFunc("/token", mpesaHandler.GetAccessToken).Methods("GET")
	api.HandleFunc("/register-url", mpesaHandler.RegisterURL).Methods("GET")
	api.HandleFunc("/simulate-c2b", mpesaHandler.SimulateC2B).Methods("POST")
	api.HandleFunc("/b2c-transaction", mpesaHandler.PerformB2C).Methods("POST")
	api.HandleFunc("/check-account-balance", mpesaHandler.CheckAccountBalance).Methods("GET")
	api.HandleFunc("/simulate-transaction-result", mpesaHandler.TransactionStatus).Methods("POST")
	api.HandleFunc("/stk-transaction-request", mpesaHandler.StkPush).Methods("POST")
	api.HandleFunc("/query-lnm-request", mpesaHandler.LNMQuery).Methods("POST")
	api.HandleFunc("/transaction/{transactionID}", mpesaHandler.GetTransaction).Methods("GET")

	// Callback endpoints consumed by the gateway
	api.HandleFunc("/validation", mpesaHandler.Validation).Methods("POST")
	api.HandleFunc("/transaction-result", mpesaHandler.B2CResult).Methods("POST")
	api.HandleFunc("/b2c-queue-timeout", mpesaHandler.QueueTimeout).Methods("POST")
	api.HandleFunc("/stk-transaction-result", mpesaHandler.StkResult).Methods("POST")

	// Start server
	server := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	log.Printf("Server running on port %s", cfg.Port)
	log.Fatal(server.ListenAndServe())
}
