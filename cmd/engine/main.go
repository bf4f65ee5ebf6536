package main

import (
	"log"
	"os"
	"strconv"

	"github.com/whistlechain/coordinator/internal/api"
	"github.com/whistlechain/coordinator/internal/audit"
	"github.com/whistlechain/coordinator/internal/bounty"
	"github.com/whistlechain/coordinator/internal/db"
	"github.com/whistlechain/coordinator/internal/inspectors"
	"github.com/whistlechain/coordinator/internal/ledger"
	"github.com/whistlechain/coordinator/internal/objectstore"
	"github.com/whistlechain/coordinator/internal/publication"
	"github.com/whistlechain/coordinator/internal/resolution"
	"github.com/whistlechain/coordinator/internal/store"
	"github.com/whistlechain/coordinator/internal/verification"
	"github.com/whistlechain/coordinator/internal/wallet"
)

func main() {
	log.Println("Starting the evidence registry coordinator...")

	// ─── Required Environment Variables ─────────────────────────────────
	// All credentials MUST come from environment variables. No fallback
	// defaults for security-sensitive values.
	// ────────────────────────────────────────────────────────────────────

	appID, err := strconv.ParseUint(requireEnv("EVIDENCE_REGISTRY_APP_ID"), 10, 64)
	if err != nil {
		log.Fatalf("FATAL: EVIDENCE_REGISTRY_APP_ID must be a positive integer: %v", err)
	}

	gw, err := ledger.NewClient(ledger.Config{
		Server: getEnvOrDefault("ALGOD_SERVER", "http://localhost"),
		Token:  os.Getenv("ALGOD_TOKEN"),
		Port:   envInt("ALGOD_PORT", 4001),
		AppID:  appID,
	})
	if err != nil {
		log.Fatalf("FATAL: failed to connect to algod: %v", err)
	}

	admin, err := adminSigner()
	if err != nil {
		log.Fatalf("FATAL: failed to derive admin signer: %v", err)
	}

	var dbConn *db.Store
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		dbConn, err = db.Connect(dsn)
		if err != nil {
			log.Printf("Warning: failed to connect to PostgreSQL, continuing without mirroring lifecycle records. Error: %v", err)
		} else {
			defer dbConn.Close()
			if err := dbConn.InitSchema(); err != nil {
				log.Printf("Warning: DB schema init failed: %v", err)
			}
		}
	} else {
		log.Println("DATABASE_URL not set — running without the Postgres mirror")
	}

	objects := objectstore.NewFromEnv(os.Getenv("PINATA_JWT"))

	evidenceStore := store.New()
	registry := inspectors.New()

	hub := api.NewHub()
	go hub.Run()

	verEngine := verification.New(gw, registry, evidenceStore)
	resEngine := resolution.New(gw, evidenceStore, verEngine)
	btyEngine := bounty.New(resEngine, evidenceStore, bounty.LoggingDisburser{})
	adtEngine := audit.New(gw, evidenceStore, verEngine, resEngine, hubBroadcaster{hub})
	pubEngine := publication.New(publication.DefaultConnectors())

	handler := api.NewHandler(api.Deps{
		Gateway:     gw,
		Objects:     objects,
		Admin:       admin,
		Store:       evidenceStore,
		Inspectors:  registry,
		Ver:         verEngine,
		Res:         resEngine,
		Bounty:      btyEngine,
		Audit:       adtEngine,
		Publication: pubEngine,
		DB:          dbConn,
		Hub:         hub,
	})
	router := api.SetupRouter(handler)

	port := getEnvOrDefault("PORT", "5339")
	log.Printf("Coordinator listening on :%s (app id %d)\n", port, appID)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// hubBroadcaster satisfies audit.Broadcaster by forwarding to the websocket
// hub.
type hubBroadcaster struct{ hub *api.Hub }

func (b hubBroadcaster) Broadcast(event string, payload any) { b.hub.BroadcastEvent(event, payload) }

// adminSigner derives the coordinator's admin account, which signs every
// admin-initiated application call (begin verification, finalize, resolve,
// publish), from DEPLOYER_MNEMONIC when it is set; otherwise it generates an
// ephemeral wallet. ADMIN_PRIVATE_KEY only triggers a warning; it is not loaded.
func adminSigner() (ledger.Signer, error) {
	if phrase := os.Getenv("DEPLOYER_MNEMONIC"); phrase != "" {
		return wallet.FromMnemonic(phrase)
	}
	if os.Getenv("ADMIN_PRIVATE_KEY") != "" {
		log.Println("Warning: ADMIN_PRIVATE_KEY is set but raw-seed loading isn't wired; falling back to a fresh wallet")
	}
	log.Println("Warning: no DEPLOYER_MNEMONIC set, generating an ephemeral admin wallet for this run")
	return wallet.New()
}

// requireEnv reads a required environment variable and exits if it is not set.
// This prevents the binary from starting with missing critical configuration.
func requireEnv(key string) string {
	val := os.Getenv(key)
	if val == "" {
		log.Fatalf("FATAL: Required environment variable %s is not set. "+
			"Set it in the environment before starting the coordinator.", key)
	}
	return val
}

// getEnvOrDefault returns the env var value or a safe default for non-secret settings.
func getEnvOrDefault(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func envInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return n
}
