package api

import (
	"os"
	"strings"

	"github.com/gin-gonic/gin"

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

// Handler bundles every engine the HTTP surface dispatches to. No business
// logic lives in the handler methods themselves — each maps 1:1 onto a
// component operation.
type Handler struct {
	gw      ledger.Gateway
	objects objectstore.Gateway
	admin   ledger.Signer

	store   *store.Store
	regs    *inspectors.Registry
	ver     *verification.Engine
	res     *resolution.Engine
	bty     *bounty.Engine
	adt     *audit.Engine
	pub     *publication.Engine

	db  *db.Store
	hub *Hub
}

type Deps struct {
	Gateway    ledger.Gateway
	Objects    objectstore.Gateway
	Admin      ledger.Signer
	Store      *store.Store
	Inspectors *inspectors.Registry
	Ver        *verification.Engine
	Res        *resolution.Engine
	Bounty     *bounty.Engine
	Audit      *audit.Engine
	Publication *publication.Engine
	DB         *db.Store
	Hub        *Hub
}

func NewHandler(d Deps) *Handler {
	return &Handler{
		gw:      d.Gateway,
		objects: d.Objects,
		admin:   d.Admin,
		store:   d.Store,
		regs:    d.Inspectors,
		ver:     d.Ver,
		res:     d.Res,
		bty:     d.Bounty,
		adt:     d.Audit,
		pub:     d.Publication,
		db:      d.DB,
		hub:     d.Hub,
	}
}

// SetupRouter wires the CORS-then-auth-then-ratelimit middleware chain onto
// the evidence-coordination surface.
func SetupRouter(h *Handler) *gin.Engine {
	r := gin.Default()

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if allowedOrigins == "" || allowedOrigins == "*" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		} else {
			for _, allowed := range strings.Split(allowedOrigins, ",") {
				if strings.TrimSpace(allowed) == origin {
					c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
					break
				}
			}
		}
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	pub := r.Group("/")
	{
		pub.GET("evidence/stream", h.hub.Subscribe)
		pub.GET("stake/info/:category", h.handleStakeInfo)
		pub.POST("wallet/create", h.handleWalletCreate)
		pub.GET("contract/transparency", h.handleTransparency)
	}

	protected := r.Group("/")
	protected.Use(AuthMiddleware())
	protected.Use(NewRateLimiter(60, 10).Middleware())
	{
		protected.POST("evidence/submit", h.handleSubmitEvidence)
		protected.GET("evidence/:id", h.handleGetEvidence)

		protected.POST("verification/register-inspector", h.handleRegisterInspector)
		protected.POST("verification/begin", h.handleBeginVerification)
		protected.POST("verification/commit", h.handleCommit)
		protected.POST("verification/advance-to-reveal", h.handleAdvanceToReveal)
		protected.POST("verification/reveal", h.handleReveal)
		protected.POST("verification/finalize", h.handleFinalize)
		protected.GET("verification/status/:id", h.handleVerificationStatus)

		protected.POST("resolution/resolve", h.handleResolve)
		protected.POST("bounty/process/:id", h.handleBountyProcess)
		protected.POST("audit/publish", h.handleAuditPublish)
		protected.POST("publication/publish/:id", h.handlePublicationPublish)
		protected.POST("publication/schedule/:id", h.handlePublicationSchedule)
		protected.POST("publication/cancel/:id", h.handlePublicationCancel)

		protected.GET("submissions", h.handleListSubmissions)
		protected.GET("submissions/:id", h.handleGetEvidence)
		protected.GET("audit/:id", h.handleGetAudit)
		protected.GET("bounty/:id", h.handleGetBounty)
		protected.GET("publication/:id", h.handleGetPublication)
	}

	return r
}
