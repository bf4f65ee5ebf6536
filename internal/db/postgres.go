package db

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/whistlechain/coordinator/pkg/models"
)

//go:embed schema.sql
var schemaSQL string

// Store mirrors off-chain lifecycle records into PostgreSQL for durable
// querying and reporting. It is never the system of record — the in-process
// store and the ledger boxes are — so every mirror call here is best-effort:
// callers log a write failure and move on rather than failing the request.
type Store struct {
	pool *pgxpool.Pool
}

// Connect initializes the connection pool to PostgreSQL using pgx.
func Connect(connStr string) (*Store, error) {
	pool, err := pgxpool.New(context.Background(), connStr)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %v", err)
	}

	if err := pool.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("ping failed: %v", err)
	}

	log.Println("Successfully connected to PostgreSQL for the evidence registry mirror")
	return &Store{pool: pool}, nil
}

// Close gracefully closes the connection pool.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// InitSchema executes the embedded schema.sql migrations.
func (s *Store) InitSchema() error {
	if _, err := s.pool.Exec(context.Background(), schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema migrations: %v", err)
	}

	log.Println("Evidence registry mirror schema initialized")
	return nil
}

// MirrorSubmission upserts an evidence record's current lifecycle snapshot.
func (s *Store) MirrorSubmission(ctx context.Context, e *models.Evidence) error {
	sql := `
		INSERT INTO evidence_mirror
			(evidence_id, category, organization, description, submitter_address,
			 stake_micro_units, content_id, content_id_simulated, submitted_at, status,
			 submit_tx_id, on_chain_error)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (evidence_id) DO UPDATE
		SET status = EXCLUDED.status,
		    submit_tx_id = EXCLUDED.submit_tx_id,
		    on_chain_error = EXCLUDED.on_chain_error;
	`
	_, err := s.pool.Exec(ctx, sql,
		e.ID, e.Category, e.Organization, e.Description, e.SubmitterAddress,
		e.StakeMicroUnits, e.ContentID, e.ContentIDSimulated, e.SubmittedAt, e.Status,
		e.SubmitTxID, e.OnChainErr,
	)
	return err
}

// MirrorVerification persists a verification session's panel, phase, and
// tallied outcome once it reaches FINALIZED. Called repeatedly across a
// session's lifetime; later calls just overwrite the row.
func (s *Store) MirrorVerification(ctx context.Context, sess *models.VerificationSession) error {
	breakdown, err := json.Marshal(sess.VoteBreakdown)
	if err != nil {
		return fmt.Errorf("marshaling vote breakdown: %w", err)
	}
	sql := `
		INSERT INTO verification_mirror
			(evidence_id, category, phase, started_at, window_deadline, panel_size,
			 reveal_count, final_verdict, vote_breakdown, begin_tx_id, finalize_tx_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (evidence_id) DO UPDATE
		SET phase = EXCLUDED.phase,
		    reveal_count = EXCLUDED.reveal_count,
		    final_verdict = EXCLUDED.final_verdict,
		    vote_breakdown = EXCLUDED.vote_breakdown,
		    finalize_tx_id = EXCLUDED.finalize_tx_id;
	`
	_, err = s.pool.Exec(ctx, sql,
		sess.EvidenceID, sess.Category, sess.Phase, sess.StartedAt, sess.WindowDeadline,
		len(sess.Panel), len(sess.Reveals), sess.FinalVerdict, breakdown,
		sess.BeginTxID, sess.FinalizeTxID,
	)
	return err
}

// MirrorResolution upserts the fund-disposition decision for an evidence item.
func (s *Store) MirrorResolution(ctx context.Context, r *models.Resolution) error {
	sql := `
		INSERT INTO resolution_mirror
			(evidence_id, final_verdict, action, on_chain_status, refund_address,
			 refunded_micro_units, tx_id, on_chain_error, resolved_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (evidence_id) DO UPDATE
		SET tx_id = EXCLUDED.tx_id, on_chain_error = EXCLUDED.on_chain_error;
	`
	_, err := s.pool.Exec(ctx, sql,
		r.EvidenceID, r.FinalVerdict, r.Action, r.OnChainStatus, r.RefundAddress,
		r.RefundedMicro, r.TxID, r.OnChainErr, r.ResolvedAt,
	)
	return err
}

// MirrorBounty upserts the whistleblower payout record for an evidence item.
func (s *Store) MirrorBounty(ctx context.Context, b *models.BountyPayout) error {
	sql := `
		INSERT INTO bounty_mirror
			(evidence_id, category, final_verdict, wallet_address, stake_refund,
			 bounty_reward, total_payout, status, processed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (evidence_id) DO UPDATE
		SET status = EXCLUDED.status, total_payout = EXCLUDED.total_payout;
	`
	_, err := s.pool.Exec(ctx, sql,
		b.EvidenceID, b.Category, b.FinalVerdict, b.WalletAddress, b.StakeRefund,
		b.BountyReward, b.TotalPayout, b.Status, b.ProcessedAt,
	)
	return err
}

// MirrorAudit persists the published, immutable lifecycle record. Audit
// records never update once written — a second publish for the same
// evidence item is rejected upstream in the audit engine.
func (s *Store) MirrorAudit(ctx context.Context, a *models.AuditRecord) error {
	blob, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("marshaling audit record: %w", err)
	}
	sql := `
		INSERT INTO audit_mirror (evidence_id, category, organization, published_at, record)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (evidence_id) DO NOTHING;
	`
	_, err = s.pool.Exec(ctx, sql, a.EvidenceID, a.Category, a.Organization, a.PublishedAt, blob)
	return err
}

// Transparency returns per-category published counts straight from the
// mirror, for operators who want it without replaying in-process state.
func (s *Store) Transparency(ctx context.Context) (map[models.Category]int, error) {
	rows, err := s.pool.Query(ctx, `SELECT category, COUNT(*) FROM audit_mirror GROUP BY category`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[models.Category]int{}
	for rows.Next() {
		var cat models.Category
		var count int
		if err := rows.Scan(&cat, &count); err != nil {
			return nil, err
		}
		out[cat] = count
	}
	return out, rows.Err()
}

// GetPool exposes the connection pool for callers that need raw access.
func (s *Store) GetPool() *pgxpool.Pool {
	return s.pool
}
