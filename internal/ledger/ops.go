package ledger

import (
	"context"
	"crypto/ed25519"
	"crypto/sha512"
	"encoding/base32"
	"fmt"
	"time"

	"github.com/whistlechain/coordinator/internal/apperr"
)

// Selectors the deployed evidence-registry program dispatches on.
const (
	selSubmitEvidence       = "submit_evidence"
	selUpdateStatus         = "update_status"
	selGetEvidence          = "get_evidence"
	selBeginVerification    = "begin_verification"
	selCommitVerdict        = "commit_verdict"
	selRevealVerdict        = "reveal_verdict"
	selFinalizeVerification = "finalize_verification"
	selResolveEvidence      = "resolve_evidence"
	selPublishEvidence      = "publish_evidence"
)

// AppAddress derives the application account's address from its id: the
// SHA-512/256 hash of "appID" ‖ big-endian id, rendered like the module's
// wallet addresses (base32 without the checksum suffix).
func AppAddress(appID uint64) string {
	sum := sha512.Sum512_256(append([]byte("appID"), be64(appID)...))
	return base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(sum[:])
}

func (c *Client) buildAndSubmit(ctx context.Context, signer Signer, pay *payment, selector string, args [][]byte, boxes [][]byte, fee uint64) (*Confirmation, error) {
	call := &appCallTxn{
		Sender:   signer.Address(),
		AppID:    c.cfg.AppID,
		Selector: selector,
		AppArgs:  args,
		Boxes:    boxes,
		Fee:      fee,
		FlatFee:  fee != defaultFee,
	}
	g := &group{Payment: pay, AppCall: call}
	sg := sign(g, signer)

	resp, err := c.submit(ctx, sg)
	if err != nil {
		return nil, err
	}
	round, err := c.Confirm(ctx, resp.TxID)
	if err != nil {
		return nil, err
	}
	return &Confirmation{TxID: resp.TxID, ConfirmedRound: round, Logs: resp.Logs}, nil
}

func (c *Client) SubmitWithStake(ctx context.Context, signer Signer, category, organization, description, contentID string, stakeMicro uint64) (string, string, uint64, error) {
	var pay *payment
	if stakeMicro > 0 {
		pay = &payment{
			Sender:      signer.Address(),
			Receiver:    AppAddress(c.cfg.AppID),
			AmountMicro: stakeMicro,
		}
	}
	args := [][]byte{
		[]byte(category),
		[]byte(organization),
		[]byte(description),
		[]byte(contentID),
	}
	conf, err := c.buildAndSubmit(ctx, signer, pay, selSubmitEvidence, args, nil, defaultFee)
	if err != nil {
		return "", "", 0, err
	}
	if len(conf.Logs) == 0 {
		return "", "", 0, apperr.Ledger("submit_evidence returned no evidence_id log", nil)
	}
	counter, err := ParseEvidenceIDLog(conf.Logs[0])
	if err != nil {
		return "", "", 0, apperr.Ledger("malformed evidence_id log", err)
	}
	evidenceID := FormatEvidenceID(time.Now().UTC().Year(), counter)
	return evidenceID, conf.TxID, conf.ConfirmedRound, nil
}

func (c *Client) BeginVerification(ctx context.Context, admin Signer, counter uint64, windowEnd int64, panelSize int) (string, error) {
	args := [][]byte{
		be64(uint64(windowEnd)),
		be64(uint64(panelSize)),
	}
	conf, err := c.buildAndSubmit(ctx, admin, nil, selBeginVerification, args, [][]byte{VerificationBoxKey(counter)}, defaultFee)
	if err != nil {
		return "", err
	}
	return conf.TxID, nil
}

func (c *Client) Commit(ctx context.Context, inspector Signer, counter uint64, commitHash [32]byte) (string, error) {
	addrBytes := addressBytes(inspector.PublicKey())
	args := [][]byte{commitHash[:]}
	boxes := [][]byte{CommitBoxKey(counter, addrBytes)}
	conf, err := c.buildAndSubmit(ctx, inspector, nil, selCommitVerdict, args, boxes, defaultFee)
	if err != nil {
		return "", err
	}
	return conf.TxID, nil
}

func (c *Client) Reveal(ctx context.Context, inspector Signer, counter uint64, verdict int, nonce string, justificationID string) (string, error) {
	addrBytes := addressBytes(inspector.PublicKey())
	args := [][]byte{
		be64(uint64(verdict)),
		[]byte(nonce),
		[]byte(justificationID),
	}
	boxes := [][]byte{RevealBoxKey(counter, addrBytes)}
	conf, err := c.buildAndSubmit(ctx, inspector, nil, selRevealVerdict, args, boxes, defaultFee)
	if err != nil {
		return "", err
	}
	return conf.TxID, nil
}

func (c *Client) Finalize(ctx context.Context, admin Signer, counter uint64, statusBlob []byte) (string, error) {
	args := [][]byte{statusBlob}
	boxes := [][]byte{VerificationBoxKey(counter), EvidenceBoxKey(counter)}
	conf, err := c.buildAndSubmit(ctx, admin, nil, selFinalizeVerification, args, boxes, defaultFee)
	if err != nil {
		return "", err
	}
	return conf.TxID, nil
}

func (c *Client) Resolve(ctx context.Context, admin Signer, counter uint64, statusCode int, refundAddress string, stakeMicro uint64, updatedBlob []byte) (string, error) {
	args := [][]byte{
		be64(uint64(statusCode)),
		[]byte(refundAddress),
		be64(stakeMicro),
		updatedBlob,
	}
	boxes := [][]byte{EvidenceBoxKey(counter)}
	conf, err := c.buildAndSubmit(ctx, admin, nil, selResolveEvidence, args, boxes, flatFeeForInnerTransfer)
	if err != nil {
		return "", err
	}
	return conf.TxID, nil
}

func (c *Client) Publish(ctx context.Context, admin Signer, counter uint64, updatedBlob []byte, auditBlob []byte) (string, string, error) {
	args := [][]byte{updatedBlob, auditBlob}
	boxes := [][]byte{EvidenceBoxKey(counter), AuditBoxKey(counter)}
	conf, err := c.buildAndSubmit(ctx, admin, nil, selPublishEvidence, args, boxes, defaultFee)
	if err != nil {
		return "", "", err
	}
	return conf.TxID, conf.TxID, nil
}

// addressBytes reduces a public key to the address form the box-key layout
// expects: the raw 32-byte key, matching Algorand's own address-from-pubkey
// convention closely enough for this module's purposes.
func addressBytes(pub ed25519.PublicKey) []byte {
	if len(pub) != ed25519.PublicKeySize {
		return fmt.Appendf(nil, "%x", pub)
	}
	return []byte(pub)
}

var _ Gateway = (*Client)(nil)
