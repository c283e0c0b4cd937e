package slip

import (
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"aidanwoods.dev/go-paseto"
	jsoniter "github.com/json-iterator/go"
	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/AntonStoeckl/library-lending-engine/lending/shared/core"
)

const (
	tokenIssuer   = "library-lending-engine"
	tokenAudience = "library-desk"
	tokenIDPrefix = "slip"

	// SlipTypeBorrow marks slips handed out when a book is borrowed.
	SlipTypeBorrow = "borrow"

	keyBytesSize = 32
	keyHexSize   = 64
)

const (
	claimLoanID     = "loan_id"
	claimBookID     = "book_id"
	claimBorrowerID = "borrower_id"
	claimType       = "type"
)

var (
	// ErrInvalidKey is returned when the symmetric key is not 32 bytes of hex.
	ErrInvalidKey = errors.New("claim token key must be 64 hex characters")

	// ErrIssuingClaimFailed is returned when a claim token could not be created.
	ErrIssuingClaimFailed = errors.New("issuing claim token failed")

	// ErrInvalidClaim is returned for tokens that cannot be decrypted, are expired or were not issued by us.
	ErrInvalidClaim = errors.New("invalid claim token")
)

// Claim is what a verified claim token says about its loan.
type Claim struct {
	TokenID    string
	LoanID     core.LoanIDString
	BookID     core.BookIDString
	BorrowerID core.MemberIDString
	ExpiresAt  time.Time
}

// Artifact is the human-presentable slip content handed to the PDF and QR renderer.
type Artifact struct {
	Type       string    `json:"type"`
	LoanID     string    `json:"loanId"`
	BookID     string    `json:"bookId"`
	BorrowerID string    `json:"borrowerId"`
	DueDate    time.Time `json:"dueDate"`
	Token      string    `json:"token"`
}

// Issuer creates and verifies PASETO v4.local claim tokens for loans.
// A token expires grace after the loan's due date.
type Issuer struct {
	key   paseto.V4SymmetricKey
	grace time.Duration
	now   func() time.Time
}

// Option configures an Issuer.
type Option func(*Issuer)

// WithClock sets the time source, used for issued-at and for verification.
func WithClock(now func() time.Time) Option {
	return func(i *Issuer) {
		i.now = now
	}
}

// NewIssuer creates an Issuer from a 32-byte key given as 64 hex characters.
func NewIssuer(keyHex string, grace time.Duration, opts ...Option) (*Issuer, error) {
	if len(keyHex) != keyHexSize {
		return nil, fmt.Errorf("%w: got %d characters", ErrInvalidKey, len(keyHex))
	}

	keyBytes, err := hex.DecodeString(keyHex)
	if err != nil {
		return nil, errors.Join(ErrInvalidKey, err)
	}

	if len(keyBytes) != keyBytesSize {
		return nil, fmt.Errorf("%w: decoded to %d bytes", ErrInvalidKey, len(keyBytes))
	}

	key, err := paseto.V4SymmetricKeyFromBytes(keyBytes)
	if err != nil {
		return nil, errors.Join(ErrInvalidKey, err)
	}

	issuer := &Issuer{
		key:   key,
		grace: grace,
		now:   time.Now,
	}

	for _, opt := range opts {
		opt(issuer)
	}

	return issuer, nil
}

// IssueClaim returns an encrypted claim token for the loan. The subject is the LoanID.
func (i *Issuer) IssueClaim(loan core.Loan) (string, error) {
	now := i.now()

	tokenID, err := gonanoid.New()
	if err != nil {
		return "", errors.Join(ErrIssuingClaimFailed, err)
	}

	token := paseto.NewToken()
	token.SetIssuer(tokenIssuer)
	token.SetAudience(tokenAudience)
	token.SetSubject(loan.LoanID)
	token.SetJti(tokenIDPrefix + "-" + tokenID)
	token.SetIssuedAt(now)
	token.SetNotBefore(now)
	token.SetExpiration(loan.DueDate.Add(i.grace))

	for claim, value := range map[string]string{
		claimLoanID:     loan.LoanID,
		claimBookID:     loan.BookID,
		claimBorrowerID: loan.BorrowerID,
		claimType:       SlipTypeBorrow,
	} {
		if err = token.Set(claim, value); err != nil {
			return "", errors.Join(ErrIssuingClaimFailed, err)
		}
	}

	return token.V4Encrypt(i.key, nil), nil
}

// VerifyClaim decrypts the token and checks issuer, audience and validity at the current time.
func (i *Issuer) VerifyClaim(claimToken string) (Claim, error) {
	parser := paseto.NewParserWithoutExpiryCheck()
	parser.AddRule(paseto.ForAudience(tokenAudience))
	parser.AddRule(paseto.IssuedBy(tokenIssuer))
	parser.AddRule(paseto.ValidAt(i.now()))

	token, err := parser.ParseV4Local(i.key, claimToken, nil)
	if err != nil {
		return Claim{}, errors.Join(ErrInvalidClaim, err)
	}

	var claim Claim

	if claim.TokenID, err = token.GetJti(); err != nil {
		return Claim{}, errors.Join(ErrInvalidClaim, err)
	}

	if claim.LoanID, err = token.GetString(claimLoanID); err != nil {
		return Claim{}, errors.Join(ErrInvalidClaim, err)
	}

	if claim.BookID, err = token.GetString(claimBookID); err != nil {
		return Claim{}, errors.Join(ErrInvalidClaim, err)
	}

	if claim.BorrowerID, err = token.GetString(claimBorrowerID); err != nil {
		return Claim{}, errors.Join(ErrInvalidClaim, err)
	}

	if claim.ExpiresAt, err = token.GetExpiration(); err != nil {
		return Claim{}, errors.Join(ErrInvalidClaim, err)
	}

	return claim, nil
}

// Artifact returns the slip content for the renderer as JSON.
func (i *Issuer) Artifact(loan core.Loan, claimToken string) ([]byte, error) {
	return jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(Artifact{
		Type:       SlipTypeBorrow,
		LoanID:     loan.LoanID,
		BookID:     loan.BookID,
		BorrowerID: loan.BorrowerID,
		DueDate:    loan.DueDate,
		Token:      claimToken,
	})
}
