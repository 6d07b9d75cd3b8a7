package validator

import (
	"errors"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidAddress         = errors.New("invalid wallet address")
	ErrInvalidAmount          = errors.New("invalid amount")
	ErrInvalidTransactionHash = errors.New("invalid transaction hash")
	ErrInvalidReferralCode    = errors.New("invalid referral code")
)

var (
	// Stellar ed25519 public keys: G followed by 55 base32 characters.
	addressRegex = regexp.MustCompile(`^G[A-Z2-7]{55}$`)
	txHashRegex  = regexp.MustCompile(`^[a-fA-F0-9]{64}$`)
	codeRegex    = regexp.MustCompile(`^[A-Z2-7]{1,8}-[A-F0-9]{8}$`)
)

func ValidateAddress(address string) error {
	if !addressRegex.MatchString(address) {
		return ErrInvalidAddress
	}
	return nil
}

func ValidateTransactionHash(hash string) error {
	if !txHashRegex.MatchString(hash) {
		return ErrInvalidTransactionHash
	}
	return nil
}

func ValidateReferralCode(code string) error {
	if !codeRegex.MatchString(code) {
		return ErrInvalidReferralCode
	}
	return nil
}

// ParseAmount parses a positive XLM amount with at most 7 decimal places.
func ParseAmount(raw string) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	amount, err := decimal.NewFromString(trimmed)
	if err != nil || amount.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, ErrInvalidAmount
	}
	if amount.Exponent() < -7 {
		return decimal.Zero, ErrInvalidAmount
	}
	return amount, nil
}
