package services

import "errors"

var (
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrMintingDisabled      = errors.New("minting is currently disabled")
	ErrDuplicateTransaction = errors.New("transaction hash already processed")
	ErrWalletNotFound       = errors.New("wallet not found")
	ErrInvalidReferralCode  = errors.New("invalid referral code")
	ErrSelfReferral         = errors.New("cannot refer yourself")
	ErrAlreadyReferred      = errors.New("wallet already referred")
	ErrTaskNotFound         = errors.New("task not found")
	ErrTaskInactive         = errors.New("task is not active")
	ErrTaskAlreadyCompleted = errors.New("task already completed")
)
