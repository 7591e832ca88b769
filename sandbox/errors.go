package sandbox

import "errors"

var (
	ErrAccountNotFound     = errors.New("account does not exist")
	ErrAccountExists       = errors.New("account already exists")
	ErrCannotCreateAccount = errors.New("only the parent account can create a sub-account")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInsufficientStake   = errors.New("balance does not cover storage")
	ErrNoCode              = errors.New("account has no contract")
	ErrUnknownContract     = errors.New("unknown contract")
	ErrExecution           = errors.New("execution failed")
)
