package domain

import (
	errorsmod "cosmossdk.io/errors"
)

const Codespace = "dominum"

// Exit codes of the settlement contracts.
var (
	ErrUnauthorized          = errorsmod.Register(Codespace, 73, "sender is not authorized")
	ErrInsufficientBalance   = errorsmod.Register(Codespace, 74, "insufficient balance")
	ErrAmountBelowTax        = errorsmod.Register(Codespace, 75, "amount does not cover the transfer tax")
	ErrInvalidAmount         = errorsmod.Register(Codespace, 76, "fee does not match the protocol constant")
	ErrInvalidTransferAmount = errorsmod.Register(Codespace, 77, "amount must be positive")
	ErrSupplyOverflow        = errorsmod.Register(Codespace, 78, "total supply overflow")
	ErrPendingChangeExists   = errorsmod.Register(Codespace, 90, "a change is already pending")
	ErrNoPendingChange       = errorsmod.Register(Codespace, 91, "no pending change")
	ErrTimelockActive        = errorsmod.Register(Codespace, 92, "timelock has not elapsed")
	ErrPoolNotSet            = errorsmod.Register(Codespace, 93, "gas pool address is not set")
	ErrAlreadyInitialized    = errorsmod.Register(Codespace, 94, "already initialized")
	ErrProxyNotConfigured    = errorsmod.Register(Codespace, 95, "proxy wallet config is not set")
	ErrGiverNotWired         = errorsmod.Register(Codespace, 96, "giver is not wired")
	ErrUnknownGiver          = errorsmod.Register(Codespace, 97, "giver is not managed by this registry")
	ErrUnknownOp             = errorsmod.Register(Codespace, 0xffff, "unknown op")
)

type ErrorClass string

const (
	ClassNone            ErrorClass = ""
	ClassAuthorization   ErrorClass = "authorization"
	ClassAmountIntegrity ErrorClass = "amount_integrity"
	ClassSequencing      ErrorClass = "sequencing"
	ClassResource        ErrorClass = "resource"
	ClassInternal        ErrorClass = "internal"
)

var classByCode = map[uint32]ErrorClass{
	ErrUnauthorized.ABCICode():          ClassAuthorization,
	ErrUnknownGiver.ABCICode():          ClassAuthorization,
	ErrInvalidAmount.ABCICode():         ClassAmountIntegrity,
	ErrAmountBelowTax.ABCICode():        ClassAmountIntegrity,
	ErrInvalidTransferAmount.ABCICode(): ClassAmountIntegrity,
	ErrPendingChangeExists.ABCICode():   ClassSequencing,
	ErrNoPendingChange.ABCICode():       ClassSequencing,
	ErrTimelockActive.ABCICode():        ClassSequencing,
	ErrPoolNotSet.ABCICode():            ClassSequencing,
	ErrAlreadyInitialized.ABCICode():    ClassSequencing,
	ErrProxyNotConfigured.ABCICode():    ClassSequencing,
	ErrGiverNotWired.ABCICode():         ClassSequencing,
	ErrUnknownOp.ABCICode():             ClassSequencing,
	ErrInsufficientBalance.ABCICode():   ClassResource,
	ErrSupplyOverflow.ABCICode():        ClassResource,
}

// ExitCode returns the contract exit code carried by err, 0 for nil.
func ExitCode(err error) uint32 {
	if err == nil {
		return 0
	}
	codespace, code, _ := errorsmod.ABCIInfo(err, false)
	if codespace != Codespace {
		return 1
	}
	return code
}

func Classify(err error) ErrorClass {
	if err == nil {
		return ClassNone
	}
	if class, ok := classByCode[ExitCode(err)]; ok {
		return class
	}
	return ClassInternal
}
