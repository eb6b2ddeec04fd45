package types

// ConfirmFunc asks the operator to approve a destructive action.
// Returning false means the operator declined.
type ConfirmFunc func(message string) (bool, error)

// AlwaysConfirm is the force-mode policy: every prompt is accepted.
func AlwaysConfirm(string) (bool, error) { return true, nil }

// NeverConfirm declines every prompt. It is the answer when stdin is not a
// terminal.
func NeverConfirm(string) (bool, error) { return false, nil }
