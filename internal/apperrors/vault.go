package apperrors

import "fmt"

// VaultWriteError is returned when the vault rejects or fails a store-secret call.
type VaultWriteError struct {
	Name string
	Err  error
}

func (e *VaultWriteError) Error() string {
	return fmt.Sprintf("vault write failed for %q: %v", e.Name, e.Err)
}

func (e *VaultWriteError) Unwrap() error { return e.Err }

// VaultReadError is returned when the get-secret call itself fails.
type VaultReadError struct {
	SecretID string
	Err      error
}

func (e *VaultReadError) Error() string {
	return fmt.Sprintf("vault read failed for %s: %v", e.SecretID, e.Err)
}

func (e *VaultReadError) Unwrap() error { return e.Err }

// VaultNotFoundError is returned when the identifier resolves to no secret.
type VaultNotFoundError struct {
	SecretID string
}

func (e *VaultNotFoundError) Error() string {
	return "vault credential not found: " + e.SecretID
}

// Is lets callers match a missing credential with errors.Is(err, ErrNotFound).
func (e *VaultNotFoundError) Is(target error) bool {
	return target == ErrNotFound
}
