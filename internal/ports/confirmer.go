package ports

// Confirmer asks the operator to approve a destructive step.
type Confirmer interface {
	Confirm(prompt string) bool
}
