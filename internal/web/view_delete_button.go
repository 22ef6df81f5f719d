package web

// DeleteButtonView holds data for the delete button template fragment
type DeleteButtonView struct {
	URL            string // e.g., "/tasks/6f1c..."
	ConfirmMessage string // shown by hx-confirm
	ButtonText     string
}
