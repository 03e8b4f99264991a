package cli

import "fmt"

// SuccessMessage reports a completed action, e.g. ("Client", "created").
func (c *Console) SuccessMessage(entity, action string) {
	c.NewLine()
	c.println(successStyle.Render(fmt.Sprintf(" %s successfully %s!", entity, action)))
	c.NewLine()
}

// ExistsMessage reports a uniqueness conflict, e.g. "Email already exists !".
func (c *Console) ExistsMessage(what string) {
	c.NewLine()
	c.println(errorStyle.Render(fmt.Sprintf("  %s already exists !", what)))
	c.NewLine()
}

// InvalidMessage reports invalid input, e.g. "Invalid email !".
func (c *Console) InvalidMessage(what string) {
	c.NewLine()
	c.println(errorStyle.Render(fmt.Sprintf("   Invalid %s !", what)))
	c.NewLine()
}

// DoesNotExistMessage reports a failed lookup.
func (c *Console) DoesNotExistMessage(what string) {
	c.NewLine()
	c.println(errorStyle.Render(fmt.Sprintf("   %s does not exists !", what)))
	c.NewLine()
}

// PermissionDeniedMessage reports a rejected authorization check.
func (c *Console) PermissionDeniedMessage() {
	c.NewLine()
	c.println(errorStyle.Render("   Permission denied !"))
	c.NewLine()
}

// TokenErrorMessage reports a problem with the session credential.
func (c *Console) TokenErrorMessage(text string) {
	c.NewLine()
	c.println(errorStyle.Render("   " + text))
	c.NewLine()
}

// InfoMessage prints an informational message.
func (c *Console) InfoMessage(text string) {
	c.NewLine()
	c.println(infoStyle.Render("  " + text))
	c.NewLine()
}

// ErrorMessage prints a free-form error message.
func (c *Console) ErrorMessage(text string) {
	c.NewLine()
	c.println(errorStyle.Render("  " + text))
	c.NewLine()
}

// Info satisfies auth.LoginUI.
func (c *Console) Info(text string) { c.InfoMessage(text) }

// Error satisfies auth.LoginUI.
func (c *Console) Error(text string) { c.ErrorMessage(text) }

// DisplayInputTitle prints a title above a group of prompts.
func (c *Console) DisplayInputTitle(text string) {
	c.println(inputTitle.Render("   " + text))
}
