package cli

import (
	"fmt"
	"strconv"
	"strings"

	"epicevents.org/internal/store"
)

// MenuOption is one selectable entry of an entity menu. An empty
// Action marks the go-back entry, rendered in the accent color.
type MenuOption struct {
	Label  string
	Action string
}

// Start menu actions, shared with the dispatcher.
const (
	ActionList       = "list"
	ActionListFilter = "list_filter"
	ActionCreate     = "create"
	ActionUpdate     = "update"
	ActionDelete     = "delete"
)

var backOption = MenuOption{Label: "Go back to Main Menu"}

var entityMenus = map[store.Role]map[string][]MenuOption{
	store.RoleSales: {
		"employee": {
			{Label: "List", Action: ActionList},
			backOption,
		},
		"client": {
			{Label: "List and filter", Action: ActionListFilter},
			{Label: "Create", Action: ActionCreate},
			{Label: "Update", Action: ActionUpdate},
			backOption,
		},
		"contract": {
			{Label: "List and filter", Action: ActionListFilter},
			backOption,
		},
		"event": {
			{Label: "List and filter", Action: ActionListFilter},
			{Label: "Create", Action: ActionCreate},
			backOption,
		},
	},
	store.RoleSupport: {
		"employee": {
			{Label: "List", Action: ActionList},
			backOption,
		},
		"client": {
			{Label: "List and filter", Action: ActionListFilter},
			backOption,
		},
		"contract": {
			{Label: "List and filter", Action: ActionListFilter},
			backOption,
		},
		"event": {
			{Label: "List and filter", Action: ActionListFilter},
			{Label: "Update", Action: ActionUpdate},
			backOption,
		},
	},
	store.RoleManagement: {
		"employee": {
			{Label: "List", Action: ActionList},
			{Label: "Create", Action: ActionCreate},
			{Label: "Update", Action: ActionUpdate},
			{Label: "Delete", Action: ActionDelete},
			backOption,
		},
		"client": {
			{Label: "List and filter", Action: ActionListFilter},
			{Label: "Delete", Action: ActionDelete},
			backOption,
		},
		"contract": {
			{Label: "List and filter", Action: ActionListFilter},
			{Label: "Create", Action: ActionCreate},
			{Label: "Update", Action: ActionUpdate},
			{Label: "Delete", Action: ActionDelete},
			backOption,
		},
		"event": {
			{Label: "List and filter", Action: ActionListFilter},
			{Label: "Update", Action: ActionUpdate},
			{Label: "Delete", Action: ActionDelete},
			backOption,
		},
	},
}

// MenuForRole returns the entity menu the given role can see.
func MenuForRole(role store.Role, entity string) []MenuOption {
	return entityMenus[role][entity]
}

func (c *Console) displayHeadline(text string) {
	c.println("  " + headlineStyle.Render("** "+text+" **"))
	c.NewLine()
}

func (c *Console) displayTitle(text string) {
	c.println("   " + titleStyle.Render("*** "+text+" ***"))
}

func (c *Console) displayChoice(option int, text string, accent bool) {
	numStyle := choiceStyle
	if accent {
		numStyle = errorStyle
	}
	c.printf("    %s %s\n",
		numStyle.Render(fmt.Sprintf("[%d]", option)),
		promptStyle.Render(text))
}

// StartMenu renders the main menu and reads the user's numeric choice.
// 1-4 pick an entity, 5 quits, 6 logs out.
func (c *Console) StartMenu(title string) (int, error) {
	c.displayHeadline("Welcome to " + title)
	c.displayTitle(title + " Menu")

	entries := []struct {
		text   string
		accent bool
	}{
		{"Manage the employees", false},
		{"Manage the clients", false},
		{"Manage the contracts", false},
		{"Manage the events", false},
		{"Quit program", true},
		{"Logout", true},
	}
	for i, e := range entries {
		c.displayChoice(i+1, e.text, e.accent)
	}
	c.NewLine()

	return c.menuChoice(" Please enter your choice: ")
}

// EntityMenu renders one entity's menu for the given options and reads
// the user's numeric choice.
func (c *Console) EntityMenu(entity string, options []MenuOption) (int, error) {
	capitalized := strings.ToUpper(entity[:1]) + entity[1:]

	c.displayHeadline("Menu of the " + capitalized + "s")
	c.displayTitle(capitalized + " Menu")

	for i, opt := range options {
		if opt.Action == "" {
			c.displayChoice(i+1, opt.Label, true)
			continue
		}
		c.displayChoice(i+1, opt.Label+" "+entity, false)
	}
	c.NewLine()

	return c.menuChoice("Please enter your choice: ")
}

// menuChoice loops until the user enters a number.
func (c *Console) menuChoice(prompt string) (int, error) {
	for {
		c.printf("%s", prompt)
		line, err := c.in.ReadString('\n')
		if err != nil && line == "" {
			return 0, err
		}
		n, convErr := strconv.Atoi(strings.TrimSpace(line))
		if convErr != nil {
			c.println("  Invalid input. Please enter a number.")
			c.NewLine()
			if err != nil {
				return 0, err
			}
			continue
		}
		c.NewLine()
		return n, nil
	}
}
