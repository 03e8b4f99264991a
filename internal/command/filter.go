package command

import (
	"strings"

	"epicevents.org/internal/cli"
	"epicevents.org/internal/store"
)

// FilterField maps a one-letter selection code to an order column.
type FilterField struct {
	Code   string
	Label  string
	Column store.OrderField
}

// Codes returns the selectable one-letter codes.
func Codes(fields []FilterField) []string {
	codes := make([]string, 0, len(fields))
	for _, f := range fields {
		codes = append(codes, f.Code)
	}
	return codes
}

// PickList formats the fields for the attribute table, bracketing the
// selection letter: "email" becomes "[E]mail".
func PickList(fields []FilterField) [][]string {
	rows := make([][]string, 0, len(fields))
	for _, f := range fields {
		label := strings.ReplaceAll(f.Label, "_", " ")
		rows = append(rows, []string{"[" + strings.ToUpper(label[:1]) + "]" + label[1:]})
	}
	return rows
}

// OrderFields maps the selected codes to order columns, prefixed for
// descending order when the user picked "D". Unknown codes cannot occur
// because the multiple-choice input already filtered them.
func OrderFields(fields []FilterField, selected []string, order string) []store.OrderField {
	byCode := make(map[string]store.OrderField, len(fields))
	for _, f := range fields {
		byCode[f.Code] = f.Column
	}
	out := make([]store.OrderField, 0, len(selected))
	for _, code := range selected {
		col := byCode[code]
		if order == "D" {
			col = store.Desc(col.Column())
		}
		out = append(out, col)
	}
	return out
}

// ChooseAttributes renders the pick list of filterable fields.
func ChooseAttributes(console *cli.Console, fields []FilterField) {
	console.RenderTable(PickList(fields), cli.TableOptions{
		Title: "Which fields you want to filter ?",
	})
}

// RequestFieldSelection prompts for the fields to order by and the
// direction, ascending or descending.
func RequestFieldSelection(console *cli.Console, fields []FilterField) (selected []string, order string, err error) {
	console.DisplayInputTitle("Enter choice:")

	selected, err = console.MultipleChoiceStrInput(
		Codes(fields), "Your choice ? ["+strings.Join(Codes(fields), ",")+"]", true)
	if err != nil {
		return nil, "", err
	}
	order, err = console.ChoiceStrInput(
		[]string{"A", "D"}, "Your choice ? [A]scending or [D]escending", true)
	if err != nil {
		return nil, "", err
	}
	console.NewLine()
	return selected, order, nil
}

// FilterPrompt asks whether the user wants to filter the listing.
func FilterPrompt(console *cli.Console, entity string) (Data, error) {
	console.DisplayInputTitle("Enter choice:")
	choice, err := console.ChoiceStrInput(
		[]string{"Y", "N"},
		"Do you want to filter your "+entity+"s ? [Y]es or [N]o", true)
	if err != nil {
		return nil, err
	}
	return Data{"filter": choice}, nil
}

// FilterGate implements the shared permission check on the filter
// choice: roles outside allowed may list but not filter.
func FilterGate(rt *Runtime, allowed []store.Role, choice Data) (Route, error) {
	if choice["filter"] != "Y" {
		rt.Console.NewLine()
		return RouteNone, nil
	}
	for _, role := range allowed {
		if rt.User.Role == role {
			rt.Console.NewLine()
			return RouteNone, nil
		}
	}
	rt.Console.PermissionDeniedMessage()
	return RouteMenu, nil
}
