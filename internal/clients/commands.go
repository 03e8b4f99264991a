// Package clients registers the client menu commands: list with
// filtering, create, update and delete.
package clients

import (
	"errors"
	"strconv"

	"epicevents.org/internal/cli"
	"epicevents.org/internal/command"
	"epicevents.org/internal/store"
)

var listHeaders = []string{"", "** Client email **", "Name", "Phone", "Company name", "Employee"}

var filterFields = []command.FilterField{
	{Code: "E", Label: "email", Column: "email"},
	{Code: "F", Label: "first name", Column: "first_name"},
	{Code: "L", Label: "last name", Column: "last_name"},
	{Code: "C", Label: "company name", Column: "company_name"},
}

// Register adds the client commands to the engine.
func Register(engine *command.Engine) {
	engine.Register(listFilterSpec())
	engine.Register(createSpec())
	engine.Register(updateSpec())
	engine.Register(deleteSpec())
}

func employeeCell(c *store.Client) string {
	if c.Employee == nil {
		return ""
	}
	return c.Employee.FullName() + " (" + string(c.Employee.Role) + ")"
}

func renderAll(rt *command.Runtime, title string, clients []*store.Client) {
	rows := make([][]string, 0, len(clients))
	for i, c := range clients {
		rows = append(rows, []string{
			"Client " + strconv.Itoa(i+1),
			c.Email,
			c.FullName(),
			c.Phone,
			c.CompanyName,
			employeeCell(c),
		})
	}
	rt.Console.RenderTable(rows, cli.TableOptions{Title: title, Headers: listHeaders})
}

func renderMine(rt *command.Runtime, clients []*store.Client) {
	rows := make([][]string, 0, len(clients))
	for i, c := range clients {
		rows = append(rows, []string{
			"Client " + strconv.Itoa(i+1),
			c.Email,
			c.FullName(),
			c.Phone,
			c.CompanyName,
		})
	}
	rt.Console.RenderTable(rows, cli.TableOptions{Title: "my Clients", Headers: listHeaders[:5]})
}

func requestByEmail(rt *command.Runtime) (*store.Client, error) {
	for {
		rt.Console.DisplayInputTitle("Enter details:")
		email, err := rt.Console.EmailInput("Email address", true)
		if err != nil {
			return nil, err
		}
		client, err := rt.Store.Clients().FindByEmail(rt.Ctx, email)
		if errors.Is(err, store.ErrNotFound) {
			rt.Console.InvalidMessage("email")
			continue
		}
		if err != nil {
			return nil, err
		}
		return client, nil
	}
}

func listFilterSpec() command.Spec {
	return command.Spec{
		Name:        "client_list_filter",
		Entity:      "client",
		Action:      command.ActionListFilter,
		Permissions: []store.Role{store.RoleSales, store.RoleSupport, store.RoleManagement},
		Build: func(rt *command.Runtime) command.Hooks {
			var (
				queryset []*store.Client
				filtered []*store.Client
				orderBy  []store.OrderField
			)
			return command.Hooks{
				GetQueryset: func() error {
					var err error
					queryset, err = rt.Store.Clients().List(rt.Ctx, store.ClientFilter{})
					return err
				},
				QuerysetEmpty: func() bool { return len(queryset) == 0 },
				GetInstanceData: func() error {
					renderAll(rt, "Clients", queryset)
					return nil
				},
				GetData: func() (command.Data, error) {
					return command.FilterPrompt(rt.Console, "client")
				},
				UserChoice: func(choice command.Data) (command.Route, error) {
					return command.FilterGate(rt, []store.Role{store.RoleSales}, choice)
				},
				ChooseAttributes: func() error {
					command.ChooseAttributes(rt.Console, filterFields)
					return nil
				},
				RequestFieldSelection: func() ([]string, string, error) {
					return command.RequestFieldSelection(rt.Console, filterFields)
				},
				GetUserQueryset: func() error { return nil },
				FilterSelectedFields: func(selected []string, order string) error {
					orderBy = command.OrderFields(filterFields, selected, order)
					var err error
					filtered, err = rt.Store.Clients().List(rt.Ctx, store.ClientFilter{
						EmployeeID: rt.User.ID,
						OrderBy:    orderBy,
					})
					return err
				},
				DisplayResult: func() error {
					rows := make([][]string, 0, len(filtered))
					for i, c := range filtered {
						rows = append(rows, []string{
							"Client " + strconv.Itoa(i+1),
							c.Email,
							c.FirstName,
							c.LastName,
							c.CompanyName,
						})
					}
					rt.Console.RenderTable(rows, cli.TableOptions{
						Title:   "my Clients",
						Headers: []string{"", "** Client email **", "First name", "Last name", "Company name"},
						OrderBy: orderBy,
					})
					return nil
				},
			}
		},
	}
}

func createSpec() command.Spec {
	return command.Spec{
		Name:        "client_create",
		Entity:      "client",
		Action:      command.ActionCreate,
		Permissions: []store.Role{store.RoleSales},
		Build: func(rt *command.Runtime) command.Hooks {
			var (
				queryset []*store.Client
				object   *store.Client
			)
			return command.Hooks{
				GetQueryset: func() error {
					var err error
					queryset, err = rt.Store.Clients().List(rt.Ctx, store.ClientFilter{})
					return err
				},
				GetInstanceData: func() error {
					renderAll(rt, "Clients", queryset)
					var mine []*store.Client
					for _, c := range queryset {
						if c.EmployeeID == rt.User.ID {
							mine = append(mine, c)
						}
					}
					renderMine(rt, mine)
					return nil
				},
				GetData: func() (command.Data, error) {
					rt.Console.DisplayInputTitle("Enter details to create a client:")

					email, err := rt.Console.EmailInput("Email address", true)
					if err != nil {
						return nil, err
					}
					firstName, err := rt.Console.TextInput("First name", true)
					if err != nil {
						return nil, err
					}
					lastName, err := rt.Console.TextInput("Last name", true)
					if err != nil {
						return nil, err
					}
					phone, err := rt.Console.IntInput("Phone number", true)
					if err != nil {
						return nil, err
					}
					company, err := rt.Console.TextInput("Company name", true)
					if err != nil {
						return nil, err
					}
					return command.Data{
						"email":        email,
						"first_name":   firstName,
						"last_name":    lastName,
						"phone":        strconv.Itoa(phone),
						"company_name": company,
					}, nil
				},
				MakeChanges: func(data command.Data) (command.Route, error) {
					object = &store.Client{
						EmployeeID:  rt.User.ID,
						Email:       data["email"].(string),
						FirstName:   data["first_name"].(string),
						LastName:    data["last_name"].(string),
						Phone:       data["phone"].(string),
						CompanyName: data["company_name"].(string),
					}
					err := rt.Store.Clients().Create(rt.Ctx, object)
					if errors.Is(err, store.ErrConflict) {
						rt.Console.ExistsMessage("Email")
						return command.RouteRetry, nil
					}
					if err != nil {
						return command.RouteNone, err
					}
					rt.Audit.Record(rt.Ctx, "create", "client", object.ID, map[string]string{
						"email": object.Email,
					})
					return command.RouteNone, nil
				},
				CollectChanges: func() [][2]string {
					rt.Console.SuccessMessage("Client", "created")
					return [][2]string{
						{"Email: ", object.Email},
						{"First name: ", object.FirstName},
						{"Last name: ", object.LastName},
						{"Phone: ", object.Phone},
						{"Company name: ", object.CompanyName},
					}
				},
			}
		},
	}
}

func updateSpec() command.Spec {
	return command.Spec{
		Name:        "client_update",
		Entity:      "client",
		Action:      command.ActionUpdate,
		Permissions: []store.Role{store.RoleSales},
		Build: func(rt *command.Runtime) command.Hooks {
			var (
				queryset       []*store.Client
				object         *store.Client
				fieldsToUpdate []string
			)
			return command.Hooks{
				GetQueryset: func() error {
					var err error
					queryset, err = rt.Store.Clients().List(rt.Ctx, store.ClientFilter{EmployeeID: rt.User.ID})
					return err
				},
				QuerysetEmpty: func() bool { return len(queryset) == 0 },
				GetInstanceData: func() error {
					renderMine(rt, queryset)
					return nil
				},
				GetRequestedModel: func() (command.Route, error) {
					var err error
					object, err = requestByEmail(rt)
					if err != nil {
						return command.RouteNone, err
					}
					rt.Console.NewLine()
					rt.Console.RenderKeyValueTable("Details of the Client: ", [][2]string{
						{"[E]mail: ", object.Email},
						{"[F]irst name: ", object.FirstName},
						{"[L]ast name: ", object.LastName},
						{"[P]hone: ", object.Phone},
						{"[C]ompany name: ", object.CompanyName},
					})
					return command.RouteNone, nil
				},
				GetFieldsToUpdate: func() ([]string, error) {
					rt.Console.DisplayInputTitle("Enter choice:")
					var err error
					fieldsToUpdate, err = rt.Console.MultipleChoiceStrInput(
						[]string{"E", "F", "L", "P", "C"}, "Your choice ? [E, F, L, P, C]", true)
					return fieldsToUpdate, err
				},
				GetData: func() (command.Data, error) {
					data := command.Data{}
					for _, letter := range fieldsToUpdate {
						var (
							value string
							err   error
						)
						switch letter {
						case "E":
							value, err = rt.Console.EmailInput("Email", true)
						case "F":
							value, err = rt.Console.TextInput("First name", true)
						case "L":
							value, err = rt.Console.TextInput("Last name", true)
						case "P":
							var phone int
							phone, err = rt.Console.IntInput("Phone", true)
							value = strconv.Itoa(phone)
						case "C":
							value, err = rt.Console.TextInput("Company name", true)
						}
						if err != nil {
							return nil, err
						}
						data[letter] = value
					}
					return data, nil
				},
				MakeChanges: func(data command.Data) (command.Route, error) {
					var upd store.ClientUpdate
					if v, ok := data["E"]; ok {
						email := v.(string)
						upd.Email = &email
					}
					if v, ok := data["F"]; ok {
						first := v.(string)
						upd.FirstName = &first
					}
					if v, ok := data["L"]; ok {
						last := v.(string)
						upd.LastName = &last
					}
					if v, ok := data["P"]; ok {
						phone := v.(string)
						upd.Phone = &phone
					}
					if v, ok := data["C"]; ok {
						company := v.(string)
						upd.CompanyName = &company
					}
					updated, err := rt.Store.Clients().Update(rt.Ctx, object.ID, upd)
					if errors.Is(err, store.ErrConflict) {
						rt.Console.ExistsMessage("Email")
						return command.RouteRetry, nil
					}
					if err != nil {
						return command.RouteNone, err
					}
					object = updated
					rt.Audit.Record(rt.Ctx, "update", "client", object.ID, map[string]string{
						"email": object.Email,
					})
					return command.RouteNone, nil
				},
				CollectChanges: func() [][2]string {
					rt.Console.SuccessMessage("Client", "updated")
					return [][2]string{
						{"Email: ", object.Email},
						{"First name: ", object.FirstName},
						{"Last name: ", object.LastName},
						{"Phone: ", object.Phone},
						{"Company name: ", object.CompanyName},
					}
				},
			}
		},
	}
}

func deleteSpec() command.Spec {
	return command.Spec{
		Name:        "client_delete",
		Entity:      "client",
		Action:      command.ActionDelete,
		Permissions: []store.Role{store.RoleManagement},
		Build: func(rt *command.Runtime) command.Hooks {
			var (
				queryset []*store.Client
				object   *store.Client
			)
			return command.Hooks{
				GetQueryset: func() error {
					var err error
					queryset, err = rt.Store.Clients().List(rt.Ctx, store.ClientFilter{})
					return err
				},
				GetInstanceData: func() error {
					renderAll(rt, "Clients", queryset)
					return nil
				},
				GetRequestedModel: func() (command.Route, error) {
					var err error
					object, err = requestByEmail(rt)
					if err != nil {
						return command.RouteNone, err
					}
					rt.Console.NewLine()
					rt.Console.RenderKeyValueTable("Details of the Client: ", [][2]string{
						{"Email: ", object.Email},
						{"First name: ", object.FirstName},
						{"Last name: ", object.LastName},
						{"Phone: ", object.Phone},
						{"Company name: ", object.CompanyName},
					})
					return command.RouteNone, nil
				},
				GetData: func() (command.Data, error) {
					rt.Console.DisplayInputTitle("Enter choice:")
					choice, err := rt.Console.ChoiceStrInput(
						[]string{"Y", "N"}, "Choice to delete [Y]es or [N]o ?", true)
					if err != nil {
						return nil, err
					}
					return command.Data{"delete": choice}, nil
				},
				MakeChanges: func(data command.Data) (command.Route, error) {
					if data["delete"] != "Y" {
						rt.Console.NewLine()
						return command.RouteMenu, nil
					}
					if err := rt.Store.Clients().Delete(rt.Ctx, object.ID); err != nil {
						return command.RouteNone, err
					}
					rt.Audit.Record(rt.Ctx, "delete", "client", object.ID, map[string]string{
						"email": object.Email,
					})
					rt.Console.SuccessMessage("Client", "deleted")
					return command.RouteNone, nil
				},
			}
		},
	}
}
