// Package contracts registers the contract menu commands: list with
// filtering, create, update and delete. Contracts are created by
// management for clients that do not have one yet.
package contracts

import (
	"errors"
	"strconv"

	"epicevents.org/internal/cli"
	"epicevents.org/internal/command"
	"epicevents.org/internal/store"
)

var listHeaders = []string{
	"", "** Client email **", "Total amount", "Amount paid", "Rest amount", "State", "Employee",
}

var clientHeaders = []string{"", "** Client email **", "Name", "Phone", "Company name", "Employee"}

var filterFields = []command.FilterField{
	{Code: "C", Label: "client", Column: "client"},
	{Code: "T", Label: "total amount", Column: "total_costs"},
	{Code: "A", Label: "amount paid", Column: "amount_paid"},
	{Code: "S", Label: "state", Column: "state"},
}

var stateOptions = []string{string(store.StateSigned), string(store.StateDraft)}

// Register adds the contract commands to the engine.
func Register(engine *command.Engine) {
	engine.Register(listFilterSpec())
	engine.Register(createSpec())
	engine.Register(updateSpec())
	engine.Register(deleteSpec())
}

func clientEmail(c *store.Contract) string {
	if c.Client == nil {
		return ""
	}
	return c.Client.Email
}

func employeeCell(c *store.Contract) string {
	if c.Employee == nil {
		return ""
	}
	return c.Employee.FullName() + " (" + string(c.Employee.Role) + ")"
}

func renderAll(rt *command.Runtime, contracts []*store.Contract, withEmployee bool) {
	headers := listHeaders
	if !withEmployee {
		headers = listHeaders[:6]
	}
	rows := make([][]string, 0, len(contracts))
	for i, c := range contracts {
		row := []string{
			"Contract " + strconv.Itoa(i+1),
			clientEmail(c),
			c.TotalCents.String(),
			c.PaidCents.String(),
			c.RestCents().String(),
			c.State.Display(),
		}
		if withEmployee {
			row = append(row, employeeCell(c))
		}
		rows = append(rows, row)
	}
	rt.Console.RenderTable(rows, cli.TableOptions{Title: "Contracts", Headers: headers})
}

func requestByClientEmail(rt *command.Runtime) (*store.Contract, error) {
	for {
		rt.Console.DisplayInputTitle("Enter details:")
		email, err := rt.Console.EmailInput("Email address", true)
		if err != nil {
			return nil, err
		}
		contract, err := rt.Store.Contracts().FindByClientEmail(rt.Ctx, email)
		if errors.Is(err, store.ErrNotFound) {
			rt.Console.InvalidMessage("email")
			continue
		}
		if err != nil {
			return nil, err
		}
		return contract, nil
	}
}

func listFilterSpec() command.Spec {
	return command.Spec{
		Name:        "contract_list_filter",
		Entity:      "contract",
		Action:      command.ActionListFilter,
		Permissions: []store.Role{store.RoleSales, store.RoleSupport, store.RoleManagement},
		Build: func(rt *command.Runtime) command.Hooks {
			var (
				queryset []*store.Contract
				filtered []*store.Contract
				orderBy  []store.OrderField
			)
			return command.Hooks{
				GetQueryset: func() error {
					var err error
					queryset, err = rt.Store.Contracts().List(rt.Ctx, store.ContractFilter{})
					return err
				},
				QuerysetEmpty: func() bool { return len(queryset) == 0 },
				GetInstanceData: func() error {
					renderAll(rt, queryset, true)
					return nil
				},
				GetData: func() (command.Data, error) {
					return command.FilterPrompt(rt.Console, "contract")
				},
				UserChoice: func(choice command.Data) (command.Route, error) {
					return command.FilterGate(rt,
						[]store.Role{store.RoleSales, store.RoleManagement}, choice)
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
					// Management filters across all sales contracts, a
					// sales employee only their own.
					filter := store.ContractFilter{OrderBy: orderBy}
					if rt.User.Role == store.RoleManagement {
						filter.EmployeeRole = store.RoleSales
					} else {
						filter.EmployeeID = rt.User.ID
					}
					var err error
					filtered, err = rt.Store.Contracts().List(rt.Ctx, filter)
					return err
				},
				DisplayResult: func() error {
					rows := make([][]string, 0, len(filtered))
					for i, c := range filtered {
						rows = append(rows, []string{
							"Contract " + strconv.Itoa(i+1),
							clientEmail(c),
							c.TotalCents.String(),
							c.PaidCents.String(),
							c.State.Display(),
						})
					}
					rt.Console.RenderTable(rows, cli.TableOptions{
						Title:   "my Contracts",
						Headers: []string{"", "** Client email **", "Total amount", "Amount paid", "State"},
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
		Name:        "contract_create",
		Entity:      "contract",
		Action:      command.ActionCreate,
		Permissions: []store.Role{store.RoleManagement},
		Build: func(rt *command.Runtime) command.Hooks {
			var (
				queryset []*store.Client
				object   *store.Contract
			)
			return command.Hooks{
				GetQueryset: func() error {
					var err error
					queryset, err = rt.Store.Clients().List(rt.Ctx, store.ClientFilter{WithoutContract: true})
					return err
				},
				GetInstanceData: func() error {
					rows := make([][]string, 0, len(queryset))
					for i, c := range queryset {
						employee := ""
						if c.Employee != nil {
							employee = c.Employee.FullName() + " (" + string(c.Employee.Role) + ")"
						}
						rows = append(rows, []string{
							"Client " + strconv.Itoa(i+1),
							c.Email,
							c.FullName(),
							c.Phone,
							c.CompanyName,
							employee,
						})
					}
					rt.Console.RenderTable(rows, cli.TableOptions{
						Title:   "Clients without a contract",
						Headers: clientHeaders,
					})
					return nil
				},
				GetData: func() (command.Data, error) {
					rt.Console.DisplayInputTitle("Enter details to create a new contract:")

					client, err := rt.Console.EmailInput("Client email", true)
					if err != nil {
						return nil, err
					}
					total, err := rt.Console.DecimalInput("Amount of contract", true)
					if err != nil {
						return nil, err
					}
					paid, err := rt.Console.DecimalInput("Paid amount", true)
					if err != nil {
						return nil, err
					}
					state, err := rt.Console.ChoiceStrInput(stateOptions, "State [S]igned or [D]raft", true)
					if err != nil {
						return nil, err
					}
					return command.Data{
						"client":      client,
						"total_costs": total,
						"amount_paid": paid,
						"state":       state,
					}, nil
				},
				MakeChanges: func(data command.Data) (command.Route, error) {
					client, err := rt.Store.Clients().FindByEmail(rt.Ctx, data["client"].(string))
					if errors.Is(err, store.ErrNotFound) {
						rt.Console.DoesNotExistMessage("Client")
						return command.RouteRetry, nil
					}
					if err != nil {
						return command.RouteNone, err
					}

					exists, err := rt.Store.Contracts().ExistsForClient(rt.Ctx, client.ID)
					if err != nil {
						return command.RouteNone, err
					}
					if exists {
						rt.Console.ExistsMessage("Contract")
						return command.RouteRetry, nil
					}

					object = &store.Contract{
						ClientID:   client.ID,
						EmployeeID: client.EmployeeID,
						TotalCents: store.Cents(data["total_costs"].(int64)),
						PaidCents:  store.Cents(data["amount_paid"].(int64)),
						State:      store.ContractState(data["state"].(string)),
					}
					if err := rt.Store.Contracts().Create(rt.Ctx, object); err != nil {
						if errors.Is(err, store.ErrConflict) {
							rt.Console.ExistsMessage("Contract")
							return command.RouteRetry, nil
						}
						return command.RouteNone, err
					}
					object.Client = client
					object.Employee = client.Employee
					rt.Audit.Record(rt.Ctx, "create", "contract", object.ID, map[string]string{
						"client": client.Email,
						"state":  string(object.State),
					})
					return command.RouteNone, nil
				},
				CollectChanges: func() [][2]string {
					rt.Console.SuccessMessage("Contract", "created")
					employee := ""
					if object.Employee != nil {
						employee = object.Employee.Email
					}
					return [][2]string{
						{"Client: ", clientEmail(object)},
						{"Employee: ", employee},
						{"Total: ", object.TotalCents.String()},
						{"Paid amount: ", object.PaidCents.String()},
						{"Rest amount: ", object.RestCents().String()},
						{"State: ", object.State.Display()},
					}
				},
			}
		},
	}
}

func updateSpec() command.Spec {
	return command.Spec{
		Name:        "contract_update",
		Entity:      "contract",
		Action:      command.ActionUpdate,
		Permissions: []store.Role{store.RoleManagement},
		Build: func(rt *command.Runtime) command.Hooks {
			var (
				queryset       []*store.Contract
				object         *store.Contract
				fieldsToUpdate []string
			)
			return command.Hooks{
				GetQueryset: func() error {
					var err error
					queryset, err = rt.Store.Contracts().List(rt.Ctx, store.ContractFilter{})
					return err
				},
				QuerysetEmpty: func() bool { return len(queryset) == 0 },
				GetInstanceData: func() error {
					renderAll(rt, queryset, false)
					return nil
				},
				GetRequestedModel: func() (command.Route, error) {
					var err error
					object, err = requestByClientEmail(rt)
					if err != nil {
						return command.RouteNone, err
					}
					employee := ""
					if object.Employee != nil {
						employee = object.Employee.Email
					}
					rt.Console.NewLine()
					rt.Console.RenderKeyValueTable("Details of the Contract: ", [][2]string{
						{"Client: ", clientEmail(object)},
						{"[E]mployee: ", employee},
						{"[T]otal costs: ", object.TotalCents.String()},
						{"[A]mount paid: ", object.PaidCents.String()},
						{"Rest amount: ", object.RestCents().String()},
						{"[S]tate: ", object.State.Display()},
					})
					return command.RouteNone, nil
				},
				GetFieldsToUpdate: func() ([]string, error) {
					rt.Console.DisplayInputTitle("Enter choice:")
					var err error
					fieldsToUpdate, err = rt.Console.MultipleChoiceStrInput(
						[]string{"E", "T", "A", "S"}, "Your choice ? [E, T, A, S]", true)
					return fieldsToUpdate, err
				},
				GetData: func() (command.Data, error) {
					data := command.Data{}
					for _, letter := range fieldsToUpdate {
						switch letter {
						case "E":
							email, err := rt.Console.EmailInput("Employee Email", true)
							if err != nil {
								return nil, err
							}
							data[letter] = email
						case "T":
							total, err := rt.Console.DecimalInput("Total amount", true)
							if err != nil {
								return nil, err
							}
							data[letter] = total
						case "A":
							paid, err := rt.Console.DecimalInput("Amount paid", true)
							if err != nil {
								return nil, err
							}
							data[letter] = paid
						case "S":
							state, err := rt.Console.ChoiceStrInput(stateOptions, "State [S]igned or [D]raft", true)
							if err != nil {
								return nil, err
							}
							data[letter] = state
						}
					}
					return data, nil
				},
				MakeChanges: func(data command.Data) (command.Route, error) {
					var upd store.ContractUpdate
					if v, ok := data["E"]; ok {
						employee, err := rt.Store.Employees().FindByEmail(rt.Ctx, v.(string))
						if errors.Is(err, store.ErrNotFound) {
							rt.Console.DoesNotExistMessage("Employee")
							return command.RouteRetry, nil
						}
						if err != nil {
							return command.RouteNone, err
						}
						upd.EmployeeID = &employee.ID
					}
					if v, ok := data["T"]; ok {
						total := store.Cents(v.(int64))
						upd.TotalCents = &total
					}
					if v, ok := data["A"]; ok {
						paid := store.Cents(v.(int64))
						upd.PaidCents = &paid
					}
					if v, ok := data["S"]; ok {
						state := store.ContractState(v.(string))
						upd.State = &state
					}
					updated, err := rt.Store.Contracts().Update(rt.Ctx, object.ID, upd)
					if err != nil {
						return command.RouteNone, err
					}
					object = updated
					rt.Audit.Record(rt.Ctx, "update", "contract", object.ID, map[string]string{
						"client": clientEmail(object),
					})
					return command.RouteNone, nil
				},
				CollectChanges: func() [][2]string {
					rt.Console.SuccessMessage("Contract", "updated")
					employee := ""
					if object.Employee != nil {
						employee = object.Employee.Email
					}
					return [][2]string{
						{"Client: ", clientEmail(object)},
						{"Employee: ", employee},
						{"Total: ", object.TotalCents.String()},
						{"Paid amount: ", object.PaidCents.String()},
						{"Rest amount: ", object.RestCents().String()},
						{"State: ", object.State.Display()},
					}
				},
			}
		},
	}
}

func deleteSpec() command.Spec {
	return command.Spec{
		Name:        "contract_delete",
		Entity:      "contract",
		Action:      command.ActionDelete,
		Permissions: []store.Role{store.RoleManagement},
		Build: func(rt *command.Runtime) command.Hooks {
			var (
				queryset []*store.Contract
				object   *store.Contract
			)
			return command.Hooks{
				GetQueryset: func() error {
					var err error
					queryset, err = rt.Store.Contracts().List(rt.Ctx, store.ContractFilter{})
					return err
				},
				GetInstanceData: func() error {
					renderAll(rt, queryset, false)
					return nil
				},
				GetRequestedModel: func() (command.Route, error) {
					var err error
					object, err = requestByClientEmail(rt)
					if err != nil {
						return command.RouteNone, err
					}
					employee := ""
					if object.Employee != nil {
						employee = object.Employee.Email
					}
					rt.Console.NewLine()
					rt.Console.RenderKeyValueTable("Details of the Contract: ", [][2]string{
						{"Client: ", clientEmail(object)},
						{"Employee: ", employee},
						{"Total costs: ", object.TotalCents.String()},
						{"Amount paid: ", object.PaidCents.String()},
						{"Rest amount: ", object.RestCents().String()},
						{"State: ", object.State.Display()},
					})
					return command.RouteNone, nil
				},
				GetData: func() (command.Data, error) {
					rt.Console.DisplayInputTitle("Enter choice:")
					choice, err := rt.Console.ChoiceStrInput(
						[]string{"Y", "N"}, "Choice to delete [Y]es or [N]o", true)
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
					if err := rt.Store.Contracts().Delete(rt.Ctx, object.ID); err != nil {
						return command.RouteNone, err
					}
					rt.Audit.Record(rt.Ctx, "delete", "contract", object.ID, map[string]string{
						"client": clientEmail(object),
					})
					rt.Console.SuccessMessage("Contract", "deleted")
					return command.RouteNone, nil
				},
			}
		},
	}
}
