// Package events registers the event menu commands: list with
// filtering, create, update and delete. Events are created by sales
// for clients with a signed contract and run by a support employee.
package events

import (
	"errors"
	"strconv"
	"time"

	"epicevents.org/internal/cli"
	"epicevents.org/internal/command"
	"epicevents.org/internal/store"
)

var listHeaders = []string{
	"", "** Client email **", "Date", "Name", "Location", "Max guests", "Employee",
}

var filterFields = []command.FilterField{
	{Code: "C", Label: "client", Column: "client"},
	{Code: "D", Label: "date", Column: "date"},
	{Code: "N", Label: "name", Column: "name"},
	{Code: "L", Label: "location", Column: "location"},
	{Code: "M", Label: "max guests", Column: "max_guests"},
}

const dateLayout = "02/01/2006"

// Register adds the event commands to the engine.
func Register(engine *command.Engine) {
	engine.Register(listFilterSpec())
	engine.Register(createSpec())
	engine.Register(updateSpec())
	engine.Register(deleteSpec())
}

func clientEmail(e *store.Event) string {
	if e.Contract == nil || e.Contract.Client == nil {
		return ""
	}
	return e.Contract.Client.Email
}

func employeeCell(e *store.Event) string {
	if e.Employee == nil {
		return ""
	}
	return e.Employee.FullName() + " (" + string(e.Employee.Role) + ")"
}

func renderAll(rt *command.Runtime, title string, events []*store.Event, withEmployee bool) {
	headers := listHeaders
	if !withEmployee {
		headers = listHeaders[:6]
	}
	rows := make([][]string, 0, len(events))
	for i, e := range events {
		row := []string{
			"Event " + strconv.Itoa(i+1),
			clientEmail(e),
			e.Date.Format(dateLayout),
			e.Name,
			e.Location,
			strconv.Itoa(e.MaxGuests),
		}
		if withEmployee {
			row = append(row, employeeCell(e))
		}
		rows = append(rows, row)
	}
	rt.Console.RenderTable(rows, cli.TableOptions{Title: title, Headers: headers})
}

func requestByClientEmail(rt *command.Runtime) (*store.Event, error) {
	for {
		rt.Console.DisplayInputTitle("Enter details:")
		email, err := rt.Console.EmailInput("Email address of client", true)
		if err != nil {
			return nil, err
		}
		event, err := rt.Store.Events().FindByClientEmail(rt.Ctx, email)
		if errors.Is(err, store.ErrNotFound) {
			rt.Console.InvalidMessage("email")
			continue
		}
		if err != nil {
			return nil, err
		}
		return event, nil
	}
}

func listFilterSpec() command.Spec {
	return command.Spec{
		Name:        "event_list_filter",
		Entity:      "event",
		Action:      command.ActionListFilter,
		Permissions: []store.Role{store.RoleSales, store.RoleSupport, store.RoleManagement},
		Build: func(rt *command.Runtime) command.Hooks {
			var (
				queryset []*store.Event
				filtered []*store.Event
				orderBy  []store.OrderField
			)
			return command.Hooks{
				GetQueryset: func() error {
					var err error
					queryset, err = rt.Store.Events().List(rt.Ctx, store.EventFilter{})
					return err
				},
				QuerysetEmpty: func() bool { return len(queryset) == 0 },
				GetInstanceData: func() error {
					renderAll(rt, "Events", queryset, true)
					return nil
				},
				GetData: func() (command.Data, error) {
					return command.FilterPrompt(rt.Console, "event")
				},
				UserChoice: func(choice command.Data) (command.Route, error) {
					return command.FilterGate(rt, []store.Role{store.RoleSupport}, choice)
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
					filtered, err = rt.Store.Events().List(rt.Ctx, store.EventFilter{
						EmployeeID: rt.User.ID,
						OrderBy:    orderBy,
					})
					return err
				},
				DisplayResult: func() error {
					rows := make([][]string, 0, len(filtered))
					for i, e := range filtered {
						rows = append(rows, []string{
							"Event " + strconv.Itoa(i+1),
							clientEmail(e),
							e.Date.Format(dateLayout),
							e.Name,
							e.Location,
							strconv.Itoa(e.MaxGuests),
						})
					}
					rt.Console.RenderTable(rows, cli.TableOptions{
						Title:   "my Events",
						Headers: listHeaders[:6],
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
		Name:        "event_create",
		Entity:      "event",
		Action:      command.ActionCreate,
		Permissions: []store.Role{store.RoleSales},
		Build: func(rt *command.Runtime) command.Hooks {
			var (
				supportEmployees []*store.Employee
				signedClients    []*store.Client
				object           *store.Event
			)
			return command.Hooks{
				GetQueryset: func() error {
					var err error
					supportEmployees, err = rt.Store.Employees().List(rt.Ctx, store.EmployeeFilter{Role: store.RoleSupport})
					if err != nil {
						return err
					}
					signedClients, err = rt.Store.Clients().List(rt.Ctx, store.ClientFilter{SignedContract: true})
					return err
				},
				GetInstanceData: func() error {
					employeeRows := make([][]string, 0, len(supportEmployees))
					for i, e := range supportEmployees {
						employeeRows = append(employeeRows, []string{
							"Employee " + strconv.Itoa(i+1),
							e.Email,
							string(e.Role),
						})
					}
					rt.Console.RenderTable(employeeRows, cli.TableOptions{
						Title:   "SU Employees",
						Headers: []string{"", "** Employee email **", "Role"},
					})

					clientRows := make([][]string, 0, len(signedClients))
					for i, c := range signedClients {
						clientRows = append(clientRows, []string{
							"Client " + strconv.Itoa(i+1),
							c.Email,
						})
					}
					rt.Console.RenderTable(clientRows, cli.TableOptions{
						Title:   "Clients with signed contract",
						Headers: []string{"", "** Client email **"},
					})
					return nil
				},
				GetData: func() (command.Data, error) {
					rt.Console.DisplayInputTitle("Enter the details to create a new event:")

					client, err := rt.Console.EmailInput("Client email", true)
					if err != nil {
						return nil, err
					}
					date, err := rt.Console.DateInput("Date of the event [DD/MM/YYYY]", true)
					if err != nil {
						return nil, err
					}
					name, err := rt.Console.TextInput("Name of the event", true)
					if err != nil {
						return nil, err
					}
					location, err := rt.Console.TextInput("Location of the event", true)
					if err != nil {
						return nil, err
					}
					maxGuests, err := rt.Console.IntInput("Number of guests", true)
					if err != nil {
						return nil, err
					}
					notes, err := rt.Console.TextInput("Any notes", true)
					if err != nil {
						return nil, err
					}
					employee, err := rt.Console.EmailInput("SU employee email", true)
					if err != nil {
						return nil, err
					}
					return command.Data{
						"client":     client,
						"date":       date,
						"name":       name,
						"location":   location,
						"max_guests": maxGuests,
						"notes":      notes,
						"employee":   employee,
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

					employee, err := rt.Store.Employees().FindByEmail(rt.Ctx, data["employee"].(string))
					if errors.Is(err, store.ErrNotFound) {
						rt.Console.DoesNotExistMessage("Employee")
						return command.RouteRetry, nil
					}
					if err != nil {
						return command.RouteNone, err
					}

					contract, err := rt.Store.Contracts().FindByClientEmail(rt.Ctx, client.Email)
					if errors.Is(err, store.ErrNotFound) {
						rt.Console.DoesNotExistMessage("Contract")
						return command.RouteRetry, nil
					}
					if err != nil {
						return command.RouteNone, err
					}

					exists, err := rt.Store.Events().Exists(rt.Ctx, contract.ID, data["name"].(string))
					if err != nil {
						return command.RouteNone, err
					}
					if exists {
						rt.Console.ExistsMessage("Event")
						return command.RouteRetry, nil
					}

					object = &store.Event{
						ContractID: contract.ID,
						EmployeeID: employee.ID,
						Date:       data["date"].(time.Time),
						Name:       data["name"].(string),
						Location:   data["location"].(string),
						MaxGuests:  data["max_guests"].(int),
						Notes:      data["notes"].(string),
					}
					if err := rt.Store.Events().Create(rt.Ctx, object); err != nil {
						return command.RouteNone, err
					}
					contract.Client = client
					object.Contract = contract
					object.Employee = employee
					rt.Audit.Record(rt.Ctx, "create", "event", object.ID, map[string]string{
						"client": client.Email,
						"name":   object.Name,
					})
					return command.RouteNone, nil
				},
				CollectChanges: func() [][2]string {
					rt.Console.SuccessMessage("Event", "created")
					employee := ""
					if object.Employee != nil {
						employee = object.Employee.Email
					}
					return [][2]string{
						{"Client: ", clientEmail(object)},
						{"Employee: ", employee},
						{"Date: ", object.Date.Format(dateLayout)},
						{"Name: ", object.Name},
						{"Location: ", object.Location},
						{"Max guests: ", strconv.Itoa(object.MaxGuests)},
						{"Notes: ", object.Notes},
					}
				},
			}
		},
	}
}

func updateSpec() command.Spec {
	return command.Spec{
		Name:        "event_update",
		Entity:      "event",
		Action:      command.ActionUpdate,
		Permissions: []store.Role{store.RoleSupport, store.RoleManagement},
		Build: func(rt *command.Runtime) command.Hooks {
			var (
				queryset       []*store.Event
				object         *store.Event
				fieldsToUpdate []string
			)
			return command.Hooks{
				GetQueryset: func() error {
					filter := store.EventFilter{}
					// Support only sees their own events, management
					// all of them.
					if rt.User.Role == store.RoleSupport {
						filter.EmployeeID = rt.User.ID
					}
					var err error
					queryset, err = rt.Store.Events().List(rt.Ctx, filter)
					return err
				},
				QuerysetEmpty: func() bool { return len(queryset) == 0 },
				GetInstanceData: func() error {
					renderAll(rt, "my Events", queryset, rt.User.Role == store.RoleManagement)
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
					rt.Console.RenderKeyValueTable("Details of the Event: ", [][2]string{
						{"Client: ", clientEmail(object)},
						{"[E]mployee: ", employee},
						{"[D]ate: ", object.Date.Format(dateLayout)},
						{"[N]ame: ", object.Name},
						{"[L]ocation: ", object.Location},
						{"number of [G]uests: ", strconv.Itoa(object.MaxGuests)},
						{"[No]tes: ", object.Notes},
					})
					return command.RouteNone, nil
				},
				GetFieldsToUpdate: func() ([]string, error) {
					rt.Console.DisplayInputTitle("Enter choice:")
					var err error
					fieldsToUpdate, err = rt.Console.MultipleChoiceStrInput(
						[]string{"E", "D", "N", "L", "G", "No"},
						"Your choice ? [E, D, N, L, G, No]", true)
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
						case "D":
							date, err := rt.Console.DateInput("Date of the event", true)
							if err != nil {
								return nil, err
							}
							data[letter] = date
						case "N":
							name, err := rt.Console.TextInput("Name of event", true)
							if err != nil {
								return nil, err
							}
							data[letter] = name
						case "L":
							location, err := rt.Console.TextInput("Location of the event", true)
							if err != nil {
								return nil, err
							}
							data[letter] = location
						case "G":
							guests, err := rt.Console.IntInput("Number of guests", true)
							if err != nil {
								return nil, err
							}
							data[letter] = guests
						case "No":
							notes, err := rt.Console.TextInput("Notes of the event", true)
							if err != nil {
								return nil, err
							}
							data[letter] = notes
						}
					}
					return data, nil
				},
				MakeChanges: func(data command.Data) (command.Route, error) {
					var upd store.EventUpdate
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
					if v, ok := data["D"]; ok {
						date := v.(time.Time)
						upd.Date = &date
					}
					if v, ok := data["N"]; ok {
						name := v.(string)
						upd.Name = &name
					}
					if v, ok := data["L"]; ok {
						location := v.(string)
						upd.Location = &location
					}
					if v, ok := data["G"]; ok {
						guests := v.(int)
						upd.MaxGuests = &guests
					}
					if v, ok := data["No"]; ok {
						notes := v.(string)
						upd.Notes = &notes
					}
					updated, err := rt.Store.Events().Update(rt.Ctx, object.ID, upd)
					if err != nil {
						return command.RouteNone, err
					}
					object = updated
					rt.Audit.Record(rt.Ctx, "update", "event", object.ID, map[string]string{
						"client": clientEmail(object),
						"name":   object.Name,
					})
					return command.RouteNone, nil
				},
				CollectChanges: func() [][2]string {
					rt.Console.SuccessMessage("Event", "updated")
					employee := ""
					if object.Employee != nil {
						employee = object.Employee.Email
					}
					return [][2]string{
						{"Client: ", clientEmail(object)},
						{"Employee: ", employee},
						{"Date: ", object.Date.Format(dateLayout)},
						{"Name: ", object.Name},
						{"Location: ", object.Location},
						{"Max guests: ", strconv.Itoa(object.MaxGuests)},
						{"Notes: ", object.Notes},
					}
				},
			}
		},
	}
}

func deleteSpec() command.Spec {
	return command.Spec{
		Name:        "event_delete",
		Entity:      "event",
		Action:      command.ActionDelete,
		Permissions: []store.Role{store.RoleManagement},
		Build: func(rt *command.Runtime) command.Hooks {
			var (
				queryset []*store.Event
				object   *store.Event
			)
			return command.Hooks{
				GetQueryset: func() error {
					var err error
					queryset, err = rt.Store.Events().List(rt.Ctx, store.EventFilter{})
					return err
				},
				GetInstanceData: func() error {
					renderAll(rt, "Events", queryset, false)
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
					rt.Console.RenderKeyValueTable("Details of the Event: ", [][2]string{
						{"Client: ", clientEmail(object)},
						{"Employee: ", employee},
						{"Date: ", object.Date.Format(dateLayout)},
						{"Name: ", object.Name},
						{"Location: ", object.Location},
						{"number of Guests: ", strconv.Itoa(object.MaxGuests)},
						{"Notes: ", object.Notes},
					})
					return command.RouteNone, nil
				},
				GetData: func() (command.Data, error) {
					rt.Console.DisplayInputTitle("Enter choice: ")
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
					if err := rt.Store.Events().Delete(rt.Ctx, object.ID); err != nil {
						return command.RouteNone, err
					}
					rt.Audit.Record(rt.Ctx, "delete", "event", object.ID, map[string]string{
						"client": clientEmail(object),
						"name":   object.Name,
					})
					rt.Console.SuccessMessage("Event", "deleted")
					return command.RouteNone, nil
				},
			}
		},
	}
}
