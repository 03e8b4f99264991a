// Package employees registers the employee menu commands: list,
// create, update and delete.
package employees

import (
	"errors"
	"strconv"

	"epicevents.org/internal/auth"
	"epicevents.org/internal/cli"
	"epicevents.org/internal/command"
	"epicevents.org/internal/store"
)

var listHeaders = []string{"", "** Employee email **", "Name", "Role"}

var roleLabel = "Role [SA]les, [SU]pport, [MA]nagement"

var roleOptions = []string{
	string(store.RoleSales),
	string(store.RoleSupport),
	string(store.RoleManagement),
}

// Register adds the employee commands to the engine.
func Register(engine *command.Engine) {
	engine.Register(listSpec())
	engine.Register(createSpec())
	engine.Register(updateSpec())
	engine.Register(deleteSpec())
}

func renderAll(rt *command.Runtime, title string, employees []*store.Employee) {
	rows := make([][]string, 0, len(employees))
	for i, e := range employees {
		rows = append(rows, []string{
			"Employee " + strconv.Itoa(i+1),
			e.Email,
			e.FullName(),
			string(e.Role),
		})
	}
	rt.Console.RenderTable(rows, cli.TableOptions{Title: title, Headers: listHeaders})
}

// requestByEmail prompts for an email until it matches an existing
// employee.
func requestByEmail(rt *command.Runtime) (*store.Employee, error) {
	for {
		rt.Console.DisplayInputTitle("Enter details:")
		email, err := rt.Console.EmailInput("Email address", true)
		if err != nil {
			return nil, err
		}
		employee, err := rt.Store.Employees().FindByEmail(rt.Ctx, email)
		if errors.Is(err, store.ErrNotFound) {
			rt.Console.InvalidMessage("email")
			continue
		}
		if err != nil {
			return nil, err
		}
		return employee, nil
	}
}

func listSpec() command.Spec {
	return command.Spec{
		Name:        "employee_list",
		Entity:      "employee",
		Action:      command.ActionList,
		Permissions: []store.Role{store.RoleSales, store.RoleSupport, store.RoleManagement},
		Build: func(rt *command.Runtime) command.Hooks {
			var queryset []*store.Employee
			return command.Hooks{
				GetQueryset: func() error {
					var err error
					queryset, err = rt.Store.Employees().List(rt.Ctx, store.EmployeeFilter{})
					return err
				},
				GetInstanceData: func() error {
					renderAll(rt, "Employees", queryset)
					return nil
				},
			}
		},
	}
}

func createSpec() command.Spec {
	return command.Spec{
		Name:        "employee_create",
		Entity:      "employee",
		Action:      command.ActionCreate,
		Permissions: []store.Role{store.RoleManagement},
		Build: func(rt *command.Runtime) command.Hooks {
			var (
				queryset []*store.Employee
				object   *store.Employee
			)
			return command.Hooks{
				GetQueryset: func() error {
					var err error
					queryset, err = rt.Store.Employees().List(rt.Ctx, store.EmployeeFilter{})
					return err
				},
				GetInstanceData: func() error {
					renderAll(rt, "Employee", queryset)
					return nil
				},
				GetData: func() (command.Data, error) {
					rt.Console.DisplayInputTitle("Enter details to create an employee:")

					email, err := rt.Console.EmailInput("Email address", true)
					if err != nil {
						return nil, err
					}
					password, err := rt.Console.PasswordInput("Password", true)
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
					role, err := rt.Console.ChoiceStrInput(roleOptions, roleLabel, true)
					if err != nil {
						return nil, err
					}
					return command.Data{
						"email":      email,
						"password":   password,
						"first_name": firstName,
						"last_name":  lastName,
						"role":       role,
					}, nil
				},
				MakeChanges: func(data command.Data) (command.Route, error) {
					hash, err := auth.HashPassword(data["password"].(string))
					if err != nil {
						return command.RouteNone, err
					}
					object = &store.Employee{
						Email:        data["email"].(string),
						PasswordHash: hash,
						FirstName:    data["first_name"].(string),
						LastName:     data["last_name"].(string),
						Role:         store.Role(data["role"].(string)),
					}
					err = rt.Store.Employees().Create(rt.Ctx, object)
					if errors.Is(err, store.ErrConflict) {
						rt.Console.ExistsMessage("Email")
						return command.RouteRetry, nil
					}
					if err != nil {
						return command.RouteNone, err
					}
					rt.Audit.Record(rt.Ctx, "create", "employee", object.ID, map[string]string{
						"email": object.Email,
						"role":  string(object.Role),
					})
					return command.RouteNone, nil
				},
				CollectChanges: func() [][2]string {
					rt.Console.SuccessMessage("Employee", "created")
					return [][2]string{
						{"Email: ", object.Email},
						{"First name: ", object.FirstName},
						{"Last name: ", object.LastName},
						{"Role: ", object.Role.Display()},
					}
				},
			}
		},
	}
}

func updateSpec() command.Spec {
	return command.Spec{
		Name:        "employee_update",
		Entity:      "employee",
		Action:      command.ActionUpdate,
		Permissions: []store.Role{store.RoleManagement},
		Build: func(rt *command.Runtime) command.Hooks {
			var (
				queryset       []*store.Employee
				object         *store.Employee
				fieldsToUpdate []string
			)
			return command.Hooks{
				GetQueryset: func() error {
					var err error
					queryset, err = rt.Store.Employees().List(rt.Ctx, store.EmployeeFilter{})
					return err
				},
				QuerysetEmpty: func() bool { return len(queryset) == 0 },
				GetInstanceData: func() error {
					renderAll(rt, "Employees", queryset)
					return nil
				},
				GetRequestedModel: func() (command.Route, error) {
					var err error
					object, err = requestByEmail(rt)
					if err != nil {
						return command.RouteNone, err
					}
					rt.Console.NewLine()
					rt.Console.RenderKeyValueTable("Details of the Employee: ", [][2]string{
						{"[E]mail: ", object.Email},
						{"[F]irst name: ", object.FirstName},
						{"[L]ast name: ", object.LastName},
						{"[R]ole: ", object.Role.Display()},
					})
					return command.RouteNone, nil
				},
				GetFieldsToUpdate: func() ([]string, error) {
					rt.Console.DisplayInputTitle("Enter choice:")
					var err error
					fieldsToUpdate, err = rt.Console.MultipleChoiceStrInput(
						[]string{"E", "F", "L", "R"}, "Your choice ? [E, F, L, R]", true)
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
						case "R":
							value, err = rt.Console.ChoiceStrInput(
								roleOptions, "Role: [SA]les, [SU]pport or [MA]nagement", true)
						}
						if err != nil {
							return nil, err
						}
						data[letter] = value
					}
					return data, nil
				},
				MakeChanges: func(data command.Data) (command.Route, error) {
					var upd store.EmployeeUpdate
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
					if v, ok := data["R"]; ok {
						role := store.Role(v.(string))
						upd.Role = &role
					}
					updated, err := rt.Store.Employees().Update(rt.Ctx, object.ID, upd)
					if errors.Is(err, store.ErrConflict) {
						rt.Console.ExistsMessage("This email")
						return command.RouteRetry, nil
					}
					if err != nil {
						return command.RouteNone, err
					}
					object = updated
					rt.Audit.Record(rt.Ctx, "update", "employee", object.ID, map[string]string{
						"email": object.Email,
					})
					return command.RouteNone, nil
				},
				CollectChanges: func() [][2]string {
					rt.Console.SuccessMessage("Employee", "updated")
					return [][2]string{
						{"Email: ", object.Email},
						{"First name: ", object.FirstName},
						{"Last name: ", object.LastName},
						{"Role: ", object.Role.Display()},
					}
				},
			}
		},
	}
}

func deleteSpec() command.Spec {
	return command.Spec{
		Name:        "employee_delete",
		Entity:      "employee",
		Action:      command.ActionDelete,
		Permissions: []store.Role{store.RoleManagement},
		Build: func(rt *command.Runtime) command.Hooks {
			var (
				queryset []*store.Employee
				object   *store.Employee
			)
			return command.Hooks{
				GetQueryset: func() error {
					var err error
					queryset, err = rt.Store.Employees().List(rt.Ctx, store.EmployeeFilter{})
					return err
				},
				GetInstanceData: func() error {
					renderAll(rt, "Employee", queryset)
					return nil
				},
				GetRequestedModel: func() (command.Route, error) {
					var err error
					object, err = requestByEmail(rt)
					if err != nil {
						return command.RouteNone, err
					}
					rt.Console.NewLine()
					rt.Console.RenderKeyValueTable("Details of the Employee:", [][2]string{
						{"Email: ", object.Email},
						{"First name: ", object.FirstName},
						{"Last name: ", object.LastName},
						{"Role: ", object.Role.Display()},
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
					if err := rt.Store.Employees().Delete(rt.Ctx, object.ID); err != nil {
						return command.RouteNone, err
					}
					rt.Audit.Record(rt.Ctx, "delete", "employee", object.ID, map[string]string{
						"email": object.Email,
					})
					rt.Console.SuccessMessage("Employee", "deleted")
					return command.RouteNone, nil
				},
			}
		},
	}
}
