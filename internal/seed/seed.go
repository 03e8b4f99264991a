// Package seed loads a demo dataset: a roster of employees cycling
// through the three roles, clients for the sales employees, contracts
// for most clients and events for the signed ones.
package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"epicevents.org/internal/auth"
	"epicevents.org/internal/store"
)

// DefaultPassword is the password of every demo account.
const DefaultPassword = "TestPassw0rd!"

var firstNames = []string{
	"Alice", "Bruno", "Celine", "David", "Emma", "Felix",
	"Gina", "Hugo", "Ines", "Jonas", "Katia", "Leon",
	"Marie", "Nils", "Olga", "Pierre", "Quentin", "Rosa",
	"Simon", "Tara", "Ugo", "Vera", "Willem", "Yara",
}

var lastNames = []string{
	"Moreau", "Schmidt", "Lopez", "Keller", "Dubois", "Novak",
	"Garcia", "Meyer", "Rossi", "Bernard", "Wagner", "Silva",
	"Fontaine", "Koch", "Marchal", "Weiss", "Girard", "Becker",
	"Lambert", "Vogel", "Renard", "Huber", "Caron", "Brandt",
}

var companies = []string{
	"Aurora Media", "Bluebird Events", "Cascade Group", "Delta Works",
	"Evergreen Labs", "Fjord Council", "Granite Hall", "Horizon Fairs",
}

var locations = []string{
	"Paris", "Lyon", "Bordeaux", "Nantes", "Lille", "Marseille",
}

var roles = []store.Role{store.RoleSales, store.RoleSupport, store.RoleManagement}

// Demo inserts the demo dataset. Records that already exist are
// skipped, so the command can run repeatedly.
func Demo(ctx context.Context, st store.Store) error {
	hash, err := auth.HashPassword(DefaultPassword)
	if err != nil {
		return err
	}

	var sales, support []*store.Employee
	for i := range firstNames {
		e := &store.Employee{
			Email:        strings.ToLower(firstNames[i]) + "." + strings.ToLower(lastNames[i]) + "@mail.com",
			PasswordHash: hash,
			FirstName:    firstNames[i],
			LastName:     lastNames[i],
			Role:         roles[i%len(roles)],
		}
		if err := create(ctx, st, e); err != nil {
			return err
		}
		switch e.Role {
		case store.RoleSales:
			sales = append(sales, e)
		case store.RoleSupport:
			support = append(support, e)
		}
	}

	var clients []*store.Client
	for i := range firstNames {
		first := firstNames[(i+5)%len(firstNames)]
		last := lastNames[(i+11)%len(lastNames)]
		c := &store.Client{
			EmployeeID:  sales[i%len(sales)].ID,
			Email:       strings.ToLower(first) + "." + strings.ToLower(last) + "@client.com",
			FirstName:   first,
			LastName:    last,
			Phone:       fmt.Sprintf("33%08d", 1200300+i),
			CompanyName: companies[i%len(companies)],
		}
		if err := createClient(ctx, st, c); err != nil {
			return err
		}
		clients = append(clients, c)
	}

	// Contracts for two thirds of the clients, alternating state. The
	// remainder stays available for contract creation demos.
	var signed []*store.Contract
	for i, c := range clients {
		if i%3 == 2 {
			continue
		}
		state := store.StateSigned
		if i%2 == 1 {
			state = store.StateDraft
		}
		contract := &store.Contract{
			ClientID:   c.ID,
			EmployeeID: c.EmployeeID,
			TotalCents: store.Cents(int64(100000 + i*25000)),
			PaidCents:  store.Cents(int64(i * 10000)),
			State:      state,
		}
		if err := createContract(ctx, st, contract, c.Email); err != nil {
			return err
		}
		if state == store.StateSigned {
			contract.Client = c
			signed = append(signed, contract)
		}
	}

	base := time.Date(time.Now().Year()+1, time.March, 1, 0, 0, 0, 0, time.UTC)
	for i, contract := range signed {
		event := &store.Event{
			ContractID: contract.ID,
			EmployeeID: support[i%len(support)].ID,
			Date:       base.AddDate(0, 0, i*14),
			Name:       contract.Client.CompanyName + " annual meetup",
			Location:   locations[i%len(locations)],
			MaxGuests:  50 + i*10,
			Notes:      "Demo event",
		}
		if err := createEvent(ctx, st, event); err != nil {
			return err
		}
	}
	return nil
}

func create(ctx context.Context, st store.Store, e *store.Employee) error {
	err := st.Employees().Create(ctx, e)
	if errors.Is(err, store.ErrConflict) {
		existing, ferr := st.Employees().FindByEmail(ctx, e.Email)
		if ferr != nil {
			return ferr
		}
		*e = *existing
		return nil
	}
	return err
}

func createClient(ctx context.Context, st store.Store, c *store.Client) error {
	err := st.Clients().Create(ctx, c)
	if errors.Is(err, store.ErrConflict) {
		existing, ferr := st.Clients().FindByEmail(ctx, c.Email)
		if ferr != nil {
			return ferr
		}
		*c = *existing
		return nil
	}
	return err
}

func createContract(ctx context.Context, st store.Store, c *store.Contract, clientEmail string) error {
	exists, err := st.Contracts().ExistsForClient(ctx, c.ClientID)
	if err != nil {
		return err
	}
	if exists {
		existing, ferr := st.Contracts().FindByClientEmail(ctx, clientEmail)
		if ferr != nil {
			return ferr
		}
		*c = *existing
		return nil
	}
	return st.Contracts().Create(ctx, c)
}

func createEvent(ctx context.Context, st store.Store, e *store.Event) error {
	exists, err := st.Events().Exists(ctx, e.ContractID, e.Name)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return st.Events().Create(ctx, e)
}
