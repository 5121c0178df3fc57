package customer

// Customer is the single managed record. ID is zero until the store
// assigns one on insert.
type Customer struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Age   int    `json:"age"`
}

// RegistrationRequest carries the fields required to create a customer.
type RegistrationRequest struct {
	Name  string
	Email string
	Age   int
}

// UpdateRequest is a sparse patch: a nil field means no change was requested.
type UpdateRequest struct {
	Name  *string
	Email *string
	Age   *int
}

func NewCustomer(name, email string, age int) *Customer {
	return &Customer{
		Name:  name,
		Email: email,
		Age:   age,
	}
}
