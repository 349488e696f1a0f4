package dto

type RegisterInput struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role"`
	BankID    string `json:"bankId,omitempty"`
}
